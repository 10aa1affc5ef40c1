package memory

import (
	"context"
	"sort"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
	"atenciones-backend/internal/textutil"
)

type ProducerRepository struct {
	db *DB
}

func NewProducerRepository(db *DB) *ProducerRepository {
	return &ProducerRepository{db: db}
}

func (r *ProducerRepository) Create(ctx context.Context, p *models.Producer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.producers {
		if existing.Cedula == p.Cedula || (p.ID != "" && existing.ID == p.ID) {
			return repositories.ErrDuplicate
		}
	}
	r.db.assignID("producers", &p.ID)
	now := r.db.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	cp := *p
	r.db.producers = append(r.db.producers, &cp)
	return nil
}

func (r *ProducerRepository) Get(ctx context.Context, id string) (*models.Producer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, p := range r.db.producers {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *ProducerRepository) GetByCedula(ctx context.Context, cedula string) (*models.Producer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, p := range r.db.producers {
		if p.Cedula == cedula {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *ProducerRepository) Search(ctx context.Context, search string) ([]*models.ProducerWithCount, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	counts := make(map[string]int, len(r.db.producers))
	for _, v := range r.db.visits {
		counts[v.ProductorID]++
	}

	m := textutil.NewMatcher(search)
	result := make([]*models.ProducerWithCount, 0, len(r.db.producers))
	for _, p := range r.db.producers {
		if !m.Any(p.Nombre, p.Cedula, p.Telefono, p.Correo) {
			continue
		}
		result = append(result, &models.ProducerWithCount{Producer: *p, TotalAtenciones: counts[p.ID]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return textutil.Fold(result[i].Nombre) < textutil.Fold(result[j].Nombre)
	})
	return result, nil
}

func (r *ProducerRepository) Update(ctx context.Context, p *models.Producer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	idx := -1
	for i, existing := range r.db.producers {
		if existing.ID == p.ID {
			idx = i
		} else if existing.Cedula == p.Cedula {
			return repositories.ErrDuplicate
		}
	}
	if idx < 0 {
		return repositories.ErrNotFound
	}
	p.CreatedAt = r.db.producers[idx].CreatedAt
	p.UpdatedAt = r.db.now()
	cp := *p
	r.db.producers[idx] = &cp
	return nil
}

func (r *ProducerRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, v := range r.db.visits {
		if v.ProductorID == id {
			return repositories.ErrReferenced
		}
	}
	for i, p := range r.db.producers {
		if p.ID == id {
			r.db.producers = append(r.db.producers[:i], r.db.producers[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}
