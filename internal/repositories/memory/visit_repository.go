package memory

import (
	"context"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
)

type VisitRepository struct {
	db *DB
}

func NewVisitRepository(db *DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// Create allocates the consecutivo and appends the visit under the write lock,
// so concurrent creates in the same year never share a number.
func (r *VisitRepository) Create(ctx context.Context, v *models.Visit, year int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if v.Consecutivo == "" {
		codes := make([]string, 0, len(r.db.visits))
		for _, existing := range r.db.visits {
			codes = append(codes, existing.Consecutivo)
		}
		v.Consecutivo = repositories.NextConsecutivo(codes, year)
	}
	for _, existing := range r.db.visits {
		if existing.Consecutivo == v.Consecutivo || (v.ID != "" && existing.ID == v.ID) {
			return repositories.ErrDuplicate
		}
	}
	if err := r.checkRefs(v); err != nil {
		return err
	}

	r.db.assignID("visits", &v.ID)
	now := r.db.now()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	cp := *v
	r.db.visits = append(r.db.visits, &cp)
	return nil
}

// checkRefs mirrors the foreign keys of the SQL schema. Callers hold db.mu.
func (r *VisitRepository) checkRefs(v *models.Visit) error {
	producer, agency, user := false, false, false
	for _, p := range r.db.producers {
		producer = producer || p.ID == v.ProductorID
	}
	for _, a := range r.db.agencies {
		agency = agency || a.ID == v.AgenciaID
	}
	for _, u := range r.db.users {
		user = user || u.ID == v.FuncionarioID
	}
	if !producer || !agency || !user {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *VisitRepository) Get(ctx context.Context, id string) (*models.Visit, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, v := range r.db.visits {
		if v.ID == id {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *VisitRepository) List(ctx context.Context) ([]*models.Visit, error) {
	return r.list(func(*models.Visit) bool { return true }), nil
}

func (r *VisitRepository) ListByProducer(ctx context.Context, producerID string) ([]*models.Visit, error) {
	return r.list(func(v *models.Visit) bool { return v.ProductorID == producerID }), nil
}

func (r *VisitRepository) list(keep func(*models.Visit) bool) []*models.Visit {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	visits := make([]*models.Visit, 0, len(r.db.visits))
	for _, v := range r.db.visits {
		if keep(v) {
			cp := *v
			visits = append(visits, &cp)
		}
	}
	return visits
}

func (r *VisitRepository) CountByProducer(ctx context.Context, producerID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, v := range r.db.visits {
		if v.ProductorID == producerID {
			n++
		}
	}
	return n, nil
}

func (r *VisitRepository) Update(ctx context.Context, v *models.Visit) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, existing := range r.db.visits {
		if existing.ID != v.ID {
			continue
		}
		if err := r.checkRefs(v); err != nil {
			return err
		}
		// consecutivo and creation time are immutable
		v.Consecutivo = existing.Consecutivo
		v.CreatedAt = existing.CreatedAt
		v.UpdatedAt = r.db.now()
		cp := *v
		r.db.visits[i] = &cp
		return nil
	}
	return repositories.ErrNotFound
}

func (r *VisitRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, v := range r.db.visits {
		if v.ID == id {
			r.db.visits = append(r.db.visits[:i], r.db.visits[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}
