package memory

import (
	"context"
	"strings"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.users {
		if strings.EqualFold(existing.Email, u.Email) || (u.ID != "" && existing.ID == u.ID) {
			return repositories.ErrDuplicate
		}
	}
	r.db.assignID("users", &u.ID)
	cp := *u
	r.db.users = append(r.db.users, &cp)
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	users := make([]*models.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

type RegionRepository struct {
	db *DB
}

func NewRegionRepository(db *DB) *RegionRepository {
	return &RegionRepository{db: db}
}

func (r *RegionRepository) Create(ctx context.Context, region *models.Region) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, existing := range r.db.regions {
		if region.ID != "" && existing.ID == region.ID {
			return repositories.ErrDuplicate
		}
	}
	r.db.assignID("regions", &region.ID)
	cp := *region
	r.db.regions = append(r.db.regions, &cp)
	return nil
}

func (r *RegionRepository) Get(ctx context.Context, id string) (*models.Region, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, region := range r.db.regions {
		if region.ID == id {
			cp := *region
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *RegionRepository) List(ctx context.Context) ([]*models.Region, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	regions := make([]*models.Region, 0, len(r.db.regions))
	for _, region := range r.db.regions {
		cp := *region
		regions = append(regions, &cp)
	}
	return regions, nil
}

type AgencyRepository struct {
	db *DB
}

func NewAgencyRepository(db *DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

func (r *AgencyRepository) Create(ctx context.Context, a *models.Agency) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	found := false
	for _, region := range r.db.regions {
		if region.ID == a.RegionID {
			found = true
			break
		}
	}
	if !found {
		return repositories.ErrNotFound
	}
	for _, existing := range r.db.agencies {
		if a.ID != "" && existing.ID == a.ID {
			return repositories.ErrDuplicate
		}
	}
	r.db.assignID("agencies", &a.ID)
	cp := *a
	r.db.agencies = append(r.db.agencies, &cp)
	return nil
}

func (r *AgencyRepository) Get(ctx context.Context, id string) (*models.Agency, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, a := range r.db.agencies {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *AgencyRepository) List(ctx context.Context) ([]*models.Agency, error) {
	return r.ListByRegion(ctx, "")
}

// ListByRegion returns the agencies of one region, or all when regionID is empty
func (r *AgencyRepository) ListByRegion(ctx context.Context, regionID string) ([]*models.Agency, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	agencies := make([]*models.Agency, 0, len(r.db.agencies))
	for _, a := range r.db.agencies {
		if regionID != "" && a.RegionID != regionID {
			continue
		}
		cp := *a
		agencies = append(agencies, &cp)
	}
	return agencies, nil
}
