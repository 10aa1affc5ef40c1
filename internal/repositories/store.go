package repositories

import (
	"context"
	"errors"

	"atenciones-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned when a record id does not resolve
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key (cedula, consecutivo, email) is already taken
	ErrDuplicate = errors.New("duplicate key")
	// ErrReferenced is returned when deleting a row that other rows still point at
	ErrReferenced = errors.New("record is still referenced")
)

// UserStore holds officers and their credentials. Users are seed data.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// RegionStore holds the static region reference set
type RegionStore interface {
	Create(ctx context.Context, r *models.Region) error
	Get(ctx context.Context, id string) (*models.Region, error)
	List(ctx context.Context) ([]*models.Region, error)
}

// AgencyStore holds the static agency reference set
type AgencyStore interface {
	Create(ctx context.Context, a *models.Agency) error
	Get(ctx context.Context, id string) (*models.Agency, error)
	List(ctx context.Context) ([]*models.Agency, error)
	ListByRegion(ctx context.Context, regionID string) ([]*models.Agency, error)
}

// ProducerStore holds producers keyed by id and unique cedula
type ProducerStore interface {
	Create(ctx context.Context, p *models.Producer) error
	Get(ctx context.Context, id string) (*models.Producer, error)
	GetByCedula(ctx context.Context, cedula string) (*models.Producer, error)
	// Search matches nombre, cedula, telefono or correo case-insensitively; empty search lists all.
	// Results are ordered by nombre with visit counts attached.
	Search(ctx context.Context, search string) ([]*models.ProducerWithCount, error)
	Update(ctx context.Context, p *models.Producer) error
	// Delete fails with ErrReferenced while any visit points at the producer
	Delete(ctx context.Context, id string) error
}

// VisitStore holds visit records
type VisitStore interface {
	// Create inserts v. When v.Consecutivo is empty the next number for year is
	// allocated atomically with the insert.
	Create(ctx context.Context, v *models.Visit, year int) error
	Get(ctx context.Context, id string) (*models.Visit, error)
	// List returns every visit in insertion order
	List(ctx context.Context) ([]*models.Visit, error)
	ListByProducer(ctx context.Context, producerID string) ([]*models.Visit, error)
	CountByProducer(ctx context.Context, producerID string) (int, error)
	Update(ctx context.Context, v *models.Visit) error
	Delete(ctx context.Context, id string) error
}

// Store bundles the per-entity stores a backend provides
type Store struct {
	Users     UserStore
	Regions   RegionStore
	Agencies  AgencyStore
	Producers ProducerStore
	Visits    VisitStore
}

// NewPostgresStore wires every pgx repository over one pool
func NewPostgresStore(db *pgxpool.Pool) Store {
	return Store{
		Users:     NewUserRepository(db),
		Regions:   NewRegionRepository(db),
		Agencies:  NewAgencyRepository(db),
		Producers: NewProducerRepository(db),
		Visits:    NewVisitRepository(db),
	}
}
