// Package memory is an in-process implementation of the record stores.
// It backs tests and the zero-dependency "memory" store driver; contents reset per process.
package memory

import (
	"strconv"
	"sync"
	"time"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
)

// DB holds every collection behind one lock so cross-collection checks
// (producer delete guard, consecutivo allocation) are atomic.
type DB struct {
	mu        sync.RWMutex
	users     []*models.User
	regions   []*models.Region
	agencies  []*models.Agency
	producers []*models.Producer
	visits    []*models.Visit
	seq       map[string]int
	now       func() time.Time
}

// NewDB returns an empty database
func NewDB() *DB {
	return &DB{seq: make(map[string]int), now: time.Now}
}

// NewStore wires every memory repository over one fresh DB
func NewStore() repositories.Store {
	return NewStoreWithDB(NewDB())
}

// NewStoreWithDB wires every memory repository over db
func NewStoreWithDB(db *DB) repositories.Store {
	return repositories.Store{
		Users:     NewUserRepository(db),
		Regions:   NewRegionRepository(db),
		Agencies:  NewAgencyRepository(db),
		Producers: NewProducerRepository(db),
		Visits:    NewVisitRepository(db),
	}
}

// assignID keeps a caller-provided id (seed data) or allocates the next sequential one.
// Callers hold db.mu.
func (db *DB) assignID(collection string, id *string) {
	if *id != "" {
		if n, err := strconv.Atoi(*id); err == nil && n > db.seq[collection] {
			db.seq[collection] = n
		}
		return
	}
	db.seq[collection]++
	*id = strconv.Itoa(db.seq[collection])
}
