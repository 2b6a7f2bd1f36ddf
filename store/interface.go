package store

import (
	"context"

	"github.com/josephgoksu/TaskNest/models"
)

// Persister defines the contract for durable storage of a task collection.
// The whole ordered collection is the unit of persistence.
type Persister interface {
	// Load reads the persisted collection in its stored order.
	// It returns ErrNoData when nothing has been persisted yet, and a
	// *PersistenceError when the data exists but cannot be read or parsed.
	Load(ctx context.Context) ([]models.Task, error)

	// Save overwrites the persisted collection with tasks.
	Save(ctx context.Context, tasks []models.Task) error

	// Lock acquires an exclusive lock spanning a read-modify-write cycle.
	// The returned function releases it.
	Lock(ctx context.Context) (unlock func() error, err error)

	// Path returns the location of the persisted data.
	Path() string

	// Close releases any resources held by the persister.
	Close() error
}
