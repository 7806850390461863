package records

import (
	"context"

	"landedcost/internal/core/id"
)

// Store is the persistence contract for saved calculations. Two
// implementations exist: the primary Postgres store and the local SQLite
// fallback. Both honor the same semantics so the service can switch between
// them transparently.
type Store interface {
	// Save inserts a record that already carries id and timestamps.
	Save(ctx context.Context, rec *SavedCalculation) error

	// Update rewrites a record in place by id. created_at is never touched.
	// Returns NOT_FOUND if the id does not exist.
	Update(ctx context.Context, rec *SavedCalculation) error

	// Get loads a full record, including the input snapshot.
	Get(ctx context.Context, recID id.ID) (*SavedCalculation, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]*SavedCalculation, error)

	// Delete removes a record. Returns NOT_FOUND if the id does not exist.
	Delete(ctx context.Context, recID id.ID) error

	// Healthy reports whether the backing store is currently reachable.
	Healthy(ctx context.Context) bool

	// Name identifies the backend ("postgres", "sqlite") for logging.
	Name() string
}
