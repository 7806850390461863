package records

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"landedcost/internal/core/apperror"
	"landedcost/internal/core/id"
	"landedcost/pkg/logger"
)

var tracer = otel.Tracer("landedcost/records")

// Mode reports which backend served an operation. Local mode is the
// degraded-mode notice: the caller sees it as information, not an error.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Service fronts the two record stores with a per-operation failover policy:
// try the primary, and on infrastructure failure run the same operation
// against the local fallback. Domain errors (NOT_FOUND) never fail over.
type Service struct {
	primary  Store
	fallback Store
	now      func() time.Time
}

// NewService creates the record service. primary may be nil when the remote
// store was never configured; the fallback is required.
func NewService(primary, fallback Store) *Service {
	return &Service{
		primary:  primary,
		fallback: fallback,
		now:      time.Now,
	}
}

// Save assigns identity and timestamps, then persists the record.
func (s *Service) Save(ctx context.Context, rec *SavedCalculation) (id.ID, Mode, error) {
	ctx, span := tracer.Start(ctx, "records.save")
	defer span.End()

	rec.ID = id.New()
	now := s.now().UTC()
	rec.CreatedAt = now
	rec.LastModified = now

	mode, err := s.run(ctx, func(store Store) error {
		return store.Save(ctx, rec)
	})
	if err != nil {
		return id.Nil(), mode, err
	}

	span.SetAttributes(attribute.String("record.id", rec.ID.String()))
	return rec.ID, mode, nil
}

// Update rewrites an existing record in place. CreatedAt is preserved by the
// stores; only LastModified advances.
func (s *Service) Update(ctx context.Context, recID id.ID, rec *SavedCalculation) (Mode, error) {
	ctx, span := tracer.Start(ctx, "records.update")
	defer span.End()

	rec.ID = recID
	rec.LastModified = s.now().UTC()

	return s.run(ctx, func(store Store) error {
		return store.Update(ctx, rec)
	})
}

// Get loads one record with its full input snapshot.
func (s *Service) Get(ctx context.Context, recID id.ID) (*SavedCalculation, Mode, error) {
	ctx, span := tracer.Start(ctx, "records.get")
	defer span.End()

	var rec *SavedCalculation
	mode, err := s.run(ctx, func(store Store) error {
		var err error
		rec, err = store.Get(ctx, recID)
		return err
	})
	return rec, mode, err
}

// List returns the browse list, newest first, optionally filtered by
// category. The limit is capped at BrowseLimit.
func (s *Service) List(ctx context.Context, limit int, category string) ([]*SavedCalculation, Mode, error) {
	ctx, span := tracer.Start(ctx, "records.list")
	defer span.End()

	if limit <= 0 || limit > BrowseLimit {
		limit = BrowseLimit
	}

	var recs []*SavedCalculation
	mode, err := s.run(ctx, func(store Store) error {
		var err error
		recs, err = store.List(ctx, limit)
		return err
	})
	if err != nil {
		return nil, mode, err
	}

	if category != "" {
		filtered := recs[:0]
		for _, rec := range recs {
			if rec.Category == category {
				filtered = append(filtered, rec)
			}
		}
		recs = filtered
	}

	span.SetAttributes(attribute.Int("record.count", len(recs)))
	return recs, mode, nil
}

// Categories returns the distinct categories across saved records, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, Mode, error) {
	recs, mode, err := s.List(ctx, BrowseLimit, "")
	if err != nil {
		return nil, mode, err
	}

	seen := make(map[string]struct{}, len(recs))
	var categories []string
	for _, rec := range recs {
		if _, ok := seen[rec.Category]; !ok {
			seen[rec.Category] = struct{}{}
			categories = append(categories, rec.Category)
		}
	}
	sort.Strings(categories)

	return categories, mode, nil
}

// Delete removes a record by id.
func (s *Service) Delete(ctx context.Context, recID id.ID) (Mode, error) {
	ctx, span := tracer.Start(ctx, "records.delete")
	defer span.End()

	return s.run(ctx, func(store Store) error {
		return store.Delete(ctx, recID)
	})
}

// run executes op against the primary store and fails over to the local
// fallback on infrastructure errors. Only a double failure surfaces as an
// error; a lost primary degrades the mode, it never loses the operation.
func (s *Service) run(ctx context.Context, op func(Store) error) (Mode, error) {
	if s.primary != nil {
		err := op(s.primary)
		if err == nil {
			return ModeRemote, nil
		}
		if apperror.IsAppError(err) {
			// Domain outcome from a reachable store. Not a failover case.
			return ModeRemote, err
		}
		logger.Warn(ctx, "primary record store failed, using local fallback",
			"store", s.primary.Name(),
			"error", err,
		)
	}

	if err := op(s.fallback); err != nil {
		if apperror.IsAppError(err) {
			return ModeLocal, err
		}
		return ModeLocal, apperror.NewStoreUnavailable(err)
	}
	return ModeLocal, nil
}
