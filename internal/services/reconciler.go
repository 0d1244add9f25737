package services

import (
	"context"

	"github.com/sirupsen/logrus"
)

// StoredRoute is a persisted record as the store reports it back:
// the store's primary key plus the canonical field values.
type StoredRoute struct {
	ID     uint
	Record NormalizedRoute
}

// RouteStore is the persistence collaborator the reconciler runs
// against. Inside RunTransaction the callback receives a store bound
// to that transaction; the store's isolation must guarantee the
// find-then-create/update pair in one transaction does not race a
// concurrent writer of the same key.
type RouteStore interface {
	// FindMatching returns the record with the given composite key, or
	// nil when none exists.
	FindMatching(ctx context.Context, key RouteKey) (*StoredRoute, error)
	Create(ctx context.Context, rec *NormalizedRoute) (*StoredRoute, error)
	Update(ctx context.Context, id uint, rec *NormalizedRoute) (*StoredRoute, error)
	// DeleteMatching removes every record matching any of the keys and
	// returns how many were removed.
	DeleteMatching(ctx context.Context, keys []RouteKey) (int64, error)
	RunTransaction(ctx context.Context, fn func(tx RouteStore) error) error
	// RunNested executes fn inside a savepoint on the current
	// transaction. When fn fails, only fn's own statements roll back;
	// the enclosing transaction stays usable. Postgres aborts a whole
	// transaction on any statement error, so every record's statements
	// must run under their own savepoint for sibling records to
	// survive one record's fault.
	RunNested(ctx context.Context, fn func(tx RouteStore) error) error
}

// Reconciler is the bulk route reconciliation engine: it normalizes a
// raw submission, partitions it into fixed-size chunks, and commits
// each chunk in its own store transaction with per-record fault
// isolation. One invocation is processed sequentially end to end so
// later records can rely on earlier ones having been committed.
type Reconciler struct {
	store     RouteStore
	chunkSize int
}

// ReconcilerOption tunes a Reconciler at construction.
type ReconcilerOption func(*Reconciler)

// WithChunkSize overrides how many records share one transaction.
func WithChunkSize(n int) ReconcilerOption {
	return func(r *Reconciler) {
		if n > 0 {
			r.chunkSize = n
		}
	}
}

// NewReconciler builds a Reconciler bound to the given store.
func NewReconciler(store RouteStore, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{store: store, chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type pendingRoute struct {
	index int
	rec   *NormalizedRoute
}

// ReconcileRoutes runs one bulk reconciliation. The outcome is
// returned even alongside an intake-rejection error so callers can
// surface the per-record rejection reasons. Any other fault kind is
// folded into the outcome, never returned.
func (r *Reconciler) ReconcileRoutes(ctx context.Context, variant Variant, strategy Strategy, rawRecords []map[string]any) (*BatchOutcome, error) {
	outcome := &BatchOutcome{TotalProcessed: len(rawRecords)}

	if rawRecords == nil {
		return outcome, intakeRejected("expected an array of route records")
	}

	pending := make([]pendingRoute, 0, len(rawRecords))
	for i, raw := range rawRecords {
		rec, defaulted, err := Normalize(raw, variant)
		if err != nil {
			outcome.addRejected(refOf(raw, i), err.Error())
			continue
		}
		if len(defaulted) > 0 {
			logrus.WithFields(logrus.Fields{
				"variant":   variant,
				"index":     i,
				"defaulted": defaulted,
			}).Debug("route record fields defaulted during normalization")
		}
		pending = append(pending, pendingRoute{index: i, rec: rec})
	}

	if len(pending) == 0 {
		return outcome, intakeRejected("no valid route records in submission")
	}

	switch strategy {
	case StrategyReplace:
		r.replaceAll(ctx, pending, outcome)
	default:
		r.upsertAll(ctx, pending, outcome)
	}

	return outcome, nil
}

// upsertAll is the update-wins path: per chunk, per record, find by
// composite key and overwrite in place or create. Record faults stay
// inside their record; transaction faults fail only their chunk.
func (r *Reconciler) upsertAll(ctx context.Context, pending []pendingRoute, outcome *BatchOutcome) {
	for _, chunk := range chunkRoutes(pending, r.chunkSize) {
		staged := &BatchOutcome{}

		err := r.store.RunTransaction(ctx, func(tx RouteStore) error {
			for _, item := range chunk {
				// One savepoint per record: a constraint violation
				// rolls back this record alone, not the chunk.
				var updated bool
				err := tx.RunNested(ctx, func(rtx RouteStore) error {
					existing, err := rtx.FindMatching(ctx, DeriveKey(item.rec))
					if err != nil {
						return err
					}
					if existing != nil {
						_, err := rtx.Update(ctx, existing.ID, item.rec)
						if err == nil {
							updated = true
						}
						return err
					}
					_, err = rtx.Create(ctx, item.rec)
					return err
				})
				if err != nil {
					staged.addError(refOfNormalized(item.rec, item.index), KindRecordPersistence, err.Error())
					continue
				}
				if updated {
					staged.UpdatedCount++
				} else {
					staged.CreatedCount++
				}
			}
			return nil
		})

		if err != nil {
			// The whole chunk rolled back: its staged counts are void
			// and every record in it failed with the transaction error.
			logrus.WithError(err).Warn("route chunk transaction failed")
			for _, item := range chunk {
				outcome.addError(refOfNormalized(item.rec, item.index), KindChunkTransaction, err.Error())
			}
			continue
		}

		outcome.CreatedCount += staged.CreatedCount
		outcome.UpdatedCount += staged.UpdatedCount
		outcome.Errors = append(outcome.Errors, staged.Errors...)
	}
}

// replaceAll is the replace-wins path: delete every stored record
// matching any key in the validated batch, then insert the batch
// fresh in chunked transactions. Not safe to run concurrently with
// writers touching overlapping keys; callers serialize per subject.
func (r *Reconciler) replaceAll(ctx context.Context, pending []pendingRoute, outcome *BatchOutcome) {
	keys := make([]RouteKey, len(pending))
	for i, item := range pending {
		keys[i] = DeriveKey(item.rec)
	}

	err := r.store.RunTransaction(ctx, func(tx RouteStore) error {
		deleted, err := tx.DeleteMatching(ctx, keys)
		if err != nil {
			return err
		}
		logrus.WithField("deleted", deleted).Debug("replace strategy cleared existing routes")
		return nil
	})
	if err != nil {
		logrus.WithError(err).Warn("replace strategy delete transaction failed")
		for _, item := range pending {
			outcome.addError(refOfNormalized(item.rec, item.index), KindChunkTransaction, err.Error())
		}
		return
	}

	for _, chunk := range chunkRoutes(pending, r.chunkSize) {
		staged := &BatchOutcome{}

		err := r.store.RunTransaction(ctx, func(tx RouteStore) error {
			for _, item := range chunk {
				err := tx.RunNested(ctx, func(rtx RouteStore) error {
					_, err := rtx.Create(ctx, item.rec)
					return err
				})
				if err != nil {
					staged.addError(refOfNormalized(item.rec, item.index), KindRecordPersistence, err.Error())
					continue
				}
				staged.CreatedCount++
			}
			return nil
		})

		if err != nil {
			logrus.WithError(err).Warn("route chunk transaction failed")
			for _, item := range chunk {
				outcome.addError(refOfNormalized(item.rec, item.index), KindChunkTransaction, err.Error())
			}
			continue
		}

		outcome.CreatedCount += staged.CreatedCount
		outcome.Errors = append(outcome.Errors, staged.Errors...)
	}
}

// chunkRoutes partitions pending records into submission-order chunks
// of at most size records.
func chunkRoutes(pending []pendingRoute, size int) [][]pendingRoute {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var chunks [][]pendingRoute
	for start := 0; start < len(pending); start += size {
		end := start + size
		if end > len(pending) {
			end = len(pending)
		}
		chunks = append(chunks, pending[start:end])
	}
	return chunks
}
