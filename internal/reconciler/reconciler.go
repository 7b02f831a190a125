package reconciler

import (
	"fmt"

	"go.uber.org/zap"

	"TrendScanner/internal/model"
)

// Reconciler owns the full and delta result snapshots and is their only writer.
type Reconciler struct {
	Full   SnapshotStore
	Delta  SnapshotStore
	logger *zap.Logger
}

func New(full, delta SnapshotStore, logger *zap.Logger) *Reconciler {
	return &Reconciler{Full: full, Delta: delta, logger: logger}
}

// NewFileReconciler stores both snapshots as JSON files at the given paths.
func NewFileReconciler(fullPath, deltaPath string, logger *zap.Logger) *Reconciler {
	return New(NewFileStore(fullPath), NewFileStore(deltaPath), logger)
}

// Persist replaces the full snapshot with current and stores current minus the previous
// snapshot as the delta. With no previous snapshot the delta is all of current.
func (r *Reconciler) Persist(current model.SymbolSet) (model.SymbolSet, error) {
	old, found, err := r.Full.Load()
	if err != nil {
		return nil, fmt.Errorf("load previous snapshot: %w", err)
	}
	if !found {
		r.logger.Info("no previous snapshot, every result is new")
	}

	if err := r.Full.Save(current); err != nil {
		return nil, fmt.Errorf("save full snapshot: %w", err)
	}
	r.logger.Info("full results saved", zap.Int("symbols", current.Len()))

	delta := current.Difference(old)
	if err := r.Delta.Save(delta); err != nil {
		return nil, fmt.Errorf("save delta snapshot: %w", err)
	}
	r.logger.Info("delta results saved", zap.Int("symbols", delta.Len()), zap.Int("previous", old.Len()))
	return delta, nil
}
