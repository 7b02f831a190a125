package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TrendScanner/internal/model"
	"TrendScanner/internal/notifier"
	"TrendScanner/internal/reconciler"
	"TrendScanner/internal/recorder"
	"TrendScanner/internal/scanner"
	"TrendScanner/internal/universe"
)

// Notifier delivers one text message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Runner executes one full scan: load universe, scan, reconcile, record, notify.
type Runner struct {
	UniversePath string
	Scanner      *scanner.Scanner
	Reconciler   *reconciler.Reconciler
	Recorder     recorder.Recorder
	Notifier     Notifier

	logger *zap.Logger
	now    func() time.Time
}

func NewRunner(universePath string, sc *scanner.Scanner, rc *reconciler.Reconciler, rec recorder.Recorder, n Notifier, logger *zap.Logger) *Runner {
	return &Runner{
		UniversePath: universePath,
		Scanner:      sc,
		Reconciler:   rc,
		Recorder:     rec,
		Notifier:     n,
		logger:       logger,
		now:          time.Now,
	}
}

// RunOnce performs one scan run. Reading the universe, persisting results and sending the
// notification are run-fatal and returned as errors. When ctx is cancelled during the scan
// nothing is persisted and ctx.Err() is returned.
func (r *Runner) RunOnce(ctx context.Context) error {
	run := &recorder.RunRecord{
		RunID:     uuid.NewString(),
		StartedAt: r.now(),
	}
	log := r.logger.With(zap.String("run_id", run.RunID))
	log.Info("scan run started", zap.String("universe", r.UniversePath))

	symbols, err := universe.LoadTickers(r.UniversePath)
	if err != nil {
		return r.fail(log, run, fmt.Errorf("load universe: %w", err))
	}
	run.Universe = len(symbols)

	report, err := r.Scanner.Scan(ctx, symbols)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn("scan run interrupted, results discarded")
			run.Status = recorder.StatusInterrupted
			run.FinishedAt = r.now()
			r.record(log, run)
			return err
		}
		return r.fail(log, run, fmt.Errorf("scan: %w", err))
	}
	run.Attempted = report.Attempted
	run.Insufficient = len(report.Insufficient)
	run.Failed = len(report.Failures)
	run.Qualified = report.Results.Len()

	delta, err := r.Reconciler.Persist(report.Results)
	if err != nil {
		return r.fail(log, run, fmt.Errorf("persist results: %w", err))
	}
	run.New = delta.Len()
	run.Status = recorder.StatusCompleted
	run.FinishedAt = r.now()
	run.Hits = hits(report.Signals, delta)
	r.record(log, run)

	msg := notifier.FormatDeltaReport(delta, report.Results, run.FinishedAt)
	if err := r.Notifier.Send(ctx, msg); err != nil {
		log.Error("send notification failed", zap.Error(err))
		return fmt.Errorf("notify: %w", err)
	}

	log.Info("scan run finished",
		zap.Int("qualified", run.Qualified),
		zap.Int("new", run.New),
		zap.Duration("elapsed", run.FinishedAt.Sub(run.StartedAt)),
	)
	return nil
}

func (r *Runner) fail(log *zap.Logger, run *recorder.RunRecord, err error) error {
	log.Error("scan run failed", zap.Error(err))
	run.Status = recorder.StatusFailed
	run.Error = err.Error()
	run.FinishedAt = r.now()
	r.record(log, run)
	return err
}

// record never fails the run; the journal is best effort.
func (r *Runner) record(log *zap.Logger, run *recorder.RunRecord) {
	if err := r.Recorder.RecordRun(run); err != nil {
		log.Error("record run failed", zap.Error(err))
	}
}

func hits(signals []*model.TrendSignal, delta model.SymbolSet) []recorder.Hit {
	out := make([]recorder.Hit, 0, len(signals))
	seen := make(map[string]bool, len(signals))
	for _, sig := range signals {
		if seen[sig.Symbol] {
			continue
		}
		seen[sig.Symbol] = true
		out = append(out, recorder.Hit{Signal: sig, IsNew: delta.Has(sig.Symbol)})
	}
	return out
}
