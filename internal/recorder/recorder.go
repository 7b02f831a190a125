package recorder

import (
	"time"

	"TrendScanner/internal/model"
)

// Run statuses.
const (
	StatusCompleted   = "COMPLETED"
	StatusInterrupted = "INTERRUPTED"
	StatusFailed      = "FAILED"
)

// Hit is one qualifying symbol in a run.
type Hit struct {
	Signal *model.TrendSignal
	IsNew  bool
}

// RunRecord holds the summary of one scan run.
type RunRecord struct {
	RunID        string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       string
	Universe     int
	Attempted    int
	Qualified    int
	New          int
	Insufficient int
	Failed       int
	Error        string
	Hits         []Hit
}

// Recorder persists scan history for later analysis. It is an audit trail only;
// snapshot reconciliation never reads from it.
type Recorder interface {
	RecordRun(run *RunRecord) error
	Close() error
}
