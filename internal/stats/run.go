package stats

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Run carries the logger and timing of one statistics run.
// The caller decides when the run starts and finishes.
type Run struct {
	name    string
	logger  *zap.Logger
	now     func() time.Time
	started time.Time
}

// NewRun creates a run context. A nil logger discards all messages.
func NewRun(name string, logger *zap.Logger) *Run {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Run{
		name:   name,
		logger: logger,
		now:    time.Now,
	}
}

// Logger returns the run's logger.
func (r *Run) Logger() *zap.Logger {
	if r == nil {
		return zap.NewNop()
	}
	return r.logger
}

// Start logs the start marker and starts the clock.
func (r *Run) Start() {
	r.logger.Info("----- Start")
	r.logger.Info(fmt.Sprintf("# %s #", r.name))
	r.started = r.now()
}

// Finish logs the finish marker with the elapsed time since Start.
func (r *Run) Finish() time.Duration {
	elapsed := r.now().Sub(r.started)
	r.logger.Info("----- Finish")
	r.logger.Info(fmt.Sprintf("Elapsed time: %v", elapsed.Seconds()),
		zap.Duration("elapsed", elapsed))
	return elapsed
}
