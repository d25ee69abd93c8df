package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	logging "ohlc-logchart/internal/infra/log"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler runs named jobs on cron specs with a seconds field. A job that is
// still running when its next tick fires is skipped.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

func New(ctx context.Context) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx:  ctx,
		jobs: make(map[string]cron.EntryID),
	}
}

// Register adds job under name. Names must be unique.
func (s *Scheduler) Register(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %q already registered", name)
	}
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return fmt.Errorf("register %s task: %w", name, err)
	}
	s.jobs[name] = id
	logging.LogInfo("Job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Next reports when name fires next. ok is false for unknown jobs or before
// Start.
func (s *Scheduler) Next(name string) (next time.Time, ok bool) {
	s.mu.Lock()
	id, found := s.jobs[name]
	s.mu.Unlock()
	if !found {
		return time.Time{}, false
	}
	entry := s.cron.Entry(id)
	return entry.Next, !entry.Next.IsZero()
}

// RunNow executes name synchronously, outside the cron schedule.
func (s *Scheduler) RunNow(name string, job Job) {
	s.run(name, job)
}

func (s *Scheduler) run(name string, job Job) {
	if s.ctx.Err() != nil {
		return
	}
	start := time.Now()
	logging.LogInfo("Running scheduled job", zap.String("job", name))
	if err := job(s.ctx); err != nil {
		logging.LogError("Scheduled job failed",
			zap.String("job", name),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Error(err))
		return
	}
	logging.LogSuccess("Scheduled job finished",
		zap.String("job", name),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()))
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logging.LogInfo("Scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop stops scheduling and waits up to timeout for running jobs.
func (s *Scheduler) Stop(timeout time.Duration) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logging.LogInfo("Scheduler stopped")
	case <-time.After(timeout):
		logging.LogWarn("Scheduler stop timed out, jobs still running", zap.Duration("timeout", timeout))
	}
}

// cronLogger forwards cron's internal logging to the zap wrapper.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.LogDebug("cron: "+msg, zap.Any("details", keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.LogError("cron: "+msg, zap.Error(err), zap.Any("details", keysAndValues))
}
