package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Task struct {
	Job  Job
	Spec string
}

// Registrar runs background tasks on cron schedules. Registering a task
// under a name that is already scheduled is a no-op, so Register can be
// called repeatedly with the same set of tasks.
type Registrar struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	started bool
	ctx     context.Context
}

func NewRegistrar() *Registrar {
	return &Registrar{
		cron:    newCron(),
		entries: make(map[string]cron.EntryID),
	}
}

func newCron() *cron.Cron {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return cron.New(cron.WithParser(parser))
}

// Register schedules the given tasks and starts the underlying cron if it
// is not running yet. A task that fails to schedule is logged and skipped;
// the remaining tasks are still registered.
func (r *Registrar) Register(ctx context.Context, tasks ...Task) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx = ctx
	for _, task := range tasks {
		name := task.Job.Name()
		logger := logutil.GetLogger(ctx).With(zap.String("job", name), zap.String("spec", task.Spec))
		if _, ok := r.entries[name]; ok {
			logger.Debug("job already registered, skip")
			continue
		}
		entryID, err := r.cron.AddFunc(task.Spec, r.wrap(task.Job, task.Spec))
		if err != nil {
			logger.Error("schedule job failed", zap.Error(err))
			continue
		}
		r.entries[name] = entryID
		logger.Info("job scheduled")
	}
	if !r.started {
		r.cron.Start()
		r.started = true
	}
}

// Stop halts the cron, waits for running jobs to finish and clears all
// registered entries. The registrar can be reused after Stop.
func (r *Registrar) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return
	}
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.cron = newCron()
	r.entries = make(map[string]cron.EntryID)
	r.started = false
}

// StopOne removes a single task by name. Unknown names are logged and ignored.
func (r *Registrar) StopOne(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entryID, ok := r.entries[name]
	if !ok {
		logutil.GetLogger(context.Background()).With(zap.String("job", name)).Warn("stop unknown job")
		return
	}
	r.cron.Remove(entryID)
	delete(r.entries, name)
}

// Names returns the names of the currently registered tasks.
func (r *Registrar) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

func (r *Registrar) wrap(job Job, spec string) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			logutil.GetLogger(context.Background()).With(
				zap.String("job", job.Name()),
				zap.String("spec", spec),
			).Info("job skipped: still running")
			return
		}
		defer running.Store(false)

		r.mu.Lock()
		ctx := r.ctx
		r.mu.Unlock()
		if ctx == nil {
			ctx = context.Background()
		}
		logger := logutil.GetLogger(ctx).With(
			zap.String("job", job.Name()),
			zap.String("spec", spec),
		)
		start := time.Now()
		logger.Info("job started")
		err := job.Run(ctx)
		elapsed := time.Since(start)
		if err != nil {
			logger.Error("job finished", zap.Error(err), zap.Duration("duration", elapsed))
			return
		}
		logger.Info("job finished", zap.Duration("duration", elapsed))
	}
}
