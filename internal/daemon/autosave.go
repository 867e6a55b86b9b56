package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/1broseidon/windowsnap/internal/layout"
)

// Saver snapshots the current windows under a profile name.
type Saver interface {
	Save(ctx context.Context, name string) (*layout.Layout, error)
}

// Autosaver periodically saves the current layout with gocron.
type Autosaver struct {
	scheduler gocron.Scheduler
	saver     Saver
	logger    *slog.Logger

	mu      sync.Mutex
	jobID   uuid.UUID
	hasJob  bool
	profile string
}

func NewAutosaver(saver Saver, logger *slog.Logger) (*Autosaver, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Autosaver{scheduler: s, saver: saver, logger: logger}, nil
}

func (a *Autosaver) Start() {
	a.scheduler.Start()
}

func (a *Autosaver) Stop() error {
	return a.scheduler.Shutdown()
}

// Schedule replaces any existing autosave job. A non-positive interval
// disables autosave.
func (a *Autosaver) Schedule(interval time.Duration, profile string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.hasJob {
		if err := a.scheduler.RemoveJob(a.jobID); err != nil {
			a.logger.Warn("failed to remove autosave job", "error", err)
		}
		a.hasJob = false
	}
	if interval <= 0 {
		return nil
	}

	job, err := a.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(a.run, profile),
		gocron.WithName("autosave-"+profile),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create autosave job: %w", err)
	}
	a.jobID = job.ID()
	a.hasJob = true
	a.profile = profile
	a.logger.Info("autosave scheduled", "profile", profile, "interval", interval)
	return nil
}

// RunNow triggers the scheduled autosave immediately.
func (a *Autosaver) RunNow() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.hasJob {
		return fmt.Errorf("autosave is not scheduled")
	}
	for _, j := range a.scheduler.Jobs() {
		if j.ID() == a.jobID {
			return j.RunNow()
		}
	}
	return fmt.Errorf("autosave job not found")
}

// NextRun reports when the autosave job fires next.
func (a *Autosaver) NextRun() (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.hasJob {
		return time.Time{}, false
	}
	for _, j := range a.scheduler.Jobs() {
		if j.ID() != a.jobID {
			continue
		}
		next, err := j.NextRun()
		if err != nil || next.IsZero() {
			return time.Time{}, false
		}
		return next, true
	}
	return time.Time{}, false
}

// Profile returns the autosave profile, or "" when autosave is off.
func (a *Autosaver) Profile() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.hasJob {
		return ""
	}
	return a.profile
}

func (a *Autosaver) run(profile string) {
	l, err := a.saver.Save(context.Background(), profile)
	if err != nil {
		a.logger.Error("autosave failed", "profile", profile, "error", err)
		return
	}
	a.logger.Info("autosaved layout", "profile", profile, "windows", l.WindowCount)
}
