package cache

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Cleaner is anything that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Janitor runs CleanExpired on a cron schedule.
type Janitor struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewJanitor runs cleaner on schedule, which accepts the standard five-field
// cron syntax as well as descriptors such as "@every 1m".
// The janitor does nothing until Start is called.
func NewJanitor(schedule string, cleaner Cleaner, logger *slog.Logger) (*Janitor, error) {
	if cleaner == nil {
		return nil, fmt.Errorf("cache janitor: cleaner cannot be nil")
	}

	j := &Janitor{
		cron:   cron.New(),
		logger: logger.With(slog.String("component", "cache_janitor")),
	}

	if _, err := j.cron.AddFunc(schedule, func() { j.run(cleaner) }); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}
	return j, nil
}

func (j *Janitor) run(cleaner Cleaner) {
	if removed := cleaner.CleanExpired(); removed > 0 {
		j.logger.Debug("purged expired cache entries", slog.Int("removed", removed))
	}
}

// Start begins running the schedule in its own goroutine.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}
