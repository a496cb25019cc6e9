package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"nlpengine/internal/db"
	"nlpengine/internal/metrics"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	db     db.Service
	c      *cron.Cron
	logger *slog.Logger
	now    func() time.Time
}

func NewScheduler(db db.Service, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		c:      cron.New(),
		logger: logger.With("component", "scheduler"),
		now:    time.Now,
	}
}

// Start registers the expiry job on schedule (a cron spec such as "@daily")
// and starts the cron runner.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.c.AddFunc(schedule, s.expireKeys); err != nil {
		return fmt.Errorf("failed to schedule key expiry job %q: %w", schedule, err)
	}
	s.c.Start()
	s.logger.Info("Scheduler started", "expiry_schedule", schedule)
	return nil
}

// expireKeys marks keys past their expiry date as expired.
func (s *Scheduler) expireKeys() {
	s.logger.Info("Running job: expiring API keys past their expiry date.")
	n, err := s.db.ExpireAPIKeys(s.now())
	if err != nil {
		s.logger.Error("Error expiring API keys", "error", err)
		return
	}
	metrics.ExpiredKeys.Add(float64(n))
	if n > 0 {
		s.logger.Info("Expired API keys", "count", n)
	}
}

// Stop stops the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}
