package services

import (
	"context"

	cron "github.com/robfig/cron/v3"

	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// SchedulerService runs the escalation sweep on a cron schedule.
// Overlapping runs are skipped rather than queued; a sweep that
// overruns its interval should not pile up behind itself.
type SchedulerService struct {
	escalation *EscalationService
	schedule   string
	cron       *cron.Cron
}

func NewSchedulerService(escalation *EscalationService, schedule string) *SchedulerService {
	return &SchedulerService{
		escalation: escalation,
		schedule:   schedule,
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

func (s *SchedulerService) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, e := s.escalation.Sweep(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled escalation sweep failed")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	utils.Logger.WithField("schedule", s.schedule).Info("Escalation scheduler started")
	return nil
}

// Stop halts scheduling and waits for an in-flight sweep to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
