package services

import (
	"context"
	"time"

	"github.com/iAmmar7/api-audit-rail/internal/constants"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// EscalationService flags unresolved issues that have aged past the
// business-day threshold. The clock is injectable so sweeps can be
// tested against fixed dates.
type EscalationService struct {
	issueRepo repositories.IssueRepository

	clock        func() time.Time
	businessDays int
}

func NewEscalationService(issueRepo repositories.IssueRepository) *EscalationService {
	return &EscalationService{
		issueRepo:    issueRepo,
		clock:        time.Now,
		businessDays: constants.EscalationBusinessDays,
	}
}

// WithClock overrides the time source. Returns the service for
// constructor chaining.
func (s *EscalationService) WithClock(clock func() time.Time) *EscalationService {
	s.clock = clock
	return s
}

// Sweep prioritizes every unresolved issue created before the cutoff.
// Running it twice is harmless; already-flagged issues are skipped, so
// the returned count is only the newly escalated rows.
func (s *EscalationService) Sweep(ctx context.Context) (int64, error) {
	now := s.clock()
	cutoff := utils.BusinessDaysAgo(now, s.businessDays)

	n, err := s.issueRepo.EscalateAged(ctx, cutoff)
	if err != nil {
		utils.Logger.WithError(err).Error("Escalation sweep failed")
		return 0, err
	}
	if n > 0 {
		utils.Logger.WithField("escalated", n).Info("Escalation sweep prioritized aged issues")
	} else {
		utils.Logger.Debug("Escalation sweep found nothing to prioritize")
	}
	return n, nil
}
