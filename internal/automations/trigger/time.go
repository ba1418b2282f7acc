package trigger

import (
	"context"
	"time"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// Debounce windows: a daily rule must not fire twice within 23 hours, an
// hourly rule not within 55 minutes. The margins absorb polling jitter
// around a matching window.
const (
	dailyDebounce  = 23 * time.Hour
	hourlyDebounce = 55 * time.Minute

	// matchToleranceMinutes widens each scheduled time to a ±5 minute
	// window so the 60s poll cannot step over it.
	matchToleranceMinutes = 5
)

// TimeEvaluator fires time_based rules. Pure clock arithmetic, no I/O.
type TimeEvaluator struct{}

// NewTimeEvaluator creates a time-based trigger evaluator.
func NewTimeEvaluator() *TimeEvaluator {
	return &TimeEvaluator{}
}

// TriggerType returns the trigger type this evaluator handles.
func (e *TimeEvaluator) TriggerType() domain.TriggerType {
	return domain.TriggerTimeBased
}

// ShouldFire checks the debounce window and then matches the current
// wall-clock time against the scheduled times using minute-of-day
// arithmetic. Rules without scheduled times fire on every poll once the
// debounce window has passed.
func (e *TimeEvaluator) ShouldFire(_ context.Context, rule *domain.AutomationRule, now time.Time) (bool, error) {
	cond, err := domain.ParseTimeConditions(rule.TriggerConditions)
	if err != nil {
		return false, err
	}

	if rule.LastExecutedAt != nil {
		elapsed := now.Sub(*rule.LastExecutedAt)
		switch cond.Schedule {
		case domain.ScheduleDaily:
			if elapsed < dailyDebounce {
				return false, nil
			}
		case domain.ScheduleHourly:
			if elapsed < hourlyDebounce {
				return false, nil
			}
		}
	}

	if len(cond.Times) == 0 {
		return true, nil
	}

	local := now.In(cond.Location())
	currentMinutes := local.Hour()*60 + local.Minute()

	for _, entry := range cond.Times {
		scheduled, err := time.Parse("15:04", entry)
		if err != nil {
			return false, err
		}
		scheduledMinutes := scheduled.Hour()*60 + scheduled.Minute()
		diff := scheduledMinutes - currentMinutes
		if diff < 0 {
			diff = -diff
		}
		if diff <= matchToleranceMinutes {
			return true, nil
		}
	}
	return false, nil
}
