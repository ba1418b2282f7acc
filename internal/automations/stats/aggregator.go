// Package stats derives read-only automation statistics from the rule set
// and the execution history.
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// Overview summarizes the entire automation subsystem.
type Overview struct {
	TotalRules         int     `json:"total_rules"`
	ActiveRules        int     `json:"active_rules"`
	TotalExecutions    int64   `json:"total_executions"`
	ExecutionsLast24h  int64   `json:"executions_last_24h"`
	OverallSuccessRate float64 `json:"overall_success_rate"`
}

// RulePerformance summarizes a single rule.
type RulePerformance struct {
	RuleID         uuid.UUID          `json:"rule_id"`
	Name           string             `json:"name"`
	TriggerType    domain.TriggerType `json:"trigger_type"`
	ActionType     domain.ActionType  `json:"action_type"`
	IsActive       bool               `json:"is_active"`
	ExecutionCount int                `json:"execution_count"`
	SuccessRate    float64            `json:"success_rate"`
	LastExecutedAt *time.Time         `json:"last_executed_at,omitempty"`
}

// DailyCount is the number of executions on a single calendar day.
type DailyCount struct {
	Day       string `json:"day"`
	Count     int    `json:"count"`
	Succeeded int    `json:"succeeded"`
}

// Aggregator computes statistics on demand. It holds no state of its own;
// every call reads the repositories, so results are idempotent for an
// unchanged history.
type Aggregator struct {
	rules   domain.RuleRepository
	history domain.ExecutionRepository
	now     func() time.Time
}

// NewAggregator creates a stats aggregator. now may be nil, in which case
// time.Now is used.
func NewAggregator(rules domain.RuleRepository, history domain.ExecutionRepository, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{rules: rules, history: history, now: now}
}

// Overview returns the subsystem-wide summary.
func (a *Aggregator) Overview(ctx context.Context) (*Overview, error) {
	rules, _, err := a.rules.List(ctx, domain.RuleFilter{})
	if err != nil {
		return nil, err
	}

	// Zero time counts the full history.
	total, successes, err := a.history.CountSince(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	last24h, _, err := a.history.CountSince(ctx, a.now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		TotalRules:         len(rules),
		TotalExecutions:    total,
		ExecutionsLast24h:  last24h,
		OverallSuccessRate: domain.SuccessRate(total, successes),
	}
	for _, rule := range rules {
		if rule.IsActive {
			overview.ActiveRules++
		}
	}
	return overview, nil
}

// RulePerformance returns per-rule summaries ordered by execution count,
// busiest first.
func (a *Aggregator) RulePerformance(ctx context.Context) ([]RulePerformance, error) {
	rules, _, err := a.rules.List(ctx, domain.RuleFilter{})
	if err != nil {
		return nil, err
	}

	performance := make([]RulePerformance, 0, len(rules))
	for _, rule := range rules {
		performance = append(performance, RulePerformance{
			RuleID:         rule.ID,
			Name:           rule.Name,
			TriggerType:    rule.TriggerType,
			ActionType:     rule.ActionType,
			IsActive:       rule.IsActive,
			ExecutionCount: rule.ExecutionCount,
			SuccessRate:    rule.SuccessRate,
			LastExecutedAt: rule.LastExecutedAt,
		})
	}

	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].ExecutionCount > performance[j].ExecutionCount
	})
	return performance, nil
}

// DailyCounts buckets executions from the last days calendar days (UTC) into
// per-day totals, oldest day first. Days with no executions are included
// with a zero count.
func (a *Aggregator) DailyCounts(ctx context.Context, days int) ([]DailyCount, error) {
	if days <= 0 {
		days = 7
	}

	now := a.now().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	executions, err := a.history.Query(ctx, domain.ExecutionFilter{Since: &since})
	if err != nil {
		return nil, err
	}

	type bucket struct {
		count     int
		succeeded int
	}
	buckets := make(map[string]*bucket, days)
	for _, execution := range executions {
		day := execution.ExecutedAt.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.count++
		if execution.Success {
			b.succeeded++
		}
	}

	counts := make([]DailyCount, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		count := DailyCount{Day: day}
		if b, ok := buckets[day]; ok {
			count.Count = b.count
			count.Succeeded = b.succeeded
		}
		counts = append(counts, count)
	}
	return counts, nil
}
