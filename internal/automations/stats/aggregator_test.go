package stats

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/postpulse/postpulse/internal/automations/domain"
	"github.com/postpulse/postpulse/internal/automations/infrastructure/persistence"
)

func setupRepos(t *testing.T) (*persistence.SQLiteRuleRepository, *persistence.SQLiteExecutionRepository) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, persistence.Migrate(context.Background(), db))
	return persistence.NewSQLiteRuleRepository(db), persistence.NewSQLiteExecutionRepository(db)
}

func storedRule(t *testing.T, rules domain.RuleRepository, name string, active bool) *domain.AutomationRule {
	t.Helper()
	rule, err := domain.NewAutomationRule(name, domain.TriggerTimeBased,
		map[string]any{"schedule": "daily"}, domain.ActionSendNotification, nil)
	require.NoError(t, err)
	if !active {
		rule.Deactivate()
	}
	require.NoError(t, rules.Create(context.Background(), rule))
	return rule
}

func TestAggregator_Overview(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	rules, history := setupRepos(t)

	active := storedRule(t, rules, "active", true)
	storedRule(t, rules, "paused", false)

	// Three executions: two recent (one failed), one old.
	require.NoError(t, history.Append(ctx, domain.NewExecution(active.ID, now.Add(-time.Hour), nil)))
	require.NoError(t, history.Append(ctx, domain.NewFailedExecution(active.ID, now.Add(-2*time.Hour), "boom")))
	require.NoError(t, history.Append(ctx, domain.NewExecution(active.ID, now.Add(-72*time.Hour), nil)))

	aggregator := NewAggregator(rules, history, func() time.Time { return now })

	overview, err := aggregator.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, overview.TotalRules)
	assert.Equal(t, 1, overview.ActiveRules)
	assert.Equal(t, int64(3), overview.TotalExecutions)
	assert.Equal(t, int64(2), overview.ExecutionsLast24h)
	assert.InDelta(t, 66.67, overview.OverallSuccessRate, 0.01)
}

func TestAggregator_Overview_EmptyHistory(t *testing.T) {
	rules, history := setupRepos(t)
	aggregator := NewAggregator(rules, history, nil)

	overview, err := aggregator.Overview(context.Background())
	require.NoError(t, err)

	assert.Zero(t, overview.TotalExecutions)
	assert.Equal(t, float64(100), overview.OverallSuccessRate)
}

func TestAggregator_RulePerformance(t *testing.T) {
	ctx := context.Background()
	rules, history := setupRepos(t)

	quiet := storedRule(t, rules, "quiet", true)
	busy := storedRule(t, rules, "busy", true)
	require.NoError(t, rules.UpdateBookkeeping(ctx, busy.ID, nil, 12, 75))
	require.NoError(t, rules.UpdateBookkeeping(ctx, quiet.ID, nil, 2, 100))

	aggregator := NewAggregator(rules, history, nil)

	performance, err := aggregator.RulePerformance(ctx)
	require.NoError(t, err)
	require.Len(t, performance, 2)

	assert.Equal(t, "busy", performance[0].Name)
	assert.Equal(t, 12, performance[0].ExecutionCount)
	assert.Equal(t, float64(75), performance[0].SuccessRate)
	assert.Equal(t, "quiet", performance[1].Name)
}

func TestAggregator_DailyCounts(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	rules, history := setupRepos(t)

	rule := storedRule(t, rules, "daily", true)
	require.NoError(t, history.Append(ctx, domain.NewExecution(rule.ID, now.Add(-time.Hour), nil)))
	require.NoError(t, history.Append(ctx, domain.NewFailedExecution(rule.ID, now.Add(-time.Hour), "boom")))
	require.NoError(t, history.Append(ctx, domain.NewExecution(rule.ID, now.AddDate(0, 0, -2), nil)))
	// Outside the window.
	require.NoError(t, history.Append(ctx, domain.NewExecution(rule.ID, now.AddDate(0, 0, -10), nil)))

	aggregator := NewAggregator(rules, history, func() time.Time { return now })

	counts, err := aggregator.DailyCounts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, counts, 3)

	assert.Equal(t, "2025-06-08", counts[0].Day)
	assert.Equal(t, 1, counts[0].Count)
	assert.Equal(t, "2025-06-09", counts[1].Day)
	assert.Zero(t, counts[1].Count, "empty days are zero-filled")
	assert.Equal(t, "2025-06-10", counts[2].Day)
	assert.Equal(t, 2, counts[2].Count)
	assert.Equal(t, 1, counts[2].Succeeded)
}

func TestAggregator_DailyCountsDefaultWindow(t *testing.T) {
	rules, history := setupRepos(t)
	aggregator := NewAggregator(rules, history, nil)

	counts, err := aggregator.DailyCounts(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, counts, 7)
}
