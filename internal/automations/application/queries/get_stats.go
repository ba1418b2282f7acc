package queries

import (
	"context"

	"github.com/postpulse/postpulse/internal/automations/stats"
)

// StatsResult bundles all automation statistics for the stats endpoint.
type StatsResult struct {
	Overview    *stats.Overview         `json:"overview"`
	Rules       []stats.RulePerformance `json:"rules"`
	DailyCounts []stats.DailyCount      `json:"daily_counts"`
}

// GetStatsQuery retrieves aggregated automation statistics.
type GetStatsQuery struct {
	// Days is the daily-count window. Zero means the default of 7.
	Days int
}

// GetStatsHandler handles the GetStatsQuery.
type GetStatsHandler struct {
	aggregator *stats.Aggregator
}

// NewGetStatsHandler creates a new GetStatsHandler.
func NewGetStatsHandler(aggregator *stats.Aggregator) *GetStatsHandler {
	return &GetStatsHandler{aggregator: aggregator}
}

// Handle executes the GetStatsQuery.
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*StatsResult, error) {
	overview, err := h.aggregator.Overview(ctx)
	if err != nil {
		return nil, err
	}

	rules, err := h.aggregator.RulePerformance(ctx)
	if err != nil {
		return nil, err
	}

	daily, err := h.aggregator.DailyCounts(ctx, q.Days)
	if err != nil {
		return nil, err
	}

	return &StatsResult{
		Overview:    overview,
		Rules:       rules,
		DailyCounts: daily,
	}, nil
}
