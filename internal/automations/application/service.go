// Package application contains the automation rules application layer.
package application

import (
	"context"

	"github.com/postpulse/postpulse/internal/automations/application/commands"
	"github.com/postpulse/postpulse/internal/automations/application/queries"
	"github.com/postpulse/postpulse/internal/automations/domain"
	"github.com/postpulse/postpulse/internal/automations/stats"
)

// Service provides a facade for automation rule operations.
type Service struct {
	// Command handlers
	createRuleHandler *commands.CreateRuleHandler
	updateRuleHandler *commands.UpdateRuleHandler
	deleteRuleHandler *commands.DeleteRuleHandler
	toggleRuleHandler *commands.ToggleRuleHandler

	// Query handlers
	getRuleHandler        *queries.GetRuleHandler
	listRulesHandler      *queries.ListRulesHandler
	listExecutionsHandler *queries.ListExecutionsHandler
	getStatsHandler       *queries.GetStatsHandler
}

// NewService creates a new automation service.
func NewService(
	ruleRepo domain.RuleRepository,
	executionRepo domain.ExecutionRepository,
	aggregator *stats.Aggregator,
) *Service {
	return &Service{
		// Command handlers
		createRuleHandler: commands.NewCreateRuleHandler(ruleRepo),
		updateRuleHandler: commands.NewUpdateRuleHandler(ruleRepo),
		deleteRuleHandler: commands.NewDeleteRuleHandler(ruleRepo),
		toggleRuleHandler: commands.NewToggleRuleHandler(ruleRepo),

		// Query handlers
		getRuleHandler:        queries.NewGetRuleHandler(ruleRepo),
		listRulesHandler:      queries.NewListRulesHandler(ruleRepo),
		listExecutionsHandler: queries.NewListExecutionsHandler(executionRepo, ruleRepo),
		getStatsHandler:       queries.NewGetStatsHandler(aggregator),
	}
}

// CreateRule creates a new automation rule.
func (s *Service) CreateRule(ctx context.Context, cmd commands.CreateRuleCommand) (*domain.AutomationRule, error) {
	return s.createRuleHandler.Handle(ctx, cmd)
}

// UpdateRule updates an existing automation rule.
func (s *Service) UpdateRule(ctx context.Context, cmd commands.UpdateRuleCommand) (*domain.AutomationRule, error) {
	return s.updateRuleHandler.Handle(ctx, cmd)
}

// DeleteRule deletes an automation rule. Its execution history is retained.
func (s *Service) DeleteRule(ctx context.Context, cmd commands.DeleteRuleCommand) error {
	return s.deleteRuleHandler.Handle(ctx, cmd)
}

// EnableRule activates an automation rule.
func (s *Service) EnableRule(ctx context.Context, cmd commands.EnableRuleCommand) (*domain.AutomationRule, error) {
	return s.toggleRuleHandler.Enable(ctx, cmd)
}

// DisableRule deactivates an automation rule.
func (s *Service) DisableRule(ctx context.Context, cmd commands.DisableRuleCommand) (*domain.AutomationRule, error) {
	return s.toggleRuleHandler.Disable(ctx, cmd)
}

// GetRule retrieves a single automation rule.
func (s *Service) GetRule(ctx context.Context, q queries.GetRuleQuery) (*domain.AutomationRule, error) {
	return s.getRuleHandler.Handle(ctx, q)
}

// ListRules retrieves automation rules matching filter criteria.
func (s *Service) ListRules(ctx context.Context, q queries.ListRulesQuery) (*queries.ListRulesResult, error) {
	return s.listRulesHandler.Handle(ctx, q)
}

// ListExecutions retrieves execution history matching filter criteria.
func (s *Service) ListExecutions(ctx context.Context, q queries.ListExecutionsQuery) ([]*domain.AutomationExecution, error) {
	return s.listExecutionsHandler.Handle(ctx, q)
}

// GetStats retrieves aggregated automation statistics.
func (s *Service) GetStats(ctx context.Context, q queries.GetStatsQuery) (*queries.StatsResult, error) {
	return s.getStatsHandler.Handle(ctx, q)
}

// ListTemplates returns the built-in rule templates.
func (s *Service) ListTemplates() []queries.RuleTemplate {
	return queries.ListTemplates()
}
