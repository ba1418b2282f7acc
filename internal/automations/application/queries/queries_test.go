package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

type mockRuleRepo struct {
	mock.Mock
}

func (m *mockRuleRepo) Create(ctx context.Context, rule *domain.AutomationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *mockRuleRepo) Update(ctx context.Context, rule *domain.AutomationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *mockRuleRepo) UpdateBookkeeping(ctx context.Context, id uuid.UUID, lastExecutedAt *time.Time, executionCount int, successRate float64) error {
	args := m.Called(ctx, id, lastExecutedAt, executionCount, successRate)
	return args.Error(0)
}

func (m *mockRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRuleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AutomationRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AutomationRule), args.Error(1)
}

func (m *mockRuleRepo) List(ctx context.Context, filter domain.RuleFilter) ([]*domain.AutomationRule, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.AutomationRule), args.Get(1).(int64), args.Error(2)
}

func (m *mockRuleRepo) ListActive(ctx context.Context) ([]*domain.AutomationRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AutomationRule), args.Error(1)
}

type mockExecutionRepo struct {
	mock.Mock
}

func (m *mockExecutionRepo) Append(ctx context.Context, execution *domain.AutomationExecution) error {
	args := m.Called(ctx, execution)
	return args.Error(0)
}

func (m *mockExecutionRepo) Query(ctx context.Context, filter domain.ExecutionFilter) ([]*domain.AutomationExecution, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AutomationExecution), args.Error(1)
}

func (m *mockExecutionRepo) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockExecutionRepo) CountByRule(ctx context.Context, ruleID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, ruleID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *mockExecutionRepo) CountSince(ctx context.Context, since time.Time) (int64, int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *mockExecutionRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func sampleRule(t *testing.T) *domain.AutomationRule {
	t.Helper()
	rule, err := domain.NewAutomationRule("sample", domain.TriggerTimeBased,
		map[string]any{"schedule": "daily"}, domain.ActionCreatePost, nil)
	require.NoError(t, err)
	return rule
}

func TestGetRuleHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the rule", func(t *testing.T) {
		rule := sampleRule(t)
		repo := new(mockRuleRepo)
		repo.On("GetByID", ctx, rule.ID).Return(rule, nil)
		handler := NewGetRuleHandler(repo)

		got, err := handler.Handle(ctx, GetRuleQuery{RuleID: rule.ID})
		require.NoError(t, err)
		assert.Equal(t, rule, got)
	})

	t.Run("nil rule id is rejected", func(t *testing.T) {
		handler := NewGetRuleHandler(new(mockRuleRepo))
		_, err := handler.Handle(ctx, GetRuleQuery{})
		assert.Error(t, err)
	})

	t.Run("not found propagates", func(t *testing.T) {
		repo := new(mockRuleRepo)
		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, domain.ErrRuleNotFound)
		handler := NewGetRuleHandler(repo)

		_, err := handler.Handle(ctx, GetRuleQuery{RuleID: id})
		assert.ErrorIs(t, err, domain.ErrRuleNotFound)
	})
}

func TestListRulesHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("passes filters through with a default limit", func(t *testing.T) {
		rule := sampleRule(t)
		isActive := true
		repo := new(mockRuleRepo)
		repo.On("List", ctx, domain.RuleFilter{IsActive: &isActive, Limit: 50}).
			Return([]*domain.AutomationRule{rule}, int64(1), nil)
		handler := NewListRulesHandler(repo)

		result, err := handler.Handle(ctx, ListRulesQuery{IsActive: &isActive})
		require.NoError(t, err)
		assert.Len(t, result.Rules, 1)
		assert.Equal(t, int64(1), result.Total)
		repo.AssertExpectations(t)
	})

	t.Run("explicit limit wins", func(t *testing.T) {
		repo := new(mockRuleRepo)
		repo.On("List", ctx, domain.RuleFilter{Limit: 5, Offset: 10}).
			Return([]*domain.AutomationRule{}, int64(20), nil)
		handler := NewListRulesHandler(repo)

		result, err := handler.Handle(ctx, ListRulesQuery{Limit: 5, Offset: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(20), result.Total)
		repo.AssertExpectations(t)
	})
}

func TestListExecutionsHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("lists history for an existing rule", func(t *testing.T) {
		rule := sampleRule(t)
		execution := domain.NewExecution(rule.ID, time.Now(), nil)

		ruleRepo := new(mockRuleRepo)
		ruleRepo.On("GetByID", ctx, rule.ID).Return(rule, nil)
		executionRepo := new(mockExecutionRepo)
		executionRepo.On("Query", ctx, domain.ExecutionFilter{RuleID: &rule.ID, Limit: 50}).
			Return([]*domain.AutomationExecution{execution}, nil)

		handler := NewListExecutionsHandler(executionRepo, ruleRepo)

		executions, err := handler.Handle(ctx, ListExecutionsQuery{RuleID: &rule.ID})
		require.NoError(t, err)
		assert.Len(t, executions, 1)
	})

	t.Run("unknown rule is an error, not an empty result", func(t *testing.T) {
		id := uuid.New()
		ruleRepo := new(mockRuleRepo)
		ruleRepo.On("GetByID", ctx, id).Return(nil, domain.ErrRuleNotFound)
		executionRepo := new(mockExecutionRepo)

		handler := NewListExecutionsHandler(executionRepo, ruleRepo)

		_, err := handler.Handle(ctx, ListExecutionsQuery{RuleID: &id})
		assert.ErrorIs(t, err, domain.ErrRuleNotFound)
		executionRepo.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
	})

	t.Run("no rule filter skips the existence check", func(t *testing.T) {
		ruleRepo := new(mockRuleRepo)
		executionRepo := new(mockExecutionRepo)
		executionRepo.On("Query", ctx, domain.ExecutionFilter{Limit: 20}).
			Return([]*domain.AutomationExecution{}, nil)

		handler := NewListExecutionsHandler(executionRepo, ruleRepo)

		_, err := handler.Handle(ctx, ListExecutionsQuery{Limit: 20})
		require.NoError(t, err)
		ruleRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestListTemplates(t *testing.T) {
	templates := ListTemplates()
	require.NotEmpty(t, templates)

	seen := make(map[string]bool)
	for _, template := range templates {
		assert.False(t, seen[template.ID], "duplicate template id %q", template.ID)
		seen[template.ID] = true

		assert.NotEmpty(t, template.Name)
		assert.NoError(t, domain.ValidateTriggerConditions(template.TriggerType, template.TriggerConditions),
			"template %q has invalid trigger conditions", template.ID)
		assert.NoError(t, domain.ValidateActionParameters(template.ActionType, template.ActionParameters),
			"template %q has invalid action parameters", template.ID)
	}

	// Every template must produce a creatable rule.
	for _, template := range templates {
		_, err := domain.NewAutomationRule(template.Name, template.TriggerType,
			template.TriggerConditions, template.ActionType, template.ActionParameters)
		assert.NoError(t, err, "template %q", template.ID)
	}
}
