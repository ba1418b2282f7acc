package commands

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

func TestCreateRuleCommand_Validate(t *testing.T) {
	t.Run("valid command", func(t *testing.T) {
		cmd := CreateRuleCommand{
			Name:        "Morning post",
			TriggerType: domain.TriggerTimeBased,
			ActionType:  domain.ActionCreatePost,
		}
		assert.NoError(t, cmd.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		cmd := CreateRuleCommand{
			TriggerType: domain.TriggerTimeBased,
			ActionType:  domain.ActionCreatePost,
		}
		assert.Error(t, cmd.Validate())
	})

	t.Run("missing trigger type", func(t *testing.T) {
		cmd := CreateRuleCommand{Name: "r", ActionType: domain.ActionCreatePost}
		assert.Error(t, cmd.Validate())
	})

	t.Run("missing action type", func(t *testing.T) {
		cmd := CreateRuleCommand{Name: "r", TriggerType: domain.TriggerTimeBased}
		assert.Error(t, cmd.Validate())
	})
}

func TestCreateRuleHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active rule", func(t *testing.T) {
		repo := new(mockRuleRepo)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.AutomationRule")).Return(nil)
		handler := NewCreateRuleHandler(repo)

		rule, err := handler.Handle(ctx, CreateRuleCommand{
			Name:              "Morning post",
			Description:       "posts every morning",
			TriggerType:       domain.TriggerTimeBased,
			TriggerConditions: map[string]any{"schedule": "daily", "times": []any{"09:00"}},
			ActionType:        domain.ActionCreatePost,
		})

		require.NoError(t, err)
		assert.Equal(t, "Morning post", rule.Name)
		assert.Equal(t, "posts every morning", rule.Description)
		assert.True(t, rule.IsActive)
		repo.AssertExpectations(t)
	})

	t.Run("explicit inactive flag", func(t *testing.T) {
		repo := new(mockRuleRepo)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.AutomationRule")).Return(nil)
		handler := NewCreateRuleHandler(repo)

		inactive := false
		rule, err := handler.Handle(ctx, CreateRuleCommand{
			Name:        "draft rule",
			TriggerType: domain.TriggerTimeBased,
			ActionType:  domain.ActionSendNotification,
			IsActive:    &inactive,
		})

		require.NoError(t, err)
		assert.False(t, rule.IsActive)
	})

	t.Run("invalid conditions never reach the repository", func(t *testing.T) {
		repo := new(mockRuleRepo)
		handler := NewCreateRuleHandler(repo)

		_, err := handler.Handle(ctx, CreateRuleCommand{
			Name:              "bad rule",
			TriggerType:       domain.TriggerTrendingTopic,
			TriggerConditions: map[string]any{},
			ActionType:        domain.ActionCreatePost,
		})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("repository error propagates", func(t *testing.T) {
		repo := new(mockRuleRepo)
		repo.On("Create", ctx, mock.Anything).Return(assert.AnError)
		handler := NewCreateRuleHandler(repo)

		_, err := handler.Handle(ctx, CreateRuleCommand{
			Name:        "r",
			TriggerType: domain.TriggerTimeBased,
			ActionType:  domain.ActionCreatePost,
		})

		assert.ErrorIs(t, err, assert.AnError)
	})
}
