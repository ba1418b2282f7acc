package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// MigratePostgres creates the automation tables if they do not exist.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS automation_rules (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			trigger_type TEXT NOT NULL,
			trigger_conditions JSONB NOT NULL DEFAULT '{}',
			action_type TEXT NOT NULL,
			action_parameters JSONB NOT NULL DEFAULT '{}',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			last_executed_at TIMESTAMPTZ,
			execution_count INTEGER NOT NULL DEFAULT 0,
			success_rate DOUBLE PRECISION NOT NULL DEFAULT 100
		)`,
		`CREATE INDEX IF NOT EXISTS idx_automation_rules_active ON automation_rules(is_active)`,
		`CREATE TABLE IF NOT EXISTS automation_executions (
			id UUID PRIMARY KEY,
			rule_id UUID NOT NULL,
			executed_at TIMESTAMPTZ NOT NULL,
			success BOOLEAN NOT NULL,
			result JSONB NOT NULL DEFAULT '{}',
			error_message TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_automation_executions_rule ON automation_executions(rule_id, executed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_automation_executions_time ON automation_executions(executed_at)`,
	}
	for _, stmt := range ddl {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// PostgresRuleRepository implements domain.RuleRepository using PostgreSQL.
type PostgresRuleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRuleRepository creates a new PostgreSQL rule repository.
func NewPostgresRuleRepository(pool *pgxpool.Pool) *PostgresRuleRepository {
	return &PostgresRuleRepository{pool: pool}
}

// Create creates a new automation rule.
func (r *PostgresRuleRepository) Create(ctx context.Context, rule *domain.AutomationRule) error {
	query := `
		INSERT INTO automation_rules (
			id, name, description, trigger_type, trigger_conditions,
			action_type, action_parameters, is_active,
			created_at, last_executed_at, execution_count, success_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		rule.ID,
		rule.Name,
		rule.Description,
		string(rule.TriggerType),
		rule.TriggerConditions,
		string(rule.ActionType),
		rule.ActionParameters,
		rule.IsActive,
		rule.CreatedAt,
		rule.LastExecutedAt,
		rule.ExecutionCount,
		rule.SuccessRate,
	)
	return err
}

// Update updates the administrative fields of an existing rule.
func (r *PostgresRuleRepository) Update(ctx context.Context, rule *domain.AutomationRule) error {
	query := `
		UPDATE automation_rules SET
			name = $1, description = $2, trigger_type = $3, trigger_conditions = $4,
			action_type = $5, action_parameters = $6, is_active = $7
		WHERE id = $8
	`
	tag, err := r.pool.Exec(ctx, query,
		rule.Name,
		rule.Description,
		string(rule.TriggerType),
		rule.TriggerConditions,
		string(rule.ActionType),
		rule.ActionParameters,
		rule.IsActive,
		rule.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// UpdateBookkeeping persists the engine-owned fields of a rule.
func (r *PostgresRuleRepository) UpdateBookkeeping(ctx context.Context, id uuid.UUID, lastExecutedAt *time.Time, executionCount int, successRate float64) error {
	query := `
		UPDATE automation_rules SET
			last_executed_at = $1, execution_count = $2, success_rate = $3
		WHERE id = $4
	`
	tag, err := r.pool.Exec(ctx, query, lastExecutedAt, executionCount, successRate, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// Delete deletes an automation rule by ID.
func (r *PostgresRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM automation_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

const pgRuleColumns = `
	SELECT id, name, description, trigger_type, trigger_conditions,
		action_type, action_parameters, is_active,
		created_at, last_executed_at, execution_count, success_rate
	FROM automation_rules`

// GetByID retrieves a rule by ID.
func (r *PostgresRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AutomationRule, error) {
	row := r.pool.QueryRow(ctx, pgRuleColumns+` WHERE id = $1`, id)
	rule, err := scanPostgresRule(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRuleNotFound
	}
	return rule, err
}

// List retrieves rules matching the filter along with the unpaginated total.
func (r *PostgresRuleRepository) List(ctx context.Context, filter domain.RuleFilter) ([]*domain.AutomationRule, int64, error) {
	query := pgRuleColumns + ` WHERE TRUE`
	countQuery := `SELECT COUNT(*) FROM automation_rules WHERE TRUE`
	var args, countArgs []any

	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		countArgs = append(countArgs, *filter.IsActive)
		query += placeholder(" AND is_active = $%d", len(args))
		countQuery += placeholder(" AND is_active = $%d", len(countArgs))
	}
	if filter.TriggerType != nil {
		args = append(args, string(*filter.TriggerType))
		countArgs = append(countArgs, string(*filter.TriggerType))
		query += placeholder(" AND trigger_type = $%d", len(args))
		countQuery += placeholder(" AND trigger_type = $%d", len(countArgs))
	}

	query += " ORDER BY created_at DESC, id"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += placeholder(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += placeholder(" OFFSET $%d", len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rules, err := scanPostgresRules(rows)
	if err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

// ListActive retrieves all active rules.
func (r *PostgresRuleRepository) ListActive(ctx context.Context) ([]*domain.AutomationRule, error) {
	rows, err := r.pool.Query(ctx, pgRuleColumns+` WHERE is_active ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPostgresRules(rows)
}

func scanPostgresRule(row pgx.Row) (*domain.AutomationRule, error) {
	var rule domain.AutomationRule
	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&rule.Description,
		&rule.TriggerType,
		&rule.TriggerConditions,
		&rule.ActionType,
		&rule.ActionParameters,
		&rule.IsActive,
		&rule.CreatedAt,
		&rule.LastExecutedAt,
		&rule.ExecutionCount,
		&rule.SuccessRate,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func scanPostgresRules(rows pgx.Rows) ([]*domain.AutomationRule, error) {
	var rules []*domain.AutomationRule
	for rows.Next() {
		rule, err := scanPostgresRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

func placeholder(format string, n int) string {
	return fmt.Sprintf(format, n)
}
