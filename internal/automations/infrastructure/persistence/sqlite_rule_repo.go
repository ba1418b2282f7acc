// Package persistence provides database implementations for automation repositories.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// Migrate creates the automation tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS automation_rules (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			trigger_type TEXT NOT NULL,
			trigger_conditions TEXT NOT NULL DEFAULT '{}',
			action_type TEXT NOT NULL,
			action_parameters TEXT NOT NULL DEFAULT '{}',
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			last_executed_at TEXT,
			execution_count INTEGER NOT NULL DEFAULT 0,
			success_rate REAL NOT NULL DEFAULT 100
		)`,
		`CREATE INDEX IF NOT EXISTS idx_automation_rules_active ON automation_rules(is_active)`,
		`CREATE TABLE IF NOT EXISTS automation_executions (
			id TEXT PRIMARY KEY,
			rule_id TEXT NOT NULL,
			executed_at TEXT NOT NULL,
			success INTEGER NOT NULL,
			result TEXT NOT NULL DEFAULT '{}',
			error_message TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_automation_executions_rule ON automation_executions(rule_id, executed_at)`,
		`CREATE INDEX IF NOT EXISTS idx_automation_executions_time ON automation_executions(executed_at)`,
	}
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// SQLiteRuleRepository implements domain.RuleRepository using SQLite.
type SQLiteRuleRepository struct {
	db *sql.DB
}

// NewSQLiteRuleRepository creates a new SQLite rule repository.
func NewSQLiteRuleRepository(db *sql.DB) *SQLiteRuleRepository {
	return &SQLiteRuleRepository{db: db}
}

// Create creates a new automation rule.
func (r *SQLiteRuleRepository) Create(ctx context.Context, rule *domain.AutomationRule) error {
	conditions, err := json.Marshal(rule.TriggerConditions)
	if err != nil {
		return err
	}
	parameters, err := json.Marshal(rule.ActionParameters)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO automation_rules (
			id, name, description, trigger_type, trigger_conditions,
			action_type, action_parameters, is_active,
			created_at, last_executed_at, execution_count, success_rate
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		rule.ID.String(),
		rule.Name,
		rule.Description,
		string(rule.TriggerType),
		string(conditions),
		string(rule.ActionType),
		string(parameters),
		boolToInt(rule.IsActive),
		rule.CreatedAt.UTC().Format(time.RFC3339),
		nullTime(rule.LastExecutedAt),
		rule.ExecutionCount,
		rule.SuccessRate,
	)
	return err
}

// Update updates the administrative fields of an existing rule. Bookkeeping
// columns are intentionally not touched here.
func (r *SQLiteRuleRepository) Update(ctx context.Context, rule *domain.AutomationRule) error {
	conditions, err := json.Marshal(rule.TriggerConditions)
	if err != nil {
		return err
	}
	parameters, err := json.Marshal(rule.ActionParameters)
	if err != nil {
		return err
	}

	query := `
		UPDATE automation_rules SET
			name = ?, description = ?, trigger_type = ?, trigger_conditions = ?,
			action_type = ?, action_parameters = ?, is_active = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		rule.Name,
		rule.Description,
		string(rule.TriggerType),
		string(conditions),
		string(rule.ActionType),
		string(parameters),
		boolToInt(rule.IsActive),
		rule.ID.String(),
	)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// UpdateBookkeeping persists the engine-owned fields of a rule.
func (r *SQLiteRuleRepository) UpdateBookkeeping(ctx context.Context, id uuid.UUID, lastExecutedAt *time.Time, executionCount int, successRate float64) error {
	query := `
		UPDATE automation_rules SET
			last_executed_at = ?, execution_count = ?, success_rate = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		nullTime(lastExecutedAt),
		executionCount,
		successRate,
		id.String(),
	)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// Delete deletes an automation rule by ID.
func (r *SQLiteRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM automation_rules WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// GetByID retrieves a rule by ID.
func (r *SQLiteRuleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AutomationRule, error) {
	query := ruleColumns + ` WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules, err := scanRules(rows)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, domain.ErrRuleNotFound
	}
	return rules[0], nil
}

// List retrieves rules matching the filter along with the unpaginated total.
func (r *SQLiteRuleRepository) List(ctx context.Context, filter domain.RuleFilter) ([]*domain.AutomationRule, int64, error) {
	query := ruleColumns + ` WHERE 1 = 1`
	countQuery := `SELECT COUNT(*) FROM automation_rules WHERE 1 = 1`
	var args, countArgs []any

	if filter.IsActive != nil {
		query += " AND is_active = ?"
		countQuery += " AND is_active = ?"
		args = append(args, boolToInt(*filter.IsActive))
		countArgs = append(countArgs, boolToInt(*filter.IsActive))
	}
	if filter.TriggerType != nil {
		query += " AND trigger_type = ?"
		countQuery += " AND trigger_type = ?"
		args = append(args, string(*filter.TriggerType))
		countArgs = append(countArgs, string(*filter.TriggerType))
	}

	query += " ORDER BY created_at DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rules, err := scanRules(rows)
	if err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

// ListActive retrieves all active rules.
func (r *SQLiteRuleRepository) ListActive(ctx context.Context) ([]*domain.AutomationRule, error) {
	query := ruleColumns + ` WHERE is_active = 1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRules(rows)
}

const ruleColumns = `
	SELECT id, name, description, trigger_type, trigger_conditions,
		action_type, action_parameters, is_active,
		created_at, last_executed_at, execution_count, success_rate
	FROM automation_rules`

func scanRules(rows *sql.Rows) ([]*domain.AutomationRule, error) {
	var rules []*domain.AutomationRule
	for rows.Next() {
		var rule domain.AutomationRule
		var idStr string
		var isActive int
		var conditionsStr, parametersStr string
		var createdAtStr string
		var lastExecutedAtStr sql.NullString

		err := rows.Scan(
			&idStr,
			&rule.Name,
			&rule.Description,
			&rule.TriggerType,
			&conditionsStr,
			&rule.ActionType,
			&parametersStr,
			&isActive,
			&createdAtStr,
			&lastExecutedAtStr,
			&rule.ExecutionCount,
			&rule.SuccessRate,
		)
		if err != nil {
			return nil, err
		}

		rule.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		rule.IsActive = isActive == 1

		if err := json.Unmarshal([]byte(conditionsStr), &rule.TriggerConditions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(parametersStr), &rule.ActionParameters); err != nil {
			return nil, err
		}

		rule.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, err
		}
		if lastExecutedAtStr.Valid {
			lastExecuted, err := time.Parse(time.RFC3339, lastExecutedAtStr.String)
			if err != nil {
				return nil, err
			}
			rule.LastExecutedAt = &lastExecuted
		}

		rules = append(rules, &rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
