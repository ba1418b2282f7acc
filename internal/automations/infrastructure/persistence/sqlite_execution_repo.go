package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// SQLiteExecutionRepository implements domain.ExecutionRepository using SQLite.
type SQLiteExecutionRepository struct {
	db *sql.DB
}

// NewSQLiteExecutionRepository creates a new SQLite execution repository.
func NewSQLiteExecutionRepository(db *sql.DB) *SQLiteExecutionRepository {
	return &SQLiteExecutionRepository{db: db}
}

// Append records one firing attempt.
func (r *SQLiteExecutionRepository) Append(ctx context.Context, execution *domain.AutomationExecution) error {
	result, err := json.Marshal(execution.Result)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO automation_executions (
			id, rule_id, executed_at, success, result, error_message
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		execution.ID.String(),
		execution.RuleID.String(),
		execution.ExecutedAt.UTC().Format(time.RFC3339),
		boolToInt(execution.Success),
		string(result),
		execution.ErrorMessage,
	)
	return err
}

// Query retrieves executions matching the filter, most recent first.
func (r *SQLiteExecutionRepository) Query(ctx context.Context, filter domain.ExecutionFilter) ([]*domain.AutomationExecution, error) {
	query := `
		SELECT id, rule_id, executed_at, success, result, error_message
		FROM automation_executions
		WHERE 1 = 1
	`
	var args []any

	if filter.RuleID != nil {
		query += " AND rule_id = ?"
		args = append(args, filter.RuleID.String())
	}
	if filter.Since != nil {
		query += " AND executed_at >= ?"
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
	}

	query += " ORDER BY executed_at DESC, id"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var executions []*domain.AutomationExecution
	for rows.Next() {
		var execution domain.AutomationExecution
		var idStr, ruleIDStr, executedAtStr, resultStr string
		var success int

		err := rows.Scan(
			&idStr,
			&ruleIDStr,
			&executedAtStr,
			&success,
			&resultStr,
			&execution.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		execution.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		execution.RuleID, err = uuid.Parse(ruleIDStr)
		if err != nil {
			return nil, err
		}
		execution.ExecutedAt, err = time.Parse(time.RFC3339, executedAtStr)
		if err != nil {
			return nil, err
		}
		execution.Success = success == 1

		if err := json.Unmarshal([]byte(resultStr), &execution.Result); err != nil {
			return nil, err
		}

		executions = append(executions, &execution)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return executions, nil
}

// CountAll returns the total number of recorded executions.
func (r *SQLiteExecutionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM automation_executions`).Scan(&count)
	return count, err
}

// CountByRule returns the total and successful execution counts for a rule.
func (r *SQLiteExecutionRepository) CountByRule(ctx context.Context, ruleID uuid.UUID) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(success), 0)
		FROM automation_executions
		WHERE rule_id = ?
	`
	var total, successes int64
	err := r.db.QueryRowContext(ctx, query, ruleID.String()).Scan(&total, &successes)
	return total, successes, err
}

// CountSince returns the total and successful execution counts since a point
// in time. A zero time counts the full history.
func (r *SQLiteExecutionRepository) CountSince(ctx context.Context, since time.Time) (int64, int64, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(success), 0) FROM automation_executions`
	var args []any
	if !since.IsZero() {
		query += ` WHERE executed_at >= ?`
		args = append(args, since.UTC().Format(time.RFC3339))
	}

	var total, successes int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &successes)
	return total, successes, err
}

// DeleteOlderThan prunes executions older than the given time.
func (r *SQLiteExecutionRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM automation_executions WHERE executed_at < ?`,
		before.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
