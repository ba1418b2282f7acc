package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/postpulse/postpulse/internal/automations/domain"
)

// PostgresExecutionRepository implements domain.ExecutionRepository using PostgreSQL.
type PostgresExecutionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresExecutionRepository creates a new PostgreSQL execution repository.
func NewPostgresExecutionRepository(pool *pgxpool.Pool) *PostgresExecutionRepository {
	return &PostgresExecutionRepository{pool: pool}
}

// Append records one firing attempt.
func (r *PostgresExecutionRepository) Append(ctx context.Context, execution *domain.AutomationExecution) error {
	query := `
		INSERT INTO automation_executions (
			id, rule_id, executed_at, success, result, error_message
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		execution.ID,
		execution.RuleID,
		execution.ExecutedAt,
		execution.Success,
		execution.Result,
		execution.ErrorMessage,
	)
	return err
}

// Query retrieves executions matching the filter, most recent first.
func (r *PostgresExecutionRepository) Query(ctx context.Context, filter domain.ExecutionFilter) ([]*domain.AutomationExecution, error) {
	query := `
		SELECT id, rule_id, executed_at, success, result, error_message
		FROM automation_executions
		WHERE TRUE
	`
	var args []any

	if filter.RuleID != nil {
		args = append(args, *filter.RuleID)
		query += placeholder(" AND rule_id = $%d", len(args))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		query += placeholder(" AND executed_at >= $%d", len(args))
	}

	query += " ORDER BY executed_at DESC, id"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += placeholder(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var executions []*domain.AutomationExecution
	for rows.Next() {
		var execution domain.AutomationExecution
		err := rows.Scan(
			&execution.ID,
			&execution.RuleID,
			&execution.ExecutedAt,
			&execution.Success,
			&execution.Result,
			&execution.ErrorMessage,
		)
		if err != nil {
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
func (r *PostgresExecutionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM automation_executions`).Scan(&count)
	return count, err
}

// CountByRule returns the total and successful execution counts for a rule.
func (r *PostgresExecutionRepository) CountByRule(ctx context.Context, ruleID uuid.UUID) (int64, int64, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE success)
		FROM automation_executions
		WHERE rule_id = $1
	`
	var total, successes int64
	err := r.pool.QueryRow(ctx, query, ruleID).Scan(&total, &successes)
	return total, successes, err
}

// CountSince returns the total and successful execution counts since a point
// in time. A zero time counts the full history.
func (r *PostgresExecutionRepository) CountSince(ctx context.Context, since time.Time) (int64, int64, error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE success) FROM automation_executions`
	var args []any
	if !since.IsZero() {
		query += ` WHERE executed_at >= $1`
		args = append(args, since)
	}

	var total, successes int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&total, &successes)
	return total, successes, err
}

// DeleteOlderThan prunes executions older than the given time.
func (r *PostgresExecutionRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM automation_executions WHERE executed_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
