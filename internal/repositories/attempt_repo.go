package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sentra-ids/sentra/internal/database"
	"github.com/sentra-ids/sentra/internal/models"
)

// AttemptRepository handles database operations for login attempts.
// The table is an append-only audit trail: rows are inserted once and never
// updated; deletion happens only through retention sweeps and the debug wipe.
type AttemptRepository struct {
	db *database.DB
}

func NewAttemptRepository(db *database.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// RecordAttempt appends a login attempt. The attempt's ID is assigned here
// if the caller left it empty.
func (r *AttemptRepository) RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}

	query := `
		INSERT INTO login_attempts (id, address, attempt_time, username, credential_length, recent_attempt_count, verdict, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		attempt.ID,
		attempt.Address,
		attempt.AttemptTime,
		attempt.Username,
		attempt.CredentialLength,
		attempt.RecentAttemptCount,
		attempt.Verdict,
		attempt.Outcome,
	)

	return database.MapPostgresError(err)
}

// CountByAddress returns the number of attempts from an address since the
// given time.
func (r *AttemptRepository) CountByAddress(ctx context.Context, address string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM login_attempts
		WHERE address = $1 AND attempt_time >= $2
	`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, address, since).Scan(&count)
	return count, database.MapPostgresError(err)
}

// ListByAddress returns attempts from an address since the given time,
// newest first.
func (r *AttemptRepository) ListByAddress(ctx context.Context, address string, since time.Time) ([]models.LoginAttempt, error) {
	query := `
		SELECT id, address, attempt_time, username, credential_length, recent_attempt_count, verdict, outcome
		FROM login_attempts
		WHERE address = $1 AND attempt_time >= $2
		ORDER BY attempt_time DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, address, since)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	defer rows.Close()

	var attempts []models.LoginAttempt
	for rows.Next() {
		var a models.LoginAttempt
		if err := rows.Scan(&a.ID, &a.Address, &a.AttemptTime, &a.Username, &a.CredentialLength, &a.RecentAttemptCount, &a.Verdict, &a.Outcome); err != nil {
			return nil, database.MapPostgresError(err)
		}
		attempts = append(attempts, a)
	}

	return attempts, database.MapPostgresError(rows.Err())
}

// DeleteOlderThan removes attempts with an attempt time before the cutoff.
// Used by the retention sweep.
func (r *AttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM login_attempts WHERE attempt_time < $1`

	tag, err := r.db.Pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return tag.RowsAffected(), nil
}

// DeleteAll wipes every attempt record. Debug-tooling only.
func (r *AttemptRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM login_attempts`)
	return database.MapPostgresError(err)
}
