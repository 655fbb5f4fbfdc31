package activity

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"checkin/internal/errs"
)

// Repository persists activity records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new activity record. The unique constraint on
// (participant_id, activity_name) is the dedupe guard: a duplicate pair
// inserts nothing and returns a conflict error, leaving existing data
// untouched.
func (r *Repository) Insert(ctx context.Context, rec Record) error {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO participant_activity (id, participant_id, activity_name, description, candidate_name, candidate_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (participant_id, activity_name) DO NOTHING
	`, id, rec.ParticipantID, rec.ActivityName, rec.Description, rec.CandidateName, rec.CandidateEmail)
	if err != nil {
		return errs.Storage("insert activity", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Storage("insert activity", err)
	}
	if n == 0 {
		return errs.Conflict("%s already recorded for participant %s", rec.ActivityName, rec.ParticipantID)
	}
	return nil
}

// Exists reports whether the participant already has a record for the named
// activity.
func (r *Repository) Exists(ctx context.Context, participantID, activityName string) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM participant_activity
			WHERE participant_id = $1 AND activity_name = $2
		)
	`, participantID, activityName).Scan(&found)
	if err != nil {
		return false, errs.Storage("check activity", err)
	}
	return found, nil
}

// Recent returns the participant's newest records, most recent first.
func (r *Repository) Recent(ctx context.Context, participantID string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT activity_name, description, created_at
		FROM participant_activity
		WHERE participant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, participantID, limit)
	if err != nil {
		return nil, errs.Storage("recent activities", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ActivityName, &s.Description, &s.CreatedAt); err != nil {
			return nil, errs.Storage("scan activity", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("recent activities", err)
	}
	return out, nil
}

// List returns all activity records, newest first.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, participant_id, activity_name, description, candidate_name, candidate_email, created_at
		FROM participant_activity
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, errs.Storage("list activities", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.ParticipantID, &rec.ActivityName, &rec.Description,
			&rec.CandidateName, &rec.CandidateEmail, &rec.CreatedAt); err != nil {
			return nil, errs.Storage("scan activity", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("list activities", err)
	}
	return out, nil
}
