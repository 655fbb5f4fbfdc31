package participant

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"checkin/internal/errs"
)

// Repository persists participants in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// BulkInsert writes a batch of participants in one transaction and returns
// their participant ids. Either every row lands or none do.
func (r *Repository) BulkInsert(ctx context.Context, ps []Participant) ([]string, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errs.Storage("begin participant insert", err)
	}
	defer tx.Rollback()

	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO participants (id, participant_id, team_id, team_name, candidate_name, candidate_email, candidate_role)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, id, p.ParticipantID, p.TeamID, p.TeamName, p.CandidateName, p.CandidateEmail, p.CandidateRole)
		if err != nil {
			return nil, errs.Storage("insert participant "+p.ParticipantID, err)
		}
		ids = append(ids, p.ParticipantID)
	}
	if err := tx.Commit(); err != nil {
		return nil, errs.Storage("commit participant insert", err)
	}
	return ids, nil
}

// Find returns the participant with the given participant id.
func (r *Repository) Find(ctx context.Context, participantID string) (Participant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, participant_id, team_id, team_name, candidate_name, candidate_email, candidate_role, created_at
		FROM participants WHERE participant_id = $1
	`, participantID)
	var p Participant
	err := row.Scan(&p.ID, &p.ParticipantID, &p.TeamID, &p.TeamName, &p.CandidateName, &p.CandidateEmail, &p.CandidateRole, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Participant{}, errs.NotFound("participant %s", participantID)
	}
	if err != nil {
		return Participant{}, errs.Storage("find participant", err)
	}
	return p, nil
}

// List returns all participants ordered by participant id.
func (r *Repository) List(ctx context.Context) ([]Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, participant_id, team_id, team_name, candidate_name, candidate_email, candidate_role, created_at
		FROM participants
		ORDER BY participant_id
	`)
	if err != nil {
		return nil, errs.Storage("list participants", err)
	}
	defer rows.Close()

	var out []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.ParticipantID, &p.TeamID, &p.TeamName, &p.CandidateName, &p.CandidateEmail, &p.CandidateRole, &p.CreatedAt); err != nil {
			return nil, errs.Storage("scan participant", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("list participants", err)
	}
	return out, nil
}
