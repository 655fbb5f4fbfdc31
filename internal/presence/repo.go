package presence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"checkin/internal/errs"
)

// Repository persists presence events in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// AppendNext records the participant's next toggle in a single transaction.
// The participant row is locked first, so concurrent scans for the same
// participant serialize and strict alternation holds. The timestamp is
// assigned by the database at insert time.
func (r *Repository) AppendNext(ctx context.Context, participantID string) (Event, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Event{}, errs.Storage("begin toggle", err)
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, `
		SELECT participant_id FROM participants WHERE participant_id = $1 FOR UPDATE
	`, participantID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, errs.NotFound("participant %s", participantID)
	}
	if err != nil {
		return Event{}, errs.Storage("lock participant", err)
	}

	var latest Event
	havePrior := true
	err = tx.QueryRowContext(ctx, `
		SELECT id, participant_id, is_inside, toggled_at
		FROM presence_log
		WHERE participant_id = $1
		ORDER BY toggled_at DESC, id DESC
		LIMIT 1
	`, participantID).Scan(&latest.ID, &latest.ParticipantID, &latest.IsInside, &latest.ToggledAt)
	if errors.Is(err, sql.ErrNoRows) {
		havePrior = false
	} else if err != nil {
		return Event{}, errs.Storage("read latest toggle", err)
	}

	evt := Event{
		ID:            uuid.NewString(),
		ParticipantID: participantID,
	}
	if havePrior {
		evt.IsInside = NextState(&latest)
	} else {
		evt.IsInside = NextState(nil)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO presence_log (id, participant_id, is_inside)
		VALUES ($1, $2, $3)
		RETURNING toggled_at
	`, evt.ID, evt.ParticipantID, evt.IsInside).Scan(&evt.ToggledAt)
	if err != nil {
		return Event{}, errs.Storage("append toggle", err)
	}
	if err := tx.Commit(); err != nil {
		return Event{}, errs.Storage("commit toggle", err)
	}
	return evt, nil
}

// Latest returns the participant's most recent event, or nil when they have
// never scanned.
func (r *Repository) Latest(ctx context.Context, participantID string) (*Event, error) {
	var evt Event
	err := r.db.QueryRowContext(ctx, `
		SELECT id, participant_id, is_inside, toggled_at
		FROM presence_log
		WHERE participant_id = $1
		ORDER BY toggled_at DESC, id DESC
		LIMIT 1
	`, participantID).Scan(&evt.ID, &evt.ParticipantID, &evt.IsInside, &evt.ToggledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("latest toggle", err)
	}
	return &evt, nil
}

// AllEvents returns the full toggle history, oldest first.
func (r *Repository) AllEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, participant_id, is_inside, toggled_at
		FROM presence_log
		ORDER BY toggled_at, id
	`)
	if err != nil {
		return nil, errs.Storage("list toggles", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.ParticipantID, &evt.IsInside, &evt.ToggledAt); err != nil {
			return nil, errs.Storage("scan toggle", err)
		}
		out = append(out, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("list toggles", err)
	}
	return out, nil
}

// AllLogs returns the toggle history joined with participant fields, newest
// first, for the dashboard's log view.
func (r *Repository) AllLogs(ctx context.Context) ([]LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.participant_id, l.is_inside, l.toggled_at,
		       p.candidate_name, p.candidate_email, p.team_name, p.candidate_role
		FROM presence_log l
		JOIN participants p ON p.participant_id = l.participant_id
		ORDER BY l.toggled_at DESC, l.id DESC
	`)
	if err != nil {
		return nil, errs.Storage("list logs", err)
	}
	defer rows.Close()

	var out []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := rows.Scan(&e.ID, &e.ParticipantID, &e.IsInside, &e.ToggledAt,
			&e.CandidateName, &e.CandidateEmail, &e.TeamName, &e.CandidateRole); err != nil {
			return nil, errs.Storage("scan log", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Storage("list logs", err)
	}
	return out, nil
}
