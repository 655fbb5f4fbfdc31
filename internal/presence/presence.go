package presence

import "time"

// Event is one inside/outside transition for a participant. Events are
// append-only; a participant's current state is always derived from the event
// with the greatest (ToggledAt, ID), never stored separately.
type Event struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	IsInside      bool      `json:"is_inside"`
	ToggledAt     time.Time `json:"toggled_at"`
}

// LogEntry is an event joined with the participant's descriptive fields, as
// served to the dashboard's log view.
type LogEntry struct {
	Event
	CandidateName  string `json:"candidate_name"`
	CandidateEmail string `json:"candidate_email"`
	TeamName       string `json:"team_name"`
	CandidateRole  string `json:"candidate_role"`
}

// NextState computes the state recorded by a scan given the participant's
// latest event, or nil when they have never scanned. The first scan marks the
// participant outside: an empty history means they have not been marked
// present yet, and the first scan is registration at the boundary, not entry.
func NextState(latest *Event) bool {
	if latest == nil {
		return false
	}
	return !latest.IsInside
}

// Later reports whether event a sorts after event b, ordering by ToggledAt
// with ID as the deterministic tie-break.
func Later(a, b Event) bool {
	if !a.ToggledAt.Equal(b.ToggledAt) {
		return a.ToggledAt.After(b.ToggledAt)
	}
	return a.ID > b.ID
}
