package participant

import "time"

// Participant is one registered event attendee. Descriptive fields come from
// the import source unchanged; ParticipantID is synthesized at import time and
// stable for the event's duration.
type Participant struct {
	ID             string    `json:"id"`
	ParticipantID  string    `json:"participant_id"`
	TeamID         string    `json:"team_id"`
	TeamName       string    `json:"team_name"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	CandidateRole  string    `json:"candidate_role"`
	CreatedAt      time.Time `json:"created_at"`
}

// RawRow is one participant row as parsed from the import file, before an id
// has been assigned.
type RawRow struct {
	TeamID         string
	TeamName       string
	CandidateRole  string
	CandidateName  string
	CandidateEmail string
}
