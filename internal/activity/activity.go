package activity

import "time"

// Record is one non-presence event (a meal, a session) for a participant. At
// most one record exists per (participant, activity name) pair; duplicate
// submissions are rejected, never overwritten.
type Record struct {
	ID             string    `json:"id"`
	ParticipantID  string    `json:"participant_id"`
	ActivityName   string    `json:"activity_name"`
	Description    string    `json:"description"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary is the trimmed view of a record used in recent-activity listings.
type Summary struct {
	ActivityName string    `json:"activity_name"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}
