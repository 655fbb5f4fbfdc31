package presence

import (
	"time"

	"checkin/internal/participant"
)

// OutsideEntry is one currently-outside participant in the roster view.
type OutsideEntry struct {
	ParticipantID  string    `json:"participant_id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	TeamName       string    `json:"team_name"`
	CandidateRole  string    `json:"candidate_role"`
	TeamID         string    `json:"team_id"`
	LastSeen       time.Time `json:"last_seen"`
	Status         string    `json:"status"`
}

// Roster is the outside-roster projection. Participants with no events are
// counted in NeverScanned but never listed: an empty history is "not yet
// arrived", which this projection keeps distinct from "scanned and outside".
type Roster struct {
	Outside        []OutsideEntry
	ScannedOutside int
	NeverScanned   int
}

// ProjectRoster computes the outside roster from the full participant set and
// toggle history. For each participant the latest event by (ToggledAt, ID)
// decides their state; the participant is listed iff that event has
// IsInside=false. Entries come out in participant-id order of the input set.
func ProjectRoster(participants []participant.Participant, events []Event) Roster {
	latest := make(map[string]Event, len(participants))
	for _, evt := range events {
		cur, seen := latest[evt.ParticipantID]
		if !seen || Later(evt, cur) {
			latest[evt.ParticipantID] = evt
		}
	}

	roster := Roster{}
	for _, p := range participants {
		evt, scanned := latest[p.ParticipantID]
		if !scanned {
			roster.NeverScanned++
			continue
		}
		if evt.IsInside {
			continue
		}
		roster.Outside = append(roster.Outside, OutsideEntry{
			ParticipantID:  p.ParticipantID,
			CandidateName:  p.CandidateName,
			CandidateEmail: p.CandidateEmail,
			TeamName:       p.TeamName,
			CandidateRole:  p.CandidateRole,
			TeamID:         p.TeamID,
			LastSeen:       evt.ToggledAt,
			Status:         StatusText(false),
		})
	}
	roster.ScannedOutside = len(roster.Outside)
	return roster
}
