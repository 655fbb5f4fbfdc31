package participant

import (
	"fmt"

	"checkin/internal/errs"
)

const (
	idPrefix   = "HC"
	maxTeams   = 999
	maxMembers = 99
)

// AssignIDs synthesizes participant ids for a batch of imported rows.
//
// Rows are grouped by their raw team id in first-seen order; each group gets a
// 1-based three-digit team ordinal and each member a 1-based two-digit ordinal
// in original row order, yielding ids like HC00101. The function is pure:
// the same input sequence always produces the same ids.
func AssignIDs(rows []RawRow) ([]Participant, error) {
	groups := make(map[string][]int, len(rows))
	order := make([]string, 0, len(rows))
	for i, row := range rows {
		if _, seen := groups[row.TeamID]; !seen {
			order = append(order, row.TeamID)
		}
		groups[row.TeamID] = append(groups[row.TeamID], i)
	}

	if len(order) > maxTeams {
		return nil, errs.Validation("%d teams exceeds the %d-team id space", len(order), maxTeams)
	}

	out := make([]Participant, len(rows))
	for teamIdx, teamID := range order {
		members := groups[teamID]
		if len(members) > maxMembers {
			return nil, errs.Validation("team %q has %d members, exceeds the %d-member id space", teamID, len(members), maxMembers)
		}
		for memberIdx, rowIdx := range members {
			row := rows[rowIdx]
			out[rowIdx] = Participant{
				ParticipantID:  fmt.Sprintf("%s%03d%02d", idPrefix, teamIdx+1, memberIdx+1),
				TeamID:         row.TeamID,
				TeamName:       row.TeamName,
				CandidateName:  row.CandidateName,
				CandidateEmail: row.CandidateEmail,
				CandidateRole:  row.CandidateRole,
			}
		}
	}
	return out, nil
}
