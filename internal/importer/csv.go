package importer

import (
	"encoding/csv"
	"io"
	"strings"

	"checkin/internal/errs"
	"checkin/internal/participant"
)

// Column names expected in the import file's header row.
const (
	colTeamID         = "Team ID"
	colTeamName       = "Team Name"
	colCandidateRole  = "Candidate role"
	colCandidateName  = "Candidate's Name"
	colCandidateEmail = "Candidate's Email"
)

var requiredColumns = []string{colTeamID, colTeamName, colCandidateRole, colCandidateName, colCandidateEmail}

// ParseCSV reads an import file and returns its rows in file order. The
// header row must carry the exact expected column names; extra columns are
// ignored and blank lines skipped. Column order is not significant.
func ParseCSV(r io.Reader) ([]participant.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errs.Validation("empty file, expected a header row")
	}
	if err != nil {
		return nil, errs.Validation("unreadable header row: %v", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, errs.Validation("missing required column %q", col)
		}
	}

	var rows []participant.RawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Validation("malformed row %d: %v", len(rows)+2, err)
		}
		if blank(record) {
			continue
		}
		rows = append(rows, participant.RawRow{
			TeamID:         field(record, idx[colTeamID]),
			TeamName:       field(record, idx[colTeamName]),
			CandidateRole:  field(record, idx[colCandidateRole]),
			CandidateName:  field(record, idx[colCandidateName]),
			CandidateEmail: field(record, idx[colCandidateEmail]),
		})
	}
	return rows, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
