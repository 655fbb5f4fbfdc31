package importer

import (
	"errors"
	"strings"
	"testing"

	"checkin/internal/errs"
)

const sampleCSV = `Team ID,Team Name,Candidate role,Candidate's Name,Candidate's Email
A,Alpha,Developer,Alice,alice@example.com
A,Alpha,Designer,Bob,bob@example.com
B,Beta,Developer,Carol,carol@example.com
`

func TestParseCSV_ReadsRowsInFileOrder(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].CandidateName != "Alice" || rows[1].CandidateName != "Bob" || rows[2].CandidateName != "Carol" {
		t.Errorf("rows out of order: %+v", rows)
	}
	if rows[0].TeamID != "A" || rows[0].TeamName != "Alpha" || rows[0].CandidateRole != "Developer" || rows[0].CandidateEmail != "alice@example.com" {
		t.Errorf("fields not mapped: %+v", rows[0])
	}
}

func TestParseCSV_ColumnOrderIrrelevant(t *testing.T) {
	shuffled := `Candidate's Email,Team Name,Candidate's Name,Candidate role,Team ID
alice@example.com,Alpha,Alice,Developer,A
`
	rows, err := ParseCSV(strings.NewReader(shuffled))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rows[0].TeamID != "A" || rows[0].CandidateName != "Alice" {
		t.Errorf("columns not resolved by header name: %+v", rows[0])
	}
}

func TestParseCSV_ExtraColumnsIgnored(t *testing.T) {
	extra := `Team ID,Team Name,Candidate role,Candidate's Name,Candidate's Email,Shirt Size
A,Alpha,Developer,Alice,alice@example.com,M
`
	rows, err := ParseCSV(strings.NewReader(extra))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
}

func TestParseCSV_MissingColumn(t *testing.T) {
	missing := `Team ID,Team Name,Candidate's Name,Candidate's Email
A,Alpha,Alice,alice@example.com
`
	_, err := ParseCSV(strings.NewReader(missing))
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing column, got %v", err)
	}
	if !strings.Contains(err.Error(), "Candidate role") {
		t.Errorf("error should name the missing column, got %q", err.Error())
	}
}

func TestParseCSV_EmptyFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty file, got %v", err)
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("Team ID,Team Name,Candidate role,Candidate's Name,Candidate's Email\n"))
	if err != nil {
		t.Fatalf("header-only file must parse: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

func TestParseCSV_BlankLinesSkipped(t *testing.T) {
	withBlank := `Team ID,Team Name,Candidate role,Candidate's Name,Candidate's Email
A,Alpha,Developer,Alice,alice@example.com
,,,,
B,Beta,Developer,Carol,carol@example.com
`
	rows, err := ParseCSV(strings.NewReader(withBlank))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank line skipped, got %d rows", len(rows))
	}
}

func TestParseCSV_QuotedFields(t *testing.T) {
	quoted := `Team ID,Team Name,Candidate role,Candidate's Name,Candidate's Email
A,"Alpha, the first",Developer,"O'Brien, Alice",alice@example.com
`
	rows, err := ParseCSV(strings.NewReader(quoted))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rows[0].TeamName != "Alpha, the first" {
		t.Errorf("quoted team name mangled: %q", rows[0].TeamName)
	}
	if rows[0].CandidateName != "O'Brien, Alice" {
		t.Errorf("quoted candidate name mangled: %q", rows[0].CandidateName)
	}
}
