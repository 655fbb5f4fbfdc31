package importer

import (
	"context"
	"strings"
	"testing"

	"checkin/internal/errs"
	"checkin/internal/participant"
)

// fakeRegistry stores inserted participants keyed by participant id and
// serves them back the way the lookup boundary does.
type fakeRegistry struct {
	byID map[string]participant.Participant
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{byID: map[string]participant.Participant{}}
}

func (f *fakeRegistry) BulkInsert(_ context.Context, ps []participant.Participant) ([]string, error) {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		f.byID[p.ParticipantID] = p
		ids = append(ids, p.ParticipantID)
	}
	return ids, nil
}

func (f *fakeRegistry) Find(_ context.Context, id string) (participant.Participant, error) {
	p, ok := f.byID[id]
	if !ok {
		return participant.Participant{}, errs.NotFound("participant %s", id)
	}
	return p, nil
}

func TestImport_RoundTripPreservesDescriptiveFields(t *testing.T) {
	registry := newFakeRegistry()
	svc := NewService(registry)

	csv := `Team ID,Team Name,Candidate role,Candidate's Name,Candidate's Email
A,"Alpha, the first",Developer,Alice,alice@example.com
A,"Alpha, the first",Designer,Bob,bob@example.com
B,Beta,Developer,"O'Brien, Carol",carol@example.com
`
	res, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	want := map[string]participant.RawRow{
		"HC00101": {TeamID: "A", TeamName: "Alpha, the first", CandidateRole: "Developer", CandidateName: "Alice", CandidateEmail: "alice@example.com"},
		"HC00102": {TeamID: "A", TeamName: "Alpha, the first", CandidateRole: "Designer", CandidateName: "Bob", CandidateEmail: "bob@example.com"},
		"HC00201": {TeamID: "B", TeamName: "Beta", CandidateRole: "Developer", CandidateName: "O'Brien, Carol", CandidateEmail: "carol@example.com"},
	}

	if len(res.ParticipantIDs) != len(want) {
		t.Fatalf("expected %d participants, got %d", len(want), len(res.ParticipantIDs))
	}
	for _, id := range res.ParticipantIDs {
		row, ok := want[id]
		if !ok {
			t.Errorf("unexpected participant id %s", id)
			continue
		}
		got, err := registry.Find(context.Background(), id)
		if err != nil {
			t.Errorf("inserted participant %s not retrievable: %v", id, err)
			continue
		}
		if got.TeamID != row.TeamID || got.TeamName != row.TeamName ||
			got.CandidateRole != row.CandidateRole || got.CandidateName != row.CandidateName ||
			got.CandidateEmail != row.CandidateEmail {
			t.Errorf("participant %s fields altered in round trip: %+v", id, got)
		}
	}

	if _, err := registry.Find(context.Background(), "HC99999"); err == nil {
		t.Error("unknown id must not be retrievable")
	}
}
