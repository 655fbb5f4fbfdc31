package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"checkin/internal/errs"
	"checkin/internal/participant"
)

type fakeInserter struct {
	batches [][]participant.Participant
	err     error
}

func (f *fakeInserter) BulkInsert(_ context.Context, ps []participant.Participant) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, ps)
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ParticipantID
	}
	return ids, nil
}

func TestImport_AssignsIDsAndInserts(t *testing.T) {
	inserter := &fakeInserter{}
	svc := NewService(inserter)

	csv := `Team ID,Team Name,Candidate role,Candidate's Name,Candidate's Email
A,Alpha,Developer,Alice,alice@example.com
A,Alpha,Designer,Bob,bob@example.com
B,Beta,Developer,Carol,carol@example.com
`
	res, err := svc.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if res.RowsInserted != 3 {
		t.Errorf("expected 3 rows inserted, got %d", res.RowsInserted)
	}
	want := []string{"HC00101", "HC00102", "HC00201"}
	for i, id := range want {
		if res.ParticipantIDs[i] != id {
			t.Errorf("id %d: expected %s, got %s", i, id, res.ParticipantIDs[i])
		}
	}
	if len(inserter.batches) != 1 {
		t.Fatalf("expected one batch, got %d", len(inserter.batches))
	}
}

func TestImport_HeaderOnlyInsertsNothing(t *testing.T) {
	inserter := &fakeInserter{}
	svc := NewService(inserter)

	res, err := svc.Import(context.Background(), strings.NewReader("Team ID,Team Name,Candidate role,Candidate's Name,Candidate's Email\n"))
	if err != nil {
		t.Fatalf("header-only import must succeed: %v", err)
	}
	if res.RowsInserted != 0 {
		t.Errorf("expected 0 rows inserted, got %d", res.RowsInserted)
	}
	if len(inserter.batches) != 0 {
		t.Errorf("no insert call expected for an empty batch")
	}
}

func TestImport_BadHeaderDoesNotInsert(t *testing.T) {
	inserter := &fakeInserter{}
	svc := NewService(inserter)

	_, err := svc.Import(context.Background(), strings.NewReader("Nope\nA\n"))
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(inserter.batches) != 0 {
		t.Errorf("failed parse must not reach the store")
	}
}

func TestImport_StorageFailurePropagates(t *testing.T) {
	inserter := &fakeInserter{err: errs.Storage("insert participant", errors.New("down"))}
	svc := NewService(inserter)

	csv := `Team ID,Team Name,Candidate role,Candidate's Name,Candidate's Email
A,Alpha,Developer,Alice,alice@example.com
`
	_, err := svc.Import(context.Background(), strings.NewReader(csv))
	if !errs.IsStorage(err) {
		t.Fatalf("expected storage error to propagate unchanged, got %v", err)
	}
}
