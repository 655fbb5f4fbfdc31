package importer

import (
	"context"
	"io"

	"checkin/internal/participant"
)

// Inserter is the slice of the participant repository the importer writes
// through.
type Inserter interface {
	BulkInsert(ctx context.Context, ps []participant.Participant) ([]string, error)
}

// Service turns an uploaded CSV into registered participants.
type Service struct {
	inserter Inserter
}

// NewService creates an import service writing through the given inserter.
func NewService(inserter Inserter) *Service {
	return &Service{inserter: inserter}
}

// Result reports what an import run did.
type Result struct {
	RowsInserted   int      `json:"rows_inserted"`
	ParticipantIDs []string `json:"participant_ids"`
}

// Import parses the file, assigns participant ids, and bulk-inserts the
// batch. An empty file body past the header inserts nothing and is not an
// error.
func (s *Service) Import(ctx context.Context, file io.Reader) (Result, error) {
	rows, err := ParseCSV(file)
	if err != nil {
		return Result{}, err
	}
	ps, err := participant.AssignIDs(rows)
	if err != nil {
		return Result{}, err
	}
	if len(ps) == 0 {
		return Result{}, nil
	}
	ids, err := s.inserter.BulkInsert(ctx, ps)
	if err != nil {
		return Result{}, err
	}
	return Result{RowsInserted: len(ids), ParticipantIDs: ids}, nil
}
