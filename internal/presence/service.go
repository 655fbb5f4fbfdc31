package presence

import (
	"context"
	"time"

	"checkin/internal/participant"
)

// ParticipantFinder is the slice of the participant repository the toggle
// engine reads through.
type ParticipantFinder interface {
	Find(ctx context.Context, participantID string) (participant.Participant, error)
}

// EventAppender records the next toggle for a participant.
type EventAppender interface {
	AppendNext(ctx context.Context, participantID string) (Event, error)
}

// Service runs presence toggles.
type Service struct {
	finder   ParticipantFinder
	appender EventAppender
}

// NewService creates a toggle service.
func NewService(finder ParticipantFinder, appender EventAppender) *Service {
	return &Service{finder: finder, appender: appender}
}

// ToggleResult is the outcome of one scan.
type ToggleResult struct {
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	NewState        bool      `json:"new_state"`
	ToggledAt       time.Time `json:"toggled_at"`
	StatusText      string    `json:"status_text"`
}

// Toggle flips the participant's presence state and appends the resulting
// event. Unknown participants fail with a not-found error before anything is
// written; a failed read or write aborts without recording a state.
func (s *Service) Toggle(ctx context.Context, participantID string) (ToggleResult, error) {
	p, err := s.finder.Find(ctx, participantID)
	if err != nil {
		return ToggleResult{}, err
	}
	evt, err := s.appender.AppendNext(ctx, participantID)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{
		ParticipantID:   evt.ParticipantID,
		ParticipantName: p.CandidateName,
		NewState:        evt.IsInside,
		ToggledAt:       evt.ToggledAt,
		StatusText:      StatusText(evt.IsInside),
	}, nil
}

// StatusText renders a state for display.
func StatusText(inside bool) string {
	if inside {
		return "inside"
	}
	return "outside"
}
