package activity

import (
	"context"
	"log"

	"checkin/internal/errs"
	"checkin/internal/participant"
)

const recentLimit = 3

// ParticipantFinder is the slice of the participant repository the service
// reads through.
type ParticipantFinder interface {
	Find(ctx context.Context, participantID string) (participant.Participant, error)
}

// Store is the slice of the activity repository the service uses.
type Store interface {
	Insert(ctx context.Context, rec Record) error
	Exists(ctx context.Context, participantID, activityName string) (bool, error)
	Recent(ctx context.Context, participantID string, limit int) ([]Summary, error)
}

// Service records activities and serves participant lookups enriched with
// recent activity.
type Service struct {
	finder ParticipantFinder
	store  Store
}

// NewService creates an activity service.
func NewService(finder ParticipantFinder, store Store) *Service {
	return &Service{finder: finder, store: store}
}

// Result carries a participant plus their recent activity. When the
// enrichment read failed, Recent is empty and EnrichmentFailed set; the
// primary operation has still succeeded.
type Result struct {
	Participant      participant.Participant `json:"participant"`
	Recent           []Summary               `json:"recent_activity"`
	EnrichmentFailed bool                    `json:"-"`
}

// Add records an activity for a participant. Unknown participants fail with
// not-found, duplicate (participant, activity) pairs with conflict. The
// unique constraint backing Insert is the authoritative dedupe guard; the
// Exists pre-check only short-circuits the common duplicate-scan case.
func (s *Service) Add(ctx context.Context, participantID, activityName, description string) (Result, error) {
	p, err := s.finder.Find(ctx, participantID)
	if err != nil {
		return Result{}, err
	}
	if dup, err := s.store.Exists(ctx, participantID, activityName); err == nil && dup {
		return Result{}, errs.Conflict("%s already recorded for participant %s", activityName, participantID)
	}
	err = s.store.Insert(ctx, Record{
		ParticipantID:  participantID,
		ActivityName:   activityName,
		Description:    description,
		CandidateName:  p.CandidateName,
		CandidateEmail: p.CandidateEmail,
	})
	if err != nil {
		return Result{}, err
	}
	return s.enrich(ctx, p), nil
}

// Info returns the participant plus their recent activity.
func (s *Service) Info(ctx context.Context, participantID string) (Result, error) {
	p, err := s.finder.Find(ctx, participantID)
	if err != nil {
		return Result{}, err
	}
	return s.enrich(ctx, p), nil
}

func (s *Service) enrich(ctx context.Context, p participant.Participant) Result {
	recent, err := s.store.Recent(ctx, p.ParticipantID, recentLimit)
	if err != nil {
		log.Printf("recent activity fetch failed for %s: %v", p.ParticipantID, err)
		return Result{Participant: p, EnrichmentFailed: true}
	}
	if recent == nil {
		recent = []Summary{}
	}
	return Result{Participant: p, Recent: recent}
}
