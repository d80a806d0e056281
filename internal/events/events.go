package events

import (
	"context"
	"errors"
	"time"

	"peerprep/interview/internal/models"
)

type Type string

const (
	CandidateUpdated   Type = "candidate_updated"
	InterviewCompleted Type = "interview_completed"
)

// Event announces a change to one candidate session
type Event struct {
	Type        Type                     `json:"type"`
	CandidateID string                   `json:"candidate_id"`
	Status      models.Status            `json:"status"`
	Name        string                   `json:"name,omitempty"`
	Email       string                   `json:"email,omitempty"`
	Score       *int                     `json:"score,omitempty"`
	Progress    models.Progress          `json:"progress"`
	OccurredAt  time.Time                `json:"occurred_at"`
	Summary     *models.CandidateSummary `json:"summary,omitempty"`
}

// FromRecord builds an event describing the record's current state
func FromRecord(t Type, rec *models.CandidateRecord, at time.Time) Event {
	e := Event{
		Type:        t,
		CandidateID: rec.ID,
		Status:      rec.Interview.Status,
		Name:        rec.Profile.Name,
		Email:       rec.Profile.Email,
		Progress:    models.InterviewProgress(rec),
		OccurredAt:  at,
	}
	if rec.Summary != nil {
		score := rec.Summary.OverallScore
		e.Score = &score
		e.Summary = rec.Summary
	}
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
