package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"peerprep/interview/internal/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	ErrNotFound          = models.ErrNotFound
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repository holds every candidate session, their display order and the active id.
// All reads return deep copies.
type Repository struct {
	mu            sync.RWMutex
	clock         clockwork.Clock
	records       map[string]*models.CandidateRecord
	order         []string
	activeID      string
	welcomeBackID string
	revision      uint64
}

func NewRepository(clock clockwork.Clock) *Repository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Repository{
		clock:   clock,
		records: make(map[string]*models.CandidateRecord),
	}
}

// Create stores a new session seeded with the given profile, puts it first in
// the order and makes it active.
func (r *Repository) Create(profile models.CandidateProfile) *models.CandidateRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	id := uuid.NewString()
	profile.ID = id
	rec := &models.CandidateRecord{
		ID:          id,
		CreatedAt:   now,
		UpdatedAt:   now,
		Profile:     profile,
		Interview:   models.NewInterview(),
		ChatHistory: []models.ChatMessage{},
	}
	r.records[id] = rec
	r.order = append([]string{id}, r.order...)
	r.activeID = id
	r.revision++
	return rec.Clone()
}

// SetActive selects the active session. An empty id clears the selection.
func (r *Repository) SetActive(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if _, ok := r.records[id]; !ok {
			return fmt.Errorf("set active %s: %w", id, ErrNotFound)
		}
	}
	r.activeID = id
	r.revision++
	return nil
}

func (r *Repository) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

func (r *Repository) AppendMessage(id string, sender models.Sender, kind models.MessageKind, content string) (models.ChatMessage, error) {
	var msg models.ChatMessage
	err := r.mutate(id, func(rec *models.CandidateRecord, now time.Time) error {
		msg = models.ChatMessage{
			ID:        uuid.NewString(),
			Sender:    sender,
			Timestamp: now,
			Content:   content,
			Kind:      kind,
		}
		rec.ChatHistory = append(rec.ChatHistory, msg)
		return nil
	})
	return msg, err
}

func (r *Repository) SetProfileField(id string, field models.ProfileField, value string) error {
	return r.mutate(id, func(rec *models.CandidateRecord, _ time.Time) error {
		rec.Profile.SetField(field, value)
		return nil
	})
}

// SetQuestions installs the question set and rewinds the index and answers.
func (r *Repository) SetQuestions(id string, questions []models.InterviewQuestion) error {
	return r.mutate(id, func(rec *models.CandidateRecord, _ time.Time) error {
		qs := make([]models.InterviewQuestion, len(questions))
		for i, q := range questions {
			q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
			qs[i] = q
		}
		rec.Interview.Questions = qs
		rec.Interview.CurrentQuestionIndex = 0
		rec.Interview.Answers = []models.AnswerRecord{}
		return nil
	})
}

func (r *Repository) SetStatus(id string, status models.Status) error {
	return r.mutate(id, func(rec *models.CandidateRecord, now time.Time) error {
		from := rec.Interview.Status
		if !models.CanTransition(from, status) {
			return fmt.Errorf("%s -> %s: %w", from, status, ErrInvalidTransition)
		}
		rec.Interview.Status = status
		switch status {
		case models.StatusInProgress:
			if rec.Interview.StartedAt == nil {
				t := now
				rec.Interview.StartedAt = &t
			}
		case models.StatusCompleted:
			t := now
			rec.Interview.CompletedAt = &t
		}
		return nil
	})
}

// SetTimer replaces the active timer. A nil timer clears it.
func (r *Repository) SetTimer(id string, timer *models.ActiveTimerState) error {
	return r.mutate(id, func(rec *models.CandidateRecord, _ time.Time) error {
		rec.Interview.ActiveTimer = timer.Clone()
		return nil
	})
}

func (r *Repository) Advance(id string) error {
	return r.mutate(id, func(rec *models.CandidateRecord, _ time.Time) error {
		rec.Interview.CurrentQuestionIndex++
		rec.Interview.ActiveTimer = nil
		return nil
	})
}

func (r *Repository) RecordAnswer(id string, answer models.AnswerRecord) error {
	return r.mutate(id, func(rec *models.CandidateRecord, _ time.Time) error {
		rec.Interview.Answers = append(rec.Interview.Answers, answer)
		return nil
	})
}

func (r *Repository) SetSummary(id string, summary models.CandidateSummary) error {
	return r.mutate(id, func(rec *models.CandidateRecord, _ time.Time) error {
		s := summary
		s.Strengths = append([]string(nil), summary.Strengths...)
		s.ImprovementAreas = append([]string(nil), summary.ImprovementAreas...)
		rec.Summary = &s
		return nil
	})
}

// Reset reinitialises the interview and clears the transcript and summary.
// The id and profile are kept.
func (r *Repository) Reset(id string) (*models.CandidateRecord, error) {
	err := r.mutate(id, func(rec *models.CandidateRecord, _ time.Time) error {
		rec.Interview = models.NewInterview()
		rec.ChatHistory = []models.ChatMessage{}
		rec.Summary = nil
		// mutate holds the write lock
		if r.welcomeBackID == id {
			r.welcomeBackID = ""
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(id)
}

func (r *Repository) Get(id string) (*models.CandidateRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return rec.Clone(), nil
}

// Active returns the active session, if one is selected.
func (r *Repository) Active() (*models.CandidateRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[r.activeID]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// List returns all sessions, newest first.
func (r *Repository) List() []*models.CandidateRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.CandidateRecord, 0, len(r.order))
	for _, id := range r.order {
		if rec, ok := r.records[id]; ok {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// Revision is bumped on every mutation.
func (r *Repository) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// SetWelcomeBack marks the session that should be greeted on return. Empty clears it.
func (r *Repository) SetWelcomeBack(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if _, ok := r.records[id]; !ok {
			return fmt.Errorf("welcome back %s: %w", id, ErrNotFound)
		}
	}
	r.welcomeBackID = id
	r.revision++
	return nil
}

func (r *Repository) WelcomeBack() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.welcomeBackID
}

func (r *Repository) mutate(id string, fn func(rec *models.CandidateRecord, now time.Time) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	now := r.clock.Now()
	work := rec.Clone()
	if err := fn(work, now); err != nil {
		return err
	}
	work.UpdatedAt = now
	r.records[id] = work
	r.revision++
	return nil
}
