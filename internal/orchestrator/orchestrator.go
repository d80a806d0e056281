package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"peerprep/interview/internal/events"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/timer"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ErrInvalidState rejects a workflow invoked against an incompatible session state
var ErrInvalidState = models.ErrInvalidState

type DocumentParser interface {
	Parse(ctx context.Context, doc resume.Document) (resume.Parsed, error)
}

// QuestionSource always yields a usable set, reporting whether it fell back to the local bank
type QuestionSource interface {
	Questions(ctx context.Context, profile models.CandidateProfile, resumeText string) ([]models.InterviewQuestion, bool)
}

// Recorder receives interview lifecycle metrics
type Recorder interface {
	InterviewStarted()
	FallbackUsed()
	AnswerScored(difficulty string, autoSubmitted bool)
	InterviewCompleted(score int)
}

type nopRecorder struct{}

func (nopRecorder) InterviewStarted()         {}
func (nopRecorder) FallbackUsed()             {}
func (nopRecorder) AnswerScored(string, bool) {}
func (nopRecorder) InterviewCompleted(int)    {}

type Options struct {
	Clock        clockwork.Clock
	Logger       *zap.Logger
	Publisher    events.Publisher
	Recorder     Recorder
	PollInterval time.Duration
}

// armedTimer identifies the countdown currently running so stale expiries can be dropped
type armedTimer struct {
	candidateID string
	questionID  string
	token       uint64
}

// Orchestrator runs the interview workflows. Workflows are serialised by one
// mutex and only mutate state through the repository.
type Orchestrator struct {
	mu sync.Mutex

	repo      *session.Repository
	parser    DocumentParser
	questions QuestionSource
	timer     *timer.Controller
	clock     clockwork.Clock
	logger    *zap.Logger
	publisher events.Publisher
	recorder  Recorder

	// highest question index claimed by a submission, per candidate
	claimed map[string]int
	armed   armedTimer
	tokens  uint64

	// background expiry handling, waited on by Close. bgMu orders wg.Add
	// against Close so no expiry starts once Close is waiting.
	bgMu   sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func New(repo *session.Repository, parser DocumentParser, questions QuestionSource, opts Options) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Nop{}
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	return &Orchestrator{
		repo:      repo,
		parser:    parser,
		questions: questions,
		timer:     timer.NewController(opts.Clock, opts.PollInterval),
		clock:     opts.Clock,
		logger:    opts.Logger,
		publisher: opts.Publisher,
		recorder:  opts.Recorder,
		claimed:   make(map[string]int),
	}
}

// Close stops the running countdown and waits for in-flight expiry handling.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.disarmLocked()
	o.mu.Unlock()

	o.bgMu.Lock()
	o.closed = true
	o.bgMu.Unlock()
	o.wg.Wait()
}

// Get returns a snapshot of one session
func (o *Orchestrator) Get(id string) (*models.CandidateRecord, error) {
	return o.repo.Get(id)
}

// Active returns the active session, if any
func (o *Orchestrator) Active() (*models.CandidateRecord, bool) {
	return o.repo.Active()
}

// TimerView reports the live countdown for a session, or nil when it has none
func (o *Orchestrator) TimerView(rec *models.CandidateRecord) *models.TimerView {
	t := rec.Interview.ActiveTimer
	if t == nil {
		return nil
	}
	view := &models.TimerView{
		QuestionID: t.QuestionID,
		DurationMs: t.Duration.Milliseconds(),
		Paused:     t.Paused,
	}
	switch {
	case t.Paused && t.RemainingOnPause != nil:
		view.RemainingMs = t.RemainingOnPause.Milliseconds()
	case t.StartedAt != nil:
		st := o.timer.State()
		if st.Running && st.QuestionID == t.QuestionID {
			view.RemainingMs = st.Remaining.Milliseconds()
		} else {
			view.RemainingMs = timer.Remaining(*t.StartedAt, t.Duration, o.clock.Now()).Milliseconds()
		}
	}
	return view
}

// View wraps a record with its derived views
func (o *Orchestrator) View(rec *models.CandidateRecord) models.SessionResponse {
	resp := models.SessionResponse{
		Record:        rec,
		MissingFields: models.MissingFields(rec.Profile),
		Progress:      models.InterviewProgress(rec),
		Timer:         o.TimerView(rec),
		WelcomeBack:   o.repo.WelcomeBack() == rec.ID,
	}
	if q, ok := models.CurrentQuestion(rec); ok {
		resp.CurrentQuestion = &q
	}
	return resp
}

func (o *Orchestrator) activeLocked() (*models.CandidateRecord, error) {
	rec, ok := o.repo.Active()
	if !ok {
		return nil, fmt.Errorf("no active candidate: %w", ErrInvalidState)
	}
	return rec, nil
}

func (o *Orchestrator) say(id string, kind models.MessageKind, content string) error {
	_, err := o.repo.AppendMessage(id, models.SenderAssistant, kind, content)
	return err
}

// armLocked starts the countdown for a question and mirrors it into the repository
func (o *Orchestrator) armLocked(candidateID string, q models.InterviewQuestion, duration time.Duration) error {
	now := o.clock.Now()
	if err := o.repo.SetTimer(candidateID, &models.ActiveTimerState{
		QuestionID: q.ID,
		StartedAt:  &now,
		Duration:   duration,
	}); err != nil {
		return err
	}

	o.tokens++
	armed := armedTimer{candidateID: candidateID, questionID: q.ID, token: o.tokens}
	o.armed = armed
	o.timer.Arm(q.ID, now, duration, func() { o.expireAsync(armed) })
	return nil
}

// expireAsync runs from the timer callback, which may fire while o.mu is held
func (o *Orchestrator) expireAsync(armed armedTimer) {
	o.bgMu.Lock()
	defer o.bgMu.Unlock()
	if o.closed {
		return
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.handleExpiry(armed)
	}()
}

func (o *Orchestrator) disarmLocked() {
	o.timer.Stop()
	o.armed = armedTimer{}
}

// disarmForLocked stops the countdown only if it belongs to the candidate
func (o *Orchestrator) disarmForLocked(candidateID string) {
	if o.armed.candidateID == candidateID {
		o.disarmLocked()
	}
}

// publish sends events after the workflow lock is released
func (o *Orchestrator) publish(ctx context.Context, t events.Type, id string) {
	rec, err := o.repo.Get(id)
	if err != nil {
		return
	}
	if err := o.publisher.Publish(ctx, events.FromRecord(t, rec, o.clock.Now())); err != nil {
		o.logger.Warn("failed to publish interview event",
			zap.String("candidate_id", id),
			zap.String("event", string(t)),
			zap.Error(err),
		)
	}
}
