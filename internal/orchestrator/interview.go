package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"peerprep/interview/internal/events"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/scoring"
	"peerprep/interview/internal/timer"

	"go.uber.org/zap"
)

// Submission is one answer to the current question. QuestionID, when set,
// pins the answer to a specific question so retries and late expiries are no-ops.
type Submission struct {
	QuestionID    string
	Response      string
	AutoSubmitted bool
}

type AnswerOutcome struct {
	Record *models.CandidateRecord
	// Applied is false when the submission was a duplicate and changed nothing
	Applied   bool
	Result    scoring.Result
	Completed bool
}

// StartInterview installs the question set for the active session and poses the first question.
func (o *Orchestrator) StartInterview(ctx context.Context) (*models.CandidateRecord, error) {
	o.mu.Lock()
	rec, err := o.startLocked(ctx)
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}

	o.publish(ctx, events.CandidateUpdated, rec.ID)
	return rec, nil
}

func (o *Orchestrator) startLocked(ctx context.Context) (*models.CandidateRecord, error) {
	rec, err := o.activeLocked()
	if err != nil {
		return nil, err
	}
	if missing := models.MissingFields(rec.Profile); len(missing) > 0 {
		return nil, fmt.Errorf("profile still missing %v: %w", missing, ErrInvalidState)
	}
	if rec.Interview.Status != models.StatusAwaitingStart {
		return nil, fmt.Errorf("cannot start an interview that is %s: %w", rec.Interview.Status, ErrInvalidState)
	}

	if err := o.say(rec.ID, models.KindSystem, msgStarting); err != nil {
		return nil, err
	}
	if err := o.repo.SetStatus(rec.ID, models.StatusInProgress); err != nil {
		return nil, err
	}
	o.recorder.InterviewStarted()

	qs, fallback := o.questions.Questions(ctx, rec.Profile, rec.Profile.ResumeText)
	if fallback {
		o.recorder.FallbackUsed()
	}
	if err := o.repo.SetQuestions(rec.ID, qs); err != nil {
		return nil, err
	}
	o.claimed[rec.ID] = 0

	if err := o.askLocked(rec.ID, 0, qs[0]); err != nil {
		return nil, err
	}
	o.logger.Info("interview started",
		zap.String("candidate_id", rec.ID),
		zap.Bool("fallback_questions", fallback),
	)
	return o.repo.Get(rec.ID)
}

// askLocked posts a question and starts its countdown with the full allotted time
func (o *Orchestrator) askLocked(id string, index int, q models.InterviewQuestion) error {
	if err := o.say(id, models.KindQuestion, questionMessage(index, q)); err != nil {
		return err
	}
	return o.armLocked(id, q, models.AllottedTime(q.Difficulty))
}

// SubmitAnswer scores an answer to the active session's current question and
// moves on, finishing the interview after the last question.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, sub Submission) (AnswerOutcome, error) {
	o.mu.Lock()
	rec, err := o.activeLocked()
	if err != nil {
		o.mu.Unlock()
		return AnswerOutcome{}, err
	}
	out, err := o.submitLocked(rec, sub)
	o.mu.Unlock()
	if err != nil {
		return AnswerOutcome{}, err
	}

	o.afterSubmit(ctx, out)
	return out, nil
}

func (o *Orchestrator) afterSubmit(ctx context.Context, out AnswerOutcome) {
	if !out.Applied {
		return
	}
	o.publish(ctx, events.CandidateUpdated, out.Record.ID)
	if out.Completed {
		o.publish(ctx, events.InterviewCompleted, out.Record.ID)
	}
}

func (o *Orchestrator) submitLocked(rec *models.CandidateRecord, sub Submission) (AnswerOutcome, error) {
	idx := rec.Interview.CurrentQuestionIndex
	q, hasQuestion := models.CurrentQuestion(rec)

	// duplicate or late submissions never change anything
	duplicate := len(rec.Interview.Answers) > idx ||
		o.claimed[rec.ID] > idx ||
		(sub.QuestionID != "" && (!hasQuestion || sub.QuestionID != q.ID))
	if duplicate {
		o.logger.Debug("ignoring duplicate answer submission",
			zap.String("candidate_id", rec.ID),
			zap.Int("question_index", idx),
			zap.String("question_id", sub.QuestionID),
		)
		return AnswerOutcome{Record: rec, Applied: false}, nil
	}

	if rec.Interview.Status != models.StatusInProgress {
		return AnswerOutcome{}, fmt.Errorf("cannot answer while the interview is %s: %w", rec.Interview.Status, ErrInvalidState)
	}
	if !hasQuestion {
		return AnswerOutcome{}, fmt.Errorf("no question to answer: %w", ErrInvalidState)
	}
	o.claimed[rec.ID] = idx + 1

	if sub.AutoSubmitted && strings.TrimSpace(sub.Response) == "" {
		if _, err := o.repo.AppendMessage(rec.ID, models.SenderSystem, models.KindSystem, msgTimesUp); err != nil {
			return AnswerOutcome{}, err
		}
	} else if _, err := o.repo.AppendMessage(rec.ID, models.SenderCandidate, models.KindAnswer, sub.Response); err != nil {
		return AnswerOutcome{}, err
	}

	elapsed := models.AllottedTime(q.Difficulty)
	if t := rec.Interview.ActiveTimer; t != nil && t.StartedAt != nil {
		elapsed = max(o.clock.Since(*t.StartedAt), 0)
	}

	result := scoring.Evaluate(q, sub.Response, elapsed, sub.AutoSubmitted)
	o.recorder.AnswerScored(string(q.Difficulty), sub.AutoSubmitted)

	if err := o.repo.RecordAnswer(rec.ID, models.AnswerRecord{
		QuestionID:    q.ID,
		Response:      sub.Response,
		Elapsed:       elapsed,
		AutoSubmitted: sub.AutoSubmitted,
		SubmittedAt:   o.clock.Now(),
		Score:         result.Score,
		Rationale:     result.Rationale,
	}); err != nil {
		return AnswerOutcome{}, err
	}
	if err := o.say(rec.ID, models.KindInfo, result.Rationale); err != nil {
		return AnswerOutcome{}, err
	}

	o.disarmForLocked(rec.ID)
	if err := o.repo.Advance(rec.ID); err != nil {
		return AnswerOutcome{}, err
	}

	next := idx + 1
	completed := next >= len(rec.Interview.Questions)
	if !completed {
		if err := o.askLocked(rec.ID, next, rec.Interview.Questions[next]); err != nil {
			return AnswerOutcome{}, err
		}
	} else if err := o.completeLocked(rec.ID); err != nil {
		return AnswerOutcome{}, err
	}

	updated, err := o.repo.Get(rec.ID)
	if err != nil {
		return AnswerOutcome{}, err
	}
	return AnswerOutcome{Record: updated, Applied: true, Result: result, Completed: completed}, nil
}

func (o *Orchestrator) completeLocked(id string) error {
	if err := o.repo.SetTimer(id, nil); err != nil {
		return err
	}
	rec, err := o.repo.Get(id)
	if err != nil {
		return err
	}
	summary := scoring.Summarize(rec.Interview)
	if err := o.repo.SetSummary(id, summary); err != nil {
		return err
	}
	if err := o.repo.SetStatus(id, models.StatusCompleted); err != nil {
		return err
	}
	if err := o.say(id, models.KindSummary, finalMessage(summary)); err != nil {
		return err
	}
	o.recorder.InterviewCompleted(summary.OverallScore)
	o.logger.Info("interview completed",
		zap.String("candidate_id", id),
		zap.Int("overall_score", summary.OverallScore),
	)
	return nil
}

// handleExpiry auto-submits the question whose countdown ran out, unless the
// countdown was replaced, paused or reset in the meantime.
func (o *Orchestrator) handleExpiry(armed armedTimer) {
	o.mu.Lock()
	if o.armed.token != armed.token {
		o.mu.Unlock()
		return
	}
	rec, err := o.repo.Get(armed.candidateID)
	if err != nil {
		o.mu.Unlock()
		o.logger.Warn("expired timer for unknown candidate", zap.String("candidate_id", armed.candidateID))
		return
	}
	out, err := o.submitLocked(rec, Submission{QuestionID: armed.questionID, AutoSubmitted: true})
	o.mu.Unlock()

	if err != nil {
		o.logger.Warn("auto-submit on expiry failed",
			zap.String("candidate_id", armed.candidateID),
			zap.String("question_id", armed.questionID),
			zap.Error(err),
		)
		return
	}
	o.afterSubmit(context.Background(), out)
}

// PauseInterview freezes the active session's countdown.
func (o *Orchestrator) PauseInterview(ctx context.Context) (*models.CandidateRecord, error) {
	o.mu.Lock()
	rec, err := o.activeLocked()
	if err == nil {
		if rec.Interview.Status != models.StatusInProgress {
			err = fmt.Errorf("cannot pause an interview that is %s: %w", rec.Interview.Status, ErrInvalidState)
		} else {
			err = o.pauseLocked(rec)
		}
	}
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}

	o.publish(ctx, events.CandidateUpdated, rec.ID)
	return o.repo.Get(rec.ID)
}

func (o *Orchestrator) pauseLocked(rec *models.CandidateRecord) error {
	if t := rec.Interview.ActiveTimer; t != nil && t.StartedAt != nil {
		remaining := timer.Remaining(*t.StartedAt, t.Duration, o.clock.Now())
		if o.armed.candidateID == rec.ID {
			if left, ok := o.timer.Pause(); ok {
				remaining = left
			}
			o.armed = armedTimer{}
		}
		if err := o.repo.SetTimer(rec.ID, &models.ActiveTimerState{
			QuestionID:       t.QuestionID,
			Duration:         remaining,
			RemainingOnPause: &remaining,
			Paused:           true,
		}); err != nil {
			return err
		}
	}
	if err := o.repo.SetStatus(rec.ID, models.StatusPaused); err != nil {
		return err
	}
	if err := o.repo.SetWelcomeBack(rec.ID); err != nil {
		return err
	}
	return o.say(rec.ID, models.KindSystem, msgPaused)
}

// ResumeInterview restarts a paused session with exactly the time it had left.
func (o *Orchestrator) ResumeInterview(ctx context.Context) (*models.CandidateRecord, error) {
	o.mu.Lock()
	rec, err := o.resumeLocked()
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}

	o.publish(ctx, events.CandidateUpdated, rec.ID)
	return rec, nil
}

func (o *Orchestrator) resumeLocked() (*models.CandidateRecord, error) {
	rec, err := o.activeLocked()
	if err != nil {
		return nil, err
	}
	if rec.Interview.Status != models.StatusPaused {
		return nil, fmt.Errorf("cannot resume an interview that is %s: %w", rec.Interview.Status, ErrInvalidState)
	}

	q, hasQuestion := models.CurrentQuestion(rec)
	rearm := time.Duration(-1)
	switch t := rec.Interview.ActiveTimer; {
	case t != nil && t.Paused && t.RemainingOnPause != nil:
		if !hasQuestion || q.ID != t.QuestionID {
			return nil, fmt.Errorf("paused timer does not match the current question: %w", ErrInvalidState)
		}
		rearm = *t.RemainingOnPause
	case t == nil && hasQuestion:
		// paused without a countdown snapshot, the question gets its full time
		rearm = models.AllottedTime(q.Difficulty)
	}

	if err := o.repo.SetStatus(rec.ID, models.StatusInProgress); err != nil {
		return nil, err
	}
	if rearm >= 0 {
		if err := o.armLocked(rec.ID, q, rearm); err != nil {
			return nil, err
		}
	}

	if o.repo.WelcomeBack() == rec.ID {
		if err := o.repo.SetWelcomeBack(""); err != nil {
			return nil, err
		}
	}
	if err := o.say(rec.ID, models.KindSystem, msgResumed); err != nil {
		return nil, err
	}
	return o.repo.Get(rec.ID)
}

// Suspend pauses a running interview when the process or client goes away.
// Failures are logged, never returned.
func (o *Orchestrator) Suspend(ctx context.Context) {
	o.mu.Lock()
	rec, ok := o.repo.Active()
	if !ok || rec.Interview.Status != models.StatusInProgress {
		o.mu.Unlock()
		return
	}
	err := o.pauseLocked(rec)
	o.mu.Unlock()

	if err != nil {
		o.logger.Warn("suspend could not pause the interview", zap.String("candidate_id", rec.ID), zap.Error(err))
		return
	}
	o.logger.Info("interview suspended", zap.String("candidate_id", rec.ID))
	o.publish(ctx, events.CandidateUpdated, rec.ID)
}

// remainingFor is the countdown left on a persisted running timer
func remainingFor(t *models.ActiveTimerState, now time.Time) time.Duration {
	if t == nil || t.StartedAt == nil {
		return 0
	}
	return timer.Remaining(*t.StartedAt, t.Duration, now)
}
