package orchestrator

import (
	"context"
	"fmt"

	"peerprep/interview/internal/events"
	"peerprep/interview/internal/models"

	"go.uber.org/zap"
)

// SelectActive switches the active session. An empty id clears it. A running
// interview that loses focus is paused first.
func (o *Orchestrator) SelectActive(ctx context.Context, id string) (*models.CandidateRecord, error) {
	o.mu.Lock()
	paused, err := o.selectLocked(id)
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if paused != "" {
		o.publish(ctx, events.CandidateUpdated, paused)
	}
	if id == "" {
		return nil, nil
	}
	return o.repo.Get(id)
}

func (o *Orchestrator) selectLocked(id string) (string, error) {
	if id != "" {
		if _, err := o.repo.Get(id); err != nil {
			return "", err
		}
	}

	var paused string
	if prev, ok := o.repo.Active(); ok && prev.ID != id && prev.Interview.Status == models.StatusInProgress {
		if err := o.pauseLocked(prev); err != nil {
			return "", err
		}
		paused = prev.ID
	}
	return paused, o.repo.SetActive(id)
}

// ResetInterview wipes a session's interview and transcript, keeping its
// profile, then prompts again from the start.
func (o *Orchestrator) ResetInterview(ctx context.Context, id string) (*models.CandidateRecord, error) {
	o.mu.Lock()
	rec, err := o.resetLocked(id)
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}

	o.publish(ctx, events.CandidateUpdated, id)
	return rec, nil
}

func (o *Orchestrator) resetLocked(id string) (*models.CandidateRecord, error) {
	rec, err := o.repo.Reset(id)
	if err != nil {
		return nil, err
	}
	o.disarmForLocked(id)
	delete(o.claimed, id)

	if err := o.promptLocked(id, rec.Profile, msgReady); err != nil {
		return nil, err
	}
	o.logger.Info("interview reset", zap.String("candidate_id", id))
	return o.repo.Get(id)
}

// Recover reconciles sessions loaded from storage. Any session persisted while
// a question was running is paused with the time it had left, since its
// countdown died with the previous process.
func (o *Orchestrator) Recover(ctx context.Context) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	recovered := 0
	for _, rec := range o.repo.List() {
		if rec.Interview.Status != models.StatusInProgress {
			continue
		}
		if t := rec.Interview.ActiveTimer; t != nil && t.StartedAt != nil {
			remaining := remainingFor(t, now)
			if err := o.repo.SetTimer(rec.ID, &models.ActiveTimerState{
				QuestionID:       t.QuestionID,
				Duration:         remaining,
				RemainingOnPause: &remaining,
				Paused:           true,
			}); err != nil {
				return recovered, fmt.Errorf("recover %s: %w", rec.ID, err)
			}
		}
		if err := o.repo.SetStatus(rec.ID, models.StatusPaused); err != nil {
			return recovered, fmt.Errorf("recover %s: %w", rec.ID, err)
		}
		if err := o.repo.SetWelcomeBack(rec.ID); err != nil {
			return recovered, fmt.Errorf("recover %s: %w", rec.ID, err)
		}
		if err := o.say(rec.ID, models.KindSystem, msgPaused); err != nil {
			return recovered, fmt.Errorf("recover %s: %w", rec.ID, err)
		}
		o.claimed[rec.ID] = len(rec.Interview.Answers)
		recovered++
		o.logger.Info("paused interview interrupted by restart", zap.String("candidate_id", rec.ID))
	}
	return recovered, nil
}
