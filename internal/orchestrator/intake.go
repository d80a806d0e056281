package orchestrator

import (
	"context"
	"fmt"

	"peerprep/interview/internal/events"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/resume"

	"go.uber.org/zap"
)

// ProfileOutcome is the result of a profile field submission. A rejected value
// carries its ValidationError and leaves the profile unchanged.
type ProfileOutcome struct {
	Record     *models.CandidateRecord
	Validation *models.ValidationError
}

func (p ProfileOutcome) Accepted() bool {
	return p.Validation == nil
}

// IngestDocument parses an uploaded resume and opens a new session seeded with
// whatever identity fields it contains. Unsupported formats create nothing.
func (o *Orchestrator) IngestDocument(ctx context.Context, doc resume.Document) (*models.CandidateRecord, error) {
	parsed, err := o.parser.Parse(ctx, doc)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	rec, err := o.ingestLocked(doc, parsed)
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}

	o.publish(ctx, events.CandidateUpdated, rec.ID)
	return rec, nil
}

func (o *Orchestrator) ingestLocked(doc resume.Document, parsed resume.Parsed) (*models.CandidateRecord, error) {
	// a new session takes focus, so a running interview is paused first
	if prev, ok := o.repo.Active(); ok && prev.Interview.Status == models.StatusInProgress {
		if err := o.pauseLocked(prev); err != nil {
			return nil, err
		}
	}

	rec := o.repo.Create(models.CandidateProfile{
		Name:       parsed.Name,
		Email:      parsed.Email,
		Phone:      parsed.Phone,
		ResumeText: parsed.Text,
		FileName:   doc.FileName,
		FileType:   doc.ContentType,
	})
	o.logger.Info("resume ingested",
		zap.String("candidate_id", rec.ID),
		zap.String("file_name", doc.FileName),
		zap.Int("missing_fields", len(models.MissingFields(rec.Profile))),
	)

	if err := o.say(rec.ID, models.KindInfo, detectionMessage(rec.Profile)); err != nil {
		return nil, err
	}
	if err := o.promptLocked(rec.ID, rec.Profile, msgReady); err != nil {
		return nil, err
	}
	return o.repo.Get(rec.ID)
}

// promptLocked asks for the first missing field, or moves the session to
// awaiting-start with the given ready message.
func (o *Orchestrator) promptLocked(id string, profile models.CandidateProfile, ready string) error {
	missing := models.MissingFields(profile)
	if len(missing) > 0 {
		if err := o.say(id, models.KindSystem, missingFieldsPrompt(missing)); err != nil {
			return err
		}
		return o.repo.SetStatus(id, models.StatusCollecting)
	}
	if err := o.repo.SetStatus(id, models.StatusAwaitingStart); err != nil {
		return err
	}
	return o.say(id, models.KindSystem, ready)
}

// SubmitProfileField records a value for one identity field of the active session.
func (o *Orchestrator) SubmitProfileField(ctx context.Context, field models.ProfileField, value string) (ProfileOutcome, error) {
	if !field.Valid() {
		return ProfileOutcome{}, fmt.Errorf("unknown profile field %q: %w", field, ErrInvalidState)
	}

	o.mu.Lock()
	out, err := o.submitProfileLocked(field, value)
	o.mu.Unlock()
	if err != nil {
		return ProfileOutcome{}, err
	}

	o.publish(ctx, events.CandidateUpdated, out.Record.ID)
	return out, nil
}

func (o *Orchestrator) submitProfileLocked(field models.ProfileField, value string) (ProfileOutcome, error) {
	rec, err := o.activeLocked()
	if err != nil {
		return ProfileOutcome{}, err
	}
	if rec.Interview.Status != models.StatusCollecting {
		return ProfileOutcome{}, fmt.Errorf("profile is only collected before the interview, status is %s: %w",
			rec.Interview.Status, ErrInvalidState)
	}

	if _, err := o.repo.AppendMessage(rec.ID, models.SenderCandidate, models.KindAnswer, value); err != nil {
		return ProfileOutcome{}, err
	}

	cleaned, verr := validateField(field, value)
	if verr != nil {
		if err := o.say(rec.ID, models.KindSystem, verr.Message); err != nil {
			return ProfileOutcome{}, err
		}
		updated, err := o.repo.Get(rec.ID)
		if err != nil {
			return ProfileOutcome{}, err
		}
		return ProfileOutcome{Record: updated, Validation: verr}, nil
	}

	if err := o.repo.SetProfileField(rec.ID, field, cleaned); err != nil {
		return ProfileOutcome{}, err
	}
	rec.Profile.SetField(field, cleaned)

	if missing := models.MissingFields(rec.Profile); len(missing) > 0 {
		if err := o.say(rec.ID, models.KindSystem, nextFieldPrompt(missing[0])); err != nil {
			return ProfileOutcome{}, err
		}
	} else if err := o.promptLocked(rec.ID, rec.Profile, msgProfileReady); err != nil {
		return ProfileOutcome{}, err
	}

	updated, err := o.repo.Get(rec.ID)
	if err != nil {
		return ProfileOutcome{}, err
	}
	return ProfileOutcome{Record: updated}, nil
}
