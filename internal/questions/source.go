package questions

import (
	"context"

	"peerprep/interview/internal/models"

	"go.uber.org/zap"
)

// Source yields a valid question set for a candidate, falling back to the
// local bank whenever the generator fails or returns an unusable set.
type Source struct {
	generator Generator
	bank      *Bank
	logger    *zap.Logger
}

func NewSource(generator Generator, bank *Bank, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{generator: generator, bank: bank, logger: logger}
}

// Questions returns the set and whether the fallback bank supplied it
func (s *Source) Questions(ctx context.Context, profile models.CandidateProfile, resumeText string) ([]models.InterviewQuestion, bool) {
	if s.generator != nil {
		qs, err := s.generator.Generate(ctx, profile, resumeText)
		if err == nil {
			err = Validate(qs)
		}
		if err == nil {
			out := make([]models.InterviewQuestion, len(qs))
			for i, q := range qs {
				q.ExpectedKeywords = capKeywords(q.ExpectedKeywords)
				out[i] = q
			}
			orderByTier(out)
			return out, false
		}
		s.logger.Warn("question generation failed, using fallback bank",
			zap.String("candidate_id", profile.ID),
			zap.Error(err),
		)
	}
	return s.bank.Pick(profile.ID), true
}
