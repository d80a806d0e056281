package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"peerprep/interview/internal/llm"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/utils"

	"github.com/google/uuid"
)

// resume text beyond this is not sent to the model
const maxResumeSnippet = 2000

var ErrGeneration = errors.New("question generation failed")

// Generator produces a question set for a candidate
type Generator interface {
	Generate(ctx context.Context, profile models.CandidateProfile, resumeText string) ([]models.InterviewQuestion, error)
}

// ProviderGenerator asks an LLM provider for questions
type ProviderGenerator struct {
	provider llm.Provider
	prompts  *prompts.PromptManager
}

func NewProviderGenerator(provider llm.Provider, pm *prompts.PromptManager) *ProviderGenerator {
	return &ProviderGenerator{provider: provider, prompts: pm}
}

type generatedQuestion struct {
	Prompt           string   `json:"prompt"`
	Difficulty       string   `json:"difficulty"`
	ExpectedKeywords []string `json:"expectedKeywords"`
}

type generatedSet struct {
	Questions []generatedQuestion `json:"questions"`
}

func (g *ProviderGenerator) Generate(ctx context.Context, profile models.CandidateProfile, resumeText string) ([]models.InterviewQuestion, error) {
	prompt, err := g.buildPrompt(profile, resumeText)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	resp, err := g.provider.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	qs, err := ParseQuestions(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return qs, nil
}

func (g *ProviderGenerator) buildPrompt(profile models.CandidateProfile, resumeText string) (string, error) {
	var intro []string
	if profile.Name != "" {
		intro = append(intro, "Candidate: "+profile.Name)
	}
	if profile.Email != "" {
		intro = append(intro, "Email: "+profile.Email)
	}
	if profile.Phone != "" {
		intro = append(intro, "Phone: "+profile.Phone)
	}

	variant := "resume"
	snippet := strings.TrimSpace(resumeText)
	if snippet == "" {
		variant = "generic"
	}
	if r := []rune(snippet); len(r) > maxResumeSnippet {
		snippet = string(r[:maxResumeSnippet])
	}

	return g.prompts.BuildPrompt("questions", variant, map[string]string{
		"Intro":  strings.Join(intro, "\n"),
		"Resume": snippet,
	})
}

// ParseQuestions decodes the model's JSON reply into a validated, tier-ordered set
func ParseQuestions(text string) ([]models.InterviewQuestion, error) {
	var set generatedSet
	if err := json.Unmarshal([]byte(utils.StripFences(text)), &set); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	qs := make([]models.InterviewQuestion, 0, len(set.Questions))
	for _, gq := range set.Questions {
		qs = append(qs, models.InterviewQuestion{
			ID:               uuid.NewString(),
			Prompt:           strings.TrimSpace(gq.Prompt),
			Difficulty:       utils.NormalizeDifficulty(gq.Difficulty),
			ExpectedKeywords: capKeywords(gq.ExpectedKeywords),
		})
	}
	if err := Validate(qs); err != nil {
		return nil, err
	}
	orderByTier(qs)
	return qs, nil
}
