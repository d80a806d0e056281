package scoring

import (
	"math"
	"sort"

	"peerprep/interview/internal/models"
)

const (
	maxHighlights = 3

	FallbackStrength    = "Communicated clearly during the interview."
	FallbackImprovement = "Consider expanding answers with more concrete technical examples."

	remarkStrong = "Great performance with strong full-stack understanding."
	remarkDecent = "Decent interview; focus on deepening architectural discussions."
	remarkWeak   = "Needs improvement on core full-stack concepts and communication."
)

var (
	strengthThreshold    = float64(models.BasePoints[models.Hard]) * 0.7
	improvementThreshold = float64(models.BasePoints[models.Easy]) * 0.4
)

// Summarize aggregates the answers of a session into an overall 0-100 score
// with highlighted strengths and areas to improve.
func Summarize(interview models.CandidateInterview) models.CandidateSummary {
	possible := 0
	for _, q := range interview.Questions {
		possible += models.BasePoints[q.Difficulty]
	}
	achieved := 0
	for _, a := range interview.Answers {
		achieved += a.Score
	}

	overall := 0
	if possible > 0 {
		overall = int(math.Round(float64(achieved) / float64(possible) * 100))
	}

	prompts := make(map[string]string, len(interview.Questions))
	for _, q := range interview.Questions {
		prompts[q.ID] = q.Prompt
	}

	sorted := append([]models.AnswerRecord(nil), interview.Answers...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	strengths := []string{}
	improvements := []string{}
	for _, a := range sorted {
		if float64(a.Score) >= strengthThreshold && len(strengths) < maxHighlights {
			if p, ok := prompts[a.QuestionID]; ok {
				strengths = append(strengths, truncate(p, 60))
			} else {
				strengths = append(strengths, "Strong domain knowledge")
			}
		}
		if float64(a.Score) <= improvementThreshold && len(improvements) < maxHighlights {
			if p, ok := prompts[a.QuestionID]; ok {
				improvements = append(improvements, "Revisit: "+truncate(p, 50))
			} else {
				improvements = append(improvements, "Clarify reasoning in future answers.")
			}
		}
	}
	if len(strengths) == 0 {
		strengths = append(strengths, FallbackStrength)
	}
	if len(improvements) == 0 {
		improvements = append(improvements, FallbackImprovement)
	}

	return models.CandidateSummary{
		OverallScore:     overall,
		Strengths:        strengths,
		ImprovementAreas: improvements,
		FinalRemark:      Remark(overall),
	}
}

func Remark(overall int) string {
	switch {
	case overall >= 75:
		return remarkStrong
	case overall >= 55:
		return remarkDecent
	default:
		return remarkWeak
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
