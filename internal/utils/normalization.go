package utils

import (
	"strings"

	"peerprep/interview/internal/models"
)

// NormalizeDifficulty maps free-form difficulty labels onto a tier, defaulting to easy
func NormalizeDifficulty(difficulty string) models.Difficulty {
	lowered := strings.ToLower(strings.TrimSpace(difficulty))
	switch {
	case strings.Contains(lowered, "hard"):
		return models.Hard
	case strings.Contains(lowered, "medium"):
		return models.Medium
	default:
		return models.Easy
	}
}

func NormalizeSort(order string) string {
	order = strings.ToLower(strings.TrimSpace(order))
	if !models.ValidSortOrders[order] {
		return models.SortScoreDesc
	}
	return order
}

// StripFences removes a surrounding markdown code fence from model output
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.Index(s, "\n"); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
