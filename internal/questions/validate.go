package questions

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"peerprep/interview/internal/models"
)

var ErrInvalidSet = errors.New("invalid question set")

// Validate checks a set has exactly two questions per tier with non-empty prompts
func Validate(qs []models.InterviewQuestion) error {
	if len(qs) != models.QuestionsPerSession {
		return fmt.Errorf("%w: got %d questions, want %d", ErrInvalidSet, len(qs), models.QuestionsPerSession)
	}
	counts := make(map[models.Difficulty]int, 3)
	for i, q := range qs {
		if !q.Difficulty.Valid() {
			return fmt.Errorf("%w: question %d has difficulty %q", ErrInvalidSet, i+1, q.Difficulty)
		}
		if strings.TrimSpace(q.Prompt) == "" {
			return fmt.Errorf("%w: question %d has an empty prompt", ErrInvalidSet, i+1)
		}
		counts[q.Difficulty]++
	}
	for _, d := range models.Difficulties() {
		if counts[d] != models.QuestionsPerTier {
			return fmt.Errorf("%w: %d %s questions, want %d", ErrInvalidSet, counts[d], d, models.QuestionsPerTier)
		}
	}
	return nil
}

// orderByTier sorts easy before medium before hard, keeping order within a tier
func orderByTier(qs []models.InterviewQuestion) {
	rank := map[models.Difficulty]int{models.Easy: 0, models.Medium: 1, models.Hard: 2}
	sort.SliceStable(qs, func(i, j int) bool { return rank[qs[i].Difficulty] < rank[qs[j].Difficulty] })
}

func capKeywords(kws []string) []string {
	out := make([]string, 0, len(kws))
	for _, kw := range kws {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
		if len(out) == models.MaxExpectedKeywords {
			break
		}
	}
	return out
}
