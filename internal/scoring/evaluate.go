package scoring

import (
	"math"
	"regexp"
	"strings"
	"time"

	"peerprep/interview/internal/models"
)

type LengthQuality string

const (
	LengthShort LengthQuality = "short"
	LengthIdeal LengthQuality = "ideal"
	LengthLong  LengthQuality = "long"
)

const (
	shortAnswerWords = 30
	longAnswerWords  = 180
)

const (
	RationaleNoAnswer = "The answer was empty or auto-submitted when the timer expired."
	rationaleMissed   = "Missed most of the expected keywords."
	rationaleShort    = "Answer felt brief; add more depth next time."
	rationaleLong     = "Answer was quite long; try to focus on the most relevant points."
	rationaleSolid    = "Solid response overall."
)

// Result is the outcome of scoring one answer
type Result struct {
	Score          int
	Rationale      string
	KeywordMatches []string
	Coverage       float64
	LengthQuality  LengthQuality
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9\s]`)

// cleanText lowercases, turns punctuation into spaces and collapses whitespace
func cleanText(s string) string {
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Evaluate scores a response against the question's expected keywords,
// the time spent answering and the answer length.
func Evaluate(q models.InterviewQuestion, response string, elapsed time.Duration, autoSubmitted bool) Result {
	if strings.TrimSpace(response) == "" || autoSubmitted {
		return Result{
			Score:          0,
			Rationale:      RationaleNoAnswer,
			KeywordMatches: []string{},
			Coverage:       0,
			LengthQuality:  LengthShort,
		}
	}

	base := models.BasePoints[q.Difficulty]
	normalized := cleanText(response)

	matches := []string{}
	for _, kw := range q.ExpectedKeywords {
		cleaned := cleanText(kw)
		if cleaned == "" {
			continue
		}
		if strings.Contains(normalized, cleaned) {
			matches = append(matches, kw)
		}
	}

	coverage := 0.5
	if len(q.ExpectedKeywords) > 0 {
		coverage = float64(len(matches)) / float64(len(q.ExpectedKeywords))
	}

	durationRatio := 0.0
	if allotted := models.AllottedTime(q.Difficulty); allotted > 0 {
		durationRatio = math.Min(float64(elapsed)/float64(allotted), 1)
	}
	if durationRatio < 0 {
		durationRatio = 0
	}

	quality := LengthIdeal
	lengthFactor := 1.0
	switch words := len(strings.Fields(response)); {
	case words < shortAnswerWords:
		quality, lengthFactor = LengthShort, 0.7
	case words > longAnswerWords:
		quality, lengthFactor = LengthLong, 0.85
	}

	score := int(math.Round(float64(base) * (0.5 + coverage*0.4 + durationRatio*0.1) * lengthFactor))

	var parts []string
	if len(matches) > 0 {
		parts = append(parts, "Covered keywords: "+strings.Join(matches, ", "))
	} else if len(q.ExpectedKeywords) > 0 {
		parts = append(parts, rationaleMissed)
	}
	switch quality {
	case LengthShort:
		parts = append(parts, rationaleShort)
	case LengthLong:
		parts = append(parts, rationaleLong)
	}
	if len(parts) == 0 {
		parts = append(parts, rationaleSolid)
	}

	return Result{
		Score:          score,
		Rationale:      strings.Join(parts, " "),
		KeywordMatches: matches,
		Coverage:       coverage,
		LengthQuality:  quality,
	}
}
