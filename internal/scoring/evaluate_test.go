package scoring

import (
	"strings"
	"testing"
	"time"

	"peerprep/interview/internal/models"
)

func TestEvaluateKeywordExample(t *testing.T) {
	q := models.InterviewQuestion{
		ID:               "q1",
		Difficulty:       models.Medium,
		ExpectedKeywords: []string{"cache", "Redis"},
	}

	got := Evaluate(q, "we use Redis as a cache with TTL eviction", 30*time.Second, false)

	if got.Score != 13 {
		t.Fatalf("expected score 13, got %d", got.Score)
	}
	if got.Coverage != 1 {
		t.Fatalf("expected full coverage, got %v", got.Coverage)
	}
	if got.LengthQuality != LengthShort {
		t.Fatalf("expected short answer, got %s", got.LengthQuality)
	}
	want := "Covered keywords: cache, Redis Answer felt brief; add more depth next time."
	if got.Rationale != want {
		t.Fatalf("unexpected rationale %q", got.Rationale)
	}
}

func TestEvaluateEmptyOrAutoSubmitted(t *testing.T) {
	q := models.InterviewQuestion{Difficulty: models.Hard, ExpectedKeywords: []string{"x"}}

	for _, tc := range []struct {
		name     string
		response string
		auto     bool
	}{
		{"whitespace", "   \n", false},
		{"auto submitted", "some partial answer", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(q, tc.response, time.Minute, tc.auto)
			if got.Score != 0 || got.Rationale != RationaleNoAnswer {
				t.Fatalf("expected zero score with fixed rationale, got %+v", got)
			}
		})
	}
}

func TestEvaluateWithoutKeywords(t *testing.T) {
	q := models.InterviewQuestion{Difficulty: models.Easy}
	answer := strings.Repeat("word ", 40)

	got := Evaluate(q, answer, 40*time.Second, false)

	// 10 * (0.5 + 0.5*0.4 + 1*0.1) * 1 = 8
	if got.Score != 8 {
		t.Fatalf("expected score 8, got %d", got.Score)
	}
	if got.Coverage != 0.5 {
		t.Fatalf("expected neutral coverage, got %v", got.Coverage)
	}
	if got.Rationale != rationaleSolid {
		t.Fatalf("expected solid rationale, got %q", got.Rationale)
	}
}

func TestEvaluateMissedKeywordsLongAnswer(t *testing.T) {
	q := models.InterviewQuestion{Difficulty: models.Hard, ExpectedKeywords: []string{"sharding"}}
	answer := strings.Repeat("lorem ", 200)

	got := Evaluate(q, answer, 0, false)

	// 30 * 0.5 * 0.85 = 12.75
	if got.Score != 13 {
		t.Fatalf("expected score 13, got %d", got.Score)
	}
	if got.LengthQuality != LengthLong {
		t.Fatalf("expected long answer, got %s", got.LengthQuality)
	}
	if got.Rationale != rationaleMissed+" "+rationaleLong {
		t.Fatalf("unexpected rationale %q", got.Rationale)
	}
}

func TestEvaluateNormalisesPunctuation(t *testing.T) {
	q := models.InterviewQuestion{Difficulty: models.Easy, ExpectedKeywords: []string{"useEffect", "Node.js"}}

	got := Evaluate(q, "I call USEEFFECT, then run node-js scripts", 5*time.Second, false)

	if len(got.KeywordMatches) != 2 {
		t.Fatalf("expected both keywords to match, got %v", got.KeywordMatches)
	}
	if got.KeywordMatches[1] != "Node.js" {
		t.Fatalf("matches should report the original keyword text, got %v", got.KeywordMatches)
	}
}

func TestEvaluateDurationCapped(t *testing.T) {
	q := models.InterviewQuestion{Difficulty: models.Easy}
	capped := Evaluate(q, "short", time.Hour, false)
	exact := Evaluate(q, "short", 20*time.Second, false)
	if capped.Score != exact.Score {
		t.Fatalf("duration ratio should cap at 1: %d vs %d", capped.Score, exact.Score)
	}
}
