package questions

import (
	_ "embed"
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"peerprep/interview/internal/models"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed bank.yaml
var bankYAML []byte

type bankEntry struct {
	Prompt   string   `yaml:"prompt"`
	Keywords []string `yaml:"keywords"`
}

// Bank is the local question set used when remote generation is unavailable
type Bank struct {
	tiers map[models.Difficulty][]bankEntry
}

// NewBank loads the embedded bank and checks every tier can fill a session
func NewBank() (*Bank, error) {
	return parseBank(bankYAML)
}

func parseBank(data []byte) (*Bank, error) {
	var raw map[string][]bankEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	b := &Bank{tiers: make(map[models.Difficulty][]bankEntry)}
	for _, d := range models.Difficulties() {
		entries := raw[string(d)]
		if len(entries) < models.QuestionsPerTier {
			return nil, fmt.Errorf("question bank: tier %s has %d questions, need %d", d, len(entries), models.QuestionsPerTier)
		}
		b.tiers[d] = entries
	}
	return b, nil
}

// Pick draws two distinct questions per tier, easy first. The draw is
// deterministic for a given seed so a candidate always sees the same set.
func (b *Bank) Pick(seed string) []models.InterviewQuestion {
	rng := rand.New(rand.NewPCG(seedOf(seed), uint64(len(seed))))

	out := make([]models.InterviewQuestion, 0, models.QuestionsPerSession)
	for _, d := range models.Difficulties() {
		entries := b.tiers[d]
		for _, idx := range rng.Perm(len(entries))[:models.QuestionsPerTier] {
			e := entries[idx]
			out = append(out, models.InterviewQuestion{
				ID:               uuid.NewString(),
				Prompt:           e.Prompt,
				Difficulty:       d,
				ExpectedKeywords: capKeywords(e.Keywords),
			})
		}
	}
	return out
}

func seedOf(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
