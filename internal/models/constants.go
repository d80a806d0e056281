package models

import "time"

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the tiers in the order questions are asked
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// allotted answer time per tier
var QuestionTimings = map[Difficulty]time.Duration{
	Easy:   20 * time.Second,
	Medium: 60 * time.Second,
	Hard:   120 * time.Second,
}

// points a perfect answer is worth per tier
var BasePoints = map[Difficulty]int{
	Easy:   10,
	Medium: 20,
	Hard:   30,
}

// AllottedTime returns the answer window for a difficulty, falling back to the easy window
func AllottedTime(d Difficulty) time.Duration {
	if t, ok := QuestionTimings[d]; ok {
		return t
	}
	return QuestionTimings[Easy]
}

const (
	QuestionsPerTier    = 2
	QuestionsPerSession = QuestionsPerTier * 3
	MaxExpectedKeywords = 6
)

// Status is the lifecycle state of a candidate interview
type Status string

const (
	StatusCollecting    Status = "collecting"
	StatusAwaitingStart Status = "awaiting-start"
	StatusInProgress    Status = "in-progress"
	StatusPaused        Status = "paused"
	StatusCompleted     Status = "completed"
)

var statusTransitions = map[Status][]Status{
	StatusCollecting:    {StatusAwaitingStart},
	StatusAwaitingStart: {StatusInProgress},
	StatusInProgress:    {StatusPaused, StatusCompleted},
	StatusPaused:        {StatusInProgress},
	StatusCompleted:     {},
}

// CanTransition reports whether moving from one status to another is allowed.
// Re-entering the current status is treated as a no-op and allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Sender string

const (
	SenderAssistant Sender = "assistant"
	SenderCandidate Sender = "candidate"
	SenderSystem    Sender = "system"
)

func (s Sender) Valid() bool {
	switch s {
	case SenderAssistant, SenderCandidate, SenderSystem:
		return true
	}
	return false
}

type MessageKind string

const (
	KindInfo     MessageKind = "info"
	KindQuestion MessageKind = "question"
	KindAnswer   MessageKind = "answer"
	KindSummary  MessageKind = "summary"
	KindSystem   MessageKind = "system"
)

func (k MessageKind) Valid() bool {
	switch k {
	case KindInfo, KindQuestion, KindAnswer, KindSummary, KindSystem:
		return true
	}
	return false
}

// ProfileField names one of the identity fields collected before the interview
type ProfileField string

const (
	FieldName  ProfileField = "name"
	FieldEmail ProfileField = "email"
	FieldPhone ProfileField = "phone"
)

// RequiredFields is the order in which missing fields are requested
func RequiredFields() []ProfileField {
	return []ProfileField{FieldName, FieldEmail, FieldPhone}
}

func (f ProfileField) Valid() bool {
	switch f {
	case FieldName, FieldEmail, FieldPhone:
		return true
	}
	return false
}

// dashboard sort orders
const (
	SortScoreDesc = "score-desc"
	SortScoreAsc  = "score-asc"
	SortRecent    = "recent"
)

var ValidSortOrders = map[string]bool{
	SortScoreDesc: true,
	SortScoreAsc:  true,
	SortRecent:    true,
}
