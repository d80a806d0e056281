package models

import "time"

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// TimerView is the live countdown of the active question
type TimerView struct {
	QuestionID  string `json:"question_id"`
	RemainingMs int64  `json:"remaining_ms"`
	DurationMs  int64  `json:"duration_ms"`
	Paused      bool   `json:"paused"`
}

// SessionResponse wraps a record with its derived views
type SessionResponse struct {
	Record          *CandidateRecord   `json:"record"`
	MissingFields   []ProfileField     `json:"missing_fields"`
	CurrentQuestion *InterviewQuestion `json:"current_question,omitempty"`
	Progress        Progress           `json:"progress"`
	Timer           *TimerView         `json:"timer,omitempty"`
	WelcomeBack     bool               `json:"welcome_back"`
}

// ProfileResponse is returned after a profile field submission
type ProfileResponse struct {
	SessionResponse
	Accepted bool                   `json:"accepted"`
	Error    *ValidationErrorDetail `json:"error,omitempty"`
}

// AnswerResponse is returned after an answer submission. Applied is false for
// a duplicate that changed nothing.
type AnswerResponse struct {
	SessionResponse
	Applied   bool   `json:"applied"`
	Score     *int   `json:"score,omitempty"`
	Rationale string `json:"rationale,omitempty"`
	Completed bool   `json:"completed"`
}

// DashboardRow is one candidate line in the observer listing
type DashboardRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Status      Status    `json:"status"`
	Score       *int      `json:"score,omitempty"`
	FinalRemark string    `json:"final_remark,omitempty"`
	Progress    Progress  `json:"progress"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DashboardResponse struct {
	Candidates []DashboardRow `json:"candidates"`
	Total      int            `json:"total"`
}

// GenerationResponse is the raw text produced by an LLM provider
type GenerationResponse struct {
	Content  string             `json:"content"`
	Metadata GenerationMetadata `json:"metadata"`
}

type GenerationMetadata struct {
	ProcessingTime int    `json:"processing_time_ms"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
}
