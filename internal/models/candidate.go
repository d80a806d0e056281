package models

import "time"

// CandidateProfile holds the identity fields collected before the interview
type CandidateProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	ResumeText string `json:"resume_text,omitempty"`
	FileName   string `json:"file_name,omitempty"`
	FileType   string `json:"file_type,omitempty"`
}

// Field returns the stored value of a profile field
func (p CandidateProfile) Field(f ProfileField) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldEmail:
		return p.Email
	case FieldPhone:
		return p.Phone
	}
	return ""
}

// SetField stores a profile field value, ignoring unknown fields
func (p *CandidateProfile) SetField(f ProfileField, value string) {
	switch f {
	case FieldName:
		p.Name = value
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	}
}

type ChatMessage struct {
	ID        string      `json:"id"`
	Sender    Sender      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Content   string      `json:"content"`
	Kind      MessageKind `json:"kind"`
}

type InterviewQuestion struct {
	ID               string     `json:"id"`
	Prompt           string     `json:"prompt"`
	Difficulty       Difficulty `json:"difficulty"`
	ExpectedKeywords []string   `json:"expected_keywords,omitempty"`
}

type AnswerRecord struct {
	QuestionID    string        `json:"question_id"`
	Response      string        `json:"response"`
	Elapsed       time.Duration `json:"elapsed"`
	AutoSubmitted bool          `json:"auto_submitted"`
	SubmittedAt   time.Time     `json:"submitted_at"`
	Score         int           `json:"score"`
	Rationale     string        `json:"rationale"`
}

// ActiveTimerState is the countdown for the current question. While paused,
// StartedAt is nil and RemainingOnPause carries the time left.
type ActiveTimerState struct {
	QuestionID       string         `json:"question_id"`
	StartedAt        *time.Time     `json:"started_at,omitempty"`
	Duration         time.Duration  `json:"duration"`
	RemainingOnPause *time.Duration `json:"remaining_on_pause,omitempty"`
	Paused           bool           `json:"paused"`
}

type CandidateInterview struct {
	Status               Status              `json:"status"`
	StartedAt            *time.Time          `json:"started_at,omitempty"`
	CompletedAt          *time.Time          `json:"completed_at,omitempty"`
	CurrentQuestionIndex int                 `json:"current_question_index"`
	Questions            []InterviewQuestion `json:"questions"`
	Answers              []AnswerRecord      `json:"answers"`
	ActiveTimer          *ActiveTimerState   `json:"active_timer,omitempty"`
}

// NewInterview returns a fresh interview waiting on profile collection
func NewInterview() CandidateInterview {
	return CandidateInterview{
		Status:    StatusCollecting,
		Questions: []InterviewQuestion{},
		Answers:   []AnswerRecord{},
	}
}

type CandidateSummary struct {
	OverallScore     int      `json:"overall_score"`
	Strengths        []string `json:"strengths"`
	ImprovementAreas []string `json:"improvement_areas"`
	FinalRemark      string   `json:"final_remark"`
}

// CandidateRecord is the aggregate root for one candidate's session
type CandidateRecord struct {
	ID          string             `json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Profile     CandidateProfile   `json:"profile"`
	Interview   CandidateInterview `json:"interview"`
	ChatHistory []ChatMessage      `json:"chat_history"`
	Summary     *CandidateSummary  `json:"summary,omitempty"`
}

// Clone returns a deep copy so callers never share slices or pointers with the repository
func (r *CandidateRecord) Clone() *CandidateRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Interview = r.Interview.Clone()
	out.ChatHistory = append([]ChatMessage(nil), r.ChatHistory...)
	if out.ChatHistory == nil {
		out.ChatHistory = []ChatMessage{}
	}
	if r.Summary != nil {
		s := *r.Summary
		s.Strengths = append([]string(nil), r.Summary.Strengths...)
		s.ImprovementAreas = append([]string(nil), r.Summary.ImprovementAreas...)
		out.Summary = &s
	}
	return &out
}

func (iv CandidateInterview) Clone() CandidateInterview {
	out := iv
	out.StartedAt = cloneTime(iv.StartedAt)
	out.CompletedAt = cloneTime(iv.CompletedAt)
	out.Questions = make([]InterviewQuestion, len(iv.Questions))
	for i, q := range iv.Questions {
		q.ExpectedKeywords = append([]string(nil), q.ExpectedKeywords...)
		out.Questions[i] = q
	}
	out.Answers = append([]AnswerRecord{}, iv.Answers...)
	out.ActiveTimer = iv.ActiveTimer.Clone()
	return out
}

func (t *ActiveTimerState) Clone() *ActiveTimerState {
	if t == nil {
		return nil
	}
	out := *t
	out.StartedAt = cloneTime(t.StartedAt)
	if t.RemainingOnPause != nil {
		d := *t.RemainingOnPause
		out.RemainingOnPause = &d
	}
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// MissingFields lists the unset identity fields in the order they are requested
func MissingFields(p CandidateProfile) []ProfileField {
	missing := []ProfileField{}
	for _, f := range RequiredFields() {
		if p.Field(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// CurrentQuestion returns the question at the current index, if any
func CurrentQuestion(r *CandidateRecord) (InterviewQuestion, bool) {
	if r == nil {
		return InterviewQuestion{}, false
	}
	idx := r.Interview.CurrentQuestionIndex
	if idx < 0 || idx >= len(r.Interview.Questions) {
		return InterviewQuestion{}, false
	}
	return r.Interview.Questions[idx], true
}

type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

func InterviewProgress(r *CandidateRecord) Progress {
	if r == nil {
		return Progress{}
	}
	return Progress{
		Answered: len(r.Interview.Answers),
		Total:    len(r.Interview.Questions),
	}
}
