package models

import "strings"

type ProfileRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// implements the Validator interface
func (r *ProfileRequest) Validate() error {
	r.Field = strings.ToLower(strings.TrimSpace(r.Field))
	if r.Field == "" {
		return &ErrorResponse{Code: "missing_field", Message: "field is required"}
	}
	if !ProfileField(r.Field).Valid() {
		return &ErrorResponse{
			Code:    "invalid_field",
			Message: "field must be one of name/email/phone",
		}
	}
	// empty values are rejected by the interview itself so the candidate sees the message
	return nil
}

// MaxResponseLength caps a single answer body in bytes
const MaxResponseLength = 20000

// AnswerRequest names the question it answers so a submit that lost the race
// against the question's timer is dropped instead of landing on the next one.
type AnswerRequest struct {
	QuestionID    string `json:"question_id"`
	Response      string `json:"response"`
	AutoSubmitted bool   `json:"auto_submitted"`
}

func (r *AnswerRequest) Validate() error {
	r.QuestionID = strings.TrimSpace(r.QuestionID)
	if r.QuestionID == "" {
		return &ErrorResponse{
			Code:    "missing_question_id",
			Message: "question_id is required",
			Details: []ValidationErrorDetail{{Field: "question_id", Reason: "required"}},
		}
	}
	if len(r.Response) > MaxResponseLength {
		return &ErrorResponse{
			Code:    "response_too_long",
			Message: "response exceeds the maximum length",
			Details: []ValidationErrorDetail{{Field: "response", Reason: "too_long"}},
		}
	}
	return nil
}

type SelectActiveRequest struct {
	CandidateID string `json:"candidate_id"`
}

func (r *SelectActiveRequest) Validate() error {
	r.CandidateID = strings.TrimSpace(r.CandidateID)
	return nil
}
