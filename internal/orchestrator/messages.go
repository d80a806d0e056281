package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"peerprep/interview/internal/models"
)

const (
	msgReady         = "Great! We're ready to begin. Type 'start' or press the Start Interview button when you're ready."
	msgProfileReady  = "Awesome, we have everything we need. Type 'start' or hit the Start Interview button whenever you're ready!"
	msgStarting      = "Starting your timed interview now. You'll get six questions (2 easy, 2 medium, 2 hard). Take a deep breath and let's begin!"
	msgTimesUp       = "⏰ Time's up! Let's move to the next question."
	msgPaused        = "Interview paused. Resume when you are ready."
	msgResumed       = "Welcome back! Resuming the interview."
	msgInvalidEmail  = "The email you entered isn’t valid. Please check and enter it again."
	msgInvalidPhone  = "Please enter a phone number with at least 10 digits."
	msgInvalidName   = "Please enter full name"
	msgResumeSuccess = "Resume uploaded successfully."
)

func fieldLabel(f models.ProfileField) string {
	s := string(f)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func detectionMessage(p models.CandidateProfile) string {
	parts := []string{msgResumeSuccess}
	for _, f := range models.RequiredFields() {
		if v := p.Field(f); v != "" {
			parts = append(parts, fmt.Sprintf("%s detected: %s", fieldLabel(f), v))
		} else {
			parts = append(parts, fmt.Sprintf("%s missing in resume.", fieldLabel(f)))
		}
	}
	return strings.Join(parts, " ")
}

func missingFieldsPrompt(missing []models.ProfileField) string {
	labels := make([]string, len(missing))
	for i, f := range missing {
		labels[i] = fieldLabel(f)
	}
	return fmt.Sprintf("Before we begin, I need %s. Let's do it step by step - please provide your %s.",
		strings.Join(labels, ", "), missing[0])
}

func nextFieldPrompt(f models.ProfileField) string {
	return fmt.Sprintf("Thanks! Could you also share your %s?", f)
}

func questionMessage(index int, q models.InterviewQuestion) string {
	secs := int(models.AllottedTime(q.Difficulty) / time.Second)
	return fmt.Sprintf("Question %d (%s · %ds): %s", index+1, strings.ToUpper(string(q.Difficulty)), secs, q.Prompt)
}

func finalMessage(s models.CandidateSummary) string {
	return fmt.Sprintf("Interview complete! Final score: %d. %s", s.OverallScore, s.FinalRemark)
}
