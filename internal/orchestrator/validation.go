package orchestrator

import (
	"fmt"
	"regexp"
	"strings"

	"peerprep/interview/internal/models"
)

var (
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigit   = regexp.MustCompile(`\D`)
)

const minPhoneDigits = 10

// validateField trims and checks a profile value, returning the value to store
func validateField(field models.ProfileField, value string) (string, *models.ValidationError) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &models.ValidationError{Field: field, Message: fmt.Sprintf("Please provide a valid %s.", field)}
	}

	switch field {
	case models.FieldEmail:
		if !emailShape.MatchString(trimmed) {
			return "", &models.ValidationError{Field: field, Message: msgInvalidEmail}
		}
	case models.FieldPhone:
		if len(nonDigit.ReplaceAllString(trimmed, "")) < minPhoneDigits {
			return "", &models.ValidationError{Field: field, Message: msgInvalidPhone}
		}
	case models.FieldName:
		if len(strings.Fields(trimmed)) < 2 {
			return "", &models.ValidationError{Field: field, Message: msgInvalidName}
		}
	}
	return trimmed, nil
}
