package resume

import (
	"regexp"
	"strings"
)

// only the top of a resume is searched for the candidate's name
const nameSearchLines = 10

var (
	nameLine     = regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z][a-z]+){0,3}$`)
	anyDigit     = regexp.MustCompile(`\d`)
	emailPattern = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[\s-]?)?(\(?\d{3}\)?[\s-]?){2}\d{4}`)
	phoneNoise   = regexp.MustCompile(`[\s()-]`)
	tenDigits    = regexp.MustCompile(`^\d{10}$`)
)

// ExtractFields finds the name, email and phone in resume text. Missing fields are empty.
func ExtractFields(text string) Parsed {
	flat := strings.Join(strings.Fields(text), " ")
	return Parsed{
		Name:  extractName(text),
		Email: emailPattern.FindString(flat),
		Phone: extractPhone(flat),
	}
}

func extractName(text string) string {
	seen := 0
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if seen++; seen > nameSearchLines {
			break
		}
		if strings.Contains(line, "@") || anyDigit.MatchString(line) {
			continue
		}
		if nameLine.MatchString(line) {
			return line
		}
	}
	return ""
}

func extractPhone(text string) string {
	match := phonePattern.FindString(text)
	if match == "" {
		return ""
	}
	phone := phoneNoise.ReplaceAllString(match, "")
	if tenDigits.MatchString(phone) {
		phone = "+1" + phone
	}
	return phone
}
