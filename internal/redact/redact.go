package redact

import (
	"regexp"

	"github.com/dshills/intake/internal/field"
)

const redacted = "[REDACTED]"

// patterns holds single-line PII-detection regexes in priority order.
var patterns = []*regexp.Regexp{
	// Social Security numbers, with or without dashes
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b|\b\d{9}\b`),
	// US phone numbers
	regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\b\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`),
	// Email addresses
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	// Dates such as a date of birth
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/(?:19|20)\d{2}\b`),
}

// sensitive lists answers that are never shown outside the applicant's record.
var sensitive = map[string]bool{
	field.SocialSecurityNumberField.Name: true,
	field.LastFourOfSocial.Name:          true,
	field.DateOfBirthField.Name:          true,
	field.PhoneNumberField.Name:          true,
	field.AlternatePhoneNumberField.Name: true,
	field.EmailField.Name:                true,
	field.AddressField.Name:              true,
	field.DriverLicenseOrIDNumber.Name:   true,
	field.PFNNumber.Name:                 true,
	field.CaseNumber.Name:                true,
}

// Redact replaces phone numbers, SSNs, emails and dates in input with
// [REDACTED]. Line structure is preserved.
func Redact(input string) string {
	for _, re := range patterns {
		input = re.ReplaceAllString(input, redacted)
	}
	return input
}

// Answers returns a copy of a safe to log: sensitive answers are replaced
// outright and free-text answers are scrubbed.
func Answers(a field.Answers) map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		if sensitive[k] {
			out[k] = redacted
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = Redact(s)
			continue
		}
		out[k] = v
	}
	return out
}
