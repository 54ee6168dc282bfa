package validation

import (
	"regexp"

	"github.com/AlexTLDR/venue-selector/internal/config"
	"github.com/AlexTLDR/venue-selector/internal/utils"
)

// PhoneRule decides which phone numbers are acceptable and how they compare.
type PhoneRule struct {
	pattern *regexp.Regexp
	region  string
}

// NewPhoneRule returns a rule matching pattern. With a non-empty region the
// number must also be valid there, and numbers compare in E.164 form.
func NewPhoneRule(pattern *regexp.Regexp, region string) PhoneRule {
	if pattern == nil {
		pattern = regexp.MustCompile(config.DefaultPhonePattern)
	}
	return PhoneRule{pattern: pattern, region: region}
}

// DefaultPhoneRule accepts 555-0100 and 201-555-0100 style numbers.
func DefaultPhoneRule() PhoneRule {
	return NewPhoneRule(nil, "")
}

// Valid reports whether phone matches the pattern and, with a region set,
// is a valid number there.
func (r PhoneRule) Valid(phone string) bool {
	if !r.pattern.MatchString(phone) {
		return false
	}
	if r.region != "" {
		if _, err := utils.NormalizePhoneNumber(phone, r.region); err != nil {
			return false
		}
	}
	return true
}

// Canonical is the form stored and compared for duplicates.
func (r PhoneRule) Canonical(phone string) string {
	if r.region == "" {
		return phone
	}
	if normalized, err := utils.NormalizePhoneNumber(phone, r.region); err == nil {
		return normalized
	}
	return phone
}
