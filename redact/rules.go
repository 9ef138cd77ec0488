// Package redact provides a reusable redaction layer for sanitizing secrets
// and guest PII from core.Conversation values.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule detects sensitive data in a string and provides a replacement.
type Rule interface {
	Name() string
	Kind() string
	Detect(s string) []Match
	Replacement(m Match) string
}

// Match represents a detected occurrence within a string.
type Match struct {
	Start int
	End   int
	Value string
}

// Rule kinds.
const (
	KindSecret = "secret"
	KindPII    = "pii"
)

type regexRule struct {
	name    string
	kind    string
	pattern *regexp.Regexp
	// valid, when set, filters candidate matches.
	valid func(string) bool
}

func (r *regexRule) Name() string { return r.name }
func (r *regexRule) Kind() string { return r.kind }

func (r *regexRule) Detect(s string) []Match {
	locs := r.pattern.FindAllStringIndex(s, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		v := s[loc[0]:loc[1]]
		if r.valid != nil && !r.valid(v) {
			continue
		}
		matches = append(matches, Match{Start: loc[0], End: loc[1], Value: v})
	}
	return matches
}

func (r *regexRule) Replacement(_ Match) string {
	return fmt.Sprintf("[REDACTED:%s]", r.name)
}

// SecretRules returns the built-in secret detection rules.
func SecretRules() []Rule {
	return []Rule{
		&regexRule{
			name:    "jwt",
			kind:    KindSecret,
			pattern: regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_.+/=]+`),
		},
		&regexRule{
			name:    "bearer_token",
			kind:    KindSecret,
			pattern: regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-_.~+/]{20,}=*`),
		},
		&regexRule{
			name:    "api_key",
			kind:    KindSecret,
			pattern: regexp.MustCompile(`(?:sk-[a-zA-Z0-9\-_]{32,}|rzp_(?:live|test)_[a-zA-Z0-9]{14,}|pk_(?:live|test)_[a-zA-Z0-9]{24,})`),
		},
		&regexRule{
			name:    "aws_key",
			kind:    KindSecret,
			pattern: regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		},
		&regexRule{
			name:    "connection_string",
			kind:    KindSecret,
			pattern: regexp.MustCompile(`(?:postgres|mongodb(?:\+srv)?|mysql|redis)://[^\s"'` + "`" + `]+`),
		},
	}
}

// PIIRules returns the built-in guest PII detection rules.
func PIIRules() []Rule {
	return []Rule{
		&regexRule{
			name:    "email",
			kind:    KindPII,
			pattern: regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		},
		&regexRule{
			name:    "card_number",
			kind:    KindPII,
			pattern: regexp.MustCompile(`\b(?:\d[ \-]?){12,18}\d\b`),
			valid:   luhnValid,
		},
		&regexRule{
			name:    "phone",
			kind:    KindPII,
			pattern: regexp.MustCompile(`(?:\+91[\s\-]?)?\b[6-9]\d{4}[\s\-]?\d{5}\b|(?:\+\d{1,3}[\s\-]?)?\(?\d{3}\)?[\s\-]?\d{3}[\s\-]?\d{4}`),
		},
		&regexRule{
			name:    "ipv4",
			kind:    KindPII,
			pattern: regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`),
		},
	}
}

// luhnValid reports whether the digits in s pass the Luhn checksum.
func luhnValid(s string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) < 13 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
