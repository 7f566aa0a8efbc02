// Package telemetry scrubs personal data from values before they reach logs or spans.
package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// PIILevel controls how much user content is written to logs.
type PIILevel string

const (
	PIILevelNone   PIILevel = "none"
	PIILevelHashed PIILevel = "hashed"
	PIILevelFull   PIILevel = "full"
)

const redacted = "[REDACTED]"

// maximum number of runes of message content kept in a log preview
const previewRunes = 64

type piiRule struct {
	label   string
	pattern *regexp.Regexp
	hashed  bool
}

// Sanitizer masks e-mail addresses, phone numbers and similar identifiers in free text.
type Sanitizer struct {
	level PIILevel
	salt  string
	rules []piiRule
}

// ParsePIILevel falls back to hashed for unknown values.
func ParsePIILevel(raw string) PIILevel {
	switch PIILevel(strings.ToLower(strings.TrimSpace(raw))) {
	case PIILevelNone:
		return PIILevelNone
	case PIILevelFull:
		return PIILevelFull
	default:
		return PIILevelHashed
	}
}

func NewSanitizer(level PIILevel, salt string) *Sanitizer {
	return &Sanitizer{
		level: level,
		salt:  salt,
		rules: []piiRule{
			{label: "EMAIL", pattern: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), hashed: true},
			{label: "CC", pattern: regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`)},
			{label: "SSN", pattern: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
			{label: "PHONE", pattern: regexp.MustCompile(`\+?\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`), hashed: true},
			{label: "IP", pattern: regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), hashed: true},
		},
	}
}

func (s *Sanitizer) Level() PIILevel {
	return s.level
}

// Content returns a log-safe preview of message text.
func (s *Sanitizer) Content(text string) string {
	switch s.level {
	case PIILevelFull:
		return preview(text)
	case PIILevelNone:
		return redacted
	default:
		return preview(s.mask(text))
	}
}

// Query sanitizes a search query. Queries are short so no preview truncation applies.
func (s *Sanitizer) Query(q string) string {
	switch s.level {
	case PIILevelFull:
		return q
	case PIILevelNone:
		return redacted
	default:
		return s.mask(q)
	}
}

// Email hashes an address entirely, since it is an identifier on its own.
func (s *Sanitizer) Email(email string) string {
	if email == "" {
		return ""
	}
	switch s.level {
	case PIILevelFull:
		return email
	case PIILevelNone:
		return redacted
	default:
		return "[EMAIL:" + s.hash(strings.ToLower(email)) + "]"
	}
}

func (s *Sanitizer) mask(text string) string {
	for _, rule := range s.rules {
		rule := rule
		text = rule.pattern.ReplaceAllStringFunc(text, func(match string) string {
			if rule.hashed {
				return "[" + rule.label + ":" + s.hash(match) + "]"
			}
			return "[" + rule.label + ":REDACTED]"
		})
	}
	return text
}

func (s *Sanitizer) hash(value string) string {
	sum := sha256.Sum256([]byte(value + s.salt))
	return hex.EncodeToString(sum[:])[:8]
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}
