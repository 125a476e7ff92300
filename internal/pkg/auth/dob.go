package auth

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yigit/campusfeedback/internal/pkg/apperrors"
)

// DOBLayout is the canonical date of birth format.
const DOBLayout = "2006-01-02"

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizeDOB rewrites a date of birth into YYYY-MM-DD. Accepted inputs are
// YYYY-MM-DD, YYYY/M/D and D-M-YYYY or D/M/YYYY; a four digit first part
// means year first, anything else is read day first.
func NormalizeDOB(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: date of birth is required", apperrors.ErrValidationFailed)
	}

	normalized := raw
	if !isoDate.MatchString(raw) {
		parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '-' || r == '/' })
		if len(parts) != 3 {
			return "", fmt.Errorf("%w: unrecognised date of birth %q", apperrors.ErrValidationFailed, raw)
		}
		if len(parts[0]) == 4 {
			normalized = parts[0] + "-" + pad2(parts[1]) + "-" + pad2(parts[2])
		} else {
			normalized = parts[2] + "-" + pad2(parts[1]) + "-" + pad2(parts[0])
		}
	}

	if _, err := time.Parse(DOBLayout, normalized); err != nil {
		return "", fmt.Errorf("%w: invalid date of birth %q", apperrors.ErrValidationFailed, raw)
	}
	return normalized, nil
}

// ParseDOB normalises and parses a date of birth into a UTC date.
func ParseDOB(raw string) (time.Time, error) {
	normalized, err := NormalizeDOB(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(DOBLayout, normalized)
}

// SameDOB reports whether a stored date and a user supplied string name the
// same calendar day.
func SameDOB(stored time.Time, input string) bool {
	normalized, err := NormalizeDOB(input)
	if err != nil {
		return false
	}
	return stored.Format(DOBLayout) == normalized
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
