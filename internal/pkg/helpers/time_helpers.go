package helpers

import (
	"time"

	"github.com/yigit/campusfeedback/internal/pkg/logger"
)

// ParseDuration returns fallback for an empty or malformed value.
// Non-positive durations are rejected too: every caller uses the result as a TTL.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return d
}
