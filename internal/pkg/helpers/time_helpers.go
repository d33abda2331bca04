package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a config duration such as "10s". Empty, malformed or
// non-positive values yield fallback.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return d
}
