package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target from environment variables using its env struct tags.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func positiveDuration(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

func positiveInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func nonEmpty(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
