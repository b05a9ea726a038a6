package config

import (
	"fmt"
	"strings"
)

// ConfigError aggregates configuration problems found during Load.
type ConfigError struct {
	Path    string   // config file path
	Missing []string // absent environment variables
	Errors  []string // everything else
}

func (e *ConfigError) Error() string {
	var parts []string

	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf(
			"missing environment variables: %s (set them in the shell or a .env file; see the README)",
			strings.Join(e.Missing, ", ")))
	}

	if len(e.Errors) > 0 {
		parts = append(parts, "invalid configuration:")
		for _, err := range e.Errors {
			parts = append(parts, fmt.Sprintf("  - %s", err))
		}
	}

	return strings.Join(parts, "\n")
}

// HasErrors returns true if there are any errors.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
