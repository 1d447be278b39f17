package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration shape. Collaborator API keys are checked at
// call time so read-only commands work without them.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir is required")
	}
	if c.Transcriber.TimeoutSeconds <= 0 {
		problems = append(problems, "transcriber.timeout_seconds must be positive")
	}
	if c.Drafter.TimeoutSeconds <= 0 {
		problems = append(problems, "drafter.timeout_seconds must be positive")
	}
	if c.Email.Enabled {
		if c.Email.Host == "" {
			problems = append(problems, "email.host is required when email is enabled")
		}
		if c.Email.From == "" {
			problems = append(problems, "email.from is required when email is enabled")
		}
		if c.Email.Port <= 0 || c.Email.Port > 65535 {
			problems = append(problems, fmt.Sprintf("email.port %d is out of range", c.Email.Port))
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		problems = append(problems, "notifications.request_timeout must be positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not console or json", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
