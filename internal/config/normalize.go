package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAuth()
	c.normalizeTranscriber()
	c.normalizeDrafter()
	c.normalizeEmail()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AudioDir) == "" {
		c.Paths.AudioDir = defaultAudioDir
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAuth() {
	c.Auth.OwnerID = strings.TrimSpace(c.Auth.OwnerID)
	if c.Auth.OwnerID == "" {
		if value, ok := os.LookupEnv("ACTAS_OWNER_ID"); ok {
			c.Auth.OwnerID = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.APIKey = strings.TrimSpace(c.Transcriber.APIKey)
	if c.Transcriber.APIKey == "" {
		if value, ok := os.LookupEnv("ACTAS_TRANSCRIBER_API_KEY"); ok {
			c.Transcriber.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Transcriber.APIKey = strings.TrimSpace(value)
		}
	}
	c.Transcriber.BaseURL = strings.TrimSpace(c.Transcriber.BaseURL)
	if c.Transcriber.BaseURL == "" {
		c.Transcriber.BaseURL = defaultTranscriberBaseURL
	}
	c.Transcriber.Model = strings.TrimSpace(c.Transcriber.Model)
	if c.Transcriber.Model == "" {
		c.Transcriber.Model = defaultTranscriberModel
	}
	c.Transcriber.Language = strings.ToLower(strings.TrimSpace(c.Transcriber.Language))
	if c.Transcriber.Language == "" {
		c.Transcriber.Language = defaultTranscriberLanguage
	}
	if c.Transcriber.TimeoutSeconds <= 0 {
		c.Transcriber.TimeoutSeconds = defaultTranscriberTimeoutSeconds
	}
}

func (c *Config) normalizeDrafter() {
	c.Drafter.APIKey = strings.TrimSpace(c.Drafter.APIKey)
	if c.Drafter.APIKey == "" {
		if value, ok := os.LookupEnv("ACTAS_DRAFTER_API_KEY"); ok {
			c.Drafter.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Drafter.APIKey = strings.TrimSpace(value)
		}
	}
	c.Drafter.BaseURL = strings.TrimSpace(c.Drafter.BaseURL)
	if c.Drafter.BaseURL == "" {
		c.Drafter.BaseURL = defaultDrafterBaseURL
	}
	c.Drafter.Model = strings.TrimSpace(c.Drafter.Model)
	if c.Drafter.Model == "" {
		c.Drafter.Model = defaultDrafterModel
	}
	c.Drafter.Referer = strings.TrimSpace(c.Drafter.Referer)
	c.Drafter.Title = strings.TrimSpace(c.Drafter.Title)
	if c.Drafter.Title == "" {
		c.Drafter.Title = defaultDrafterTitle
	}
	if c.Drafter.TimeoutSeconds <= 0 {
		c.Drafter.TimeoutSeconds = defaultDrafterTimeoutSeconds
	}
}

func (c *Config) normalizeEmail() {
	c.Email.Host = strings.TrimSpace(c.Email.Host)
	c.Email.Username = strings.TrimSpace(c.Email.Username)
	c.Email.From = strings.TrimSpace(c.Email.From)
	if c.Email.Password == "" {
		if value, ok := os.LookupEnv("ACTAS_SMTP_PASSWORD"); ok {
			c.Email.Password = value
		}
	}
	if c.Email.Port <= 0 {
		c.Email.Port = defaultEmailPort
	}
	if c.Email.TimeoutSeconds <= 0 {
		c.Email.TimeoutSeconds = defaultEmailTimeoutSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
