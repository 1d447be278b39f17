package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"actas/internal/config"
	"actas/internal/logging"
	"actas/internal/meeting"
	"actas/internal/notifications"
	"actas/internal/pipeline"
	"actas/internal/services/drafter"
	"actas/internal/services/mailer"
	"actas/internal/services/transcriber"
)

type commandContext struct {
	configFlag *string
	ownerFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, ownerFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		ownerFlag:  ownerFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// ownerID resolves the acting owner for the invocation: the --owner flag
// wins, then auth.owner_id from config (which already folds in the
// ACTAS_OWNER_ID environment variable).
func (c *commandContext) ownerID() (string, error) {
	if c.ownerFlag != nil {
		if owner := strings.TrimSpace(*c.ownerFlag); owner != "" {
			return owner, nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Auth.OwnerID != "" {
		return cfg.Auth.OwnerID, nil
	}
	return "", errors.New("owner identity required: pass --owner, set auth.owner_id, or export ACTAS_OWNER_ID")
}

// withStore opens the meeting store for the duration of fn.
func (c *commandContext) withStore(fn func(*meeting.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := meeting.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withLockedStore additionally holds the data-dir lock so two concurrent
// invocations cannot interleave mutations.
func (c *commandContext) withLockedStore(fn func(*meeting.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "actas.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire data lock: %w", err)
	}
	if !ok {
		return errors.New("another actas command is already running against this data directory")
	}
	defer func() { _ = lock.Unlock() }()

	return c.withStore(fn)
}

// withPipeline builds the full pipeline with live collaborators.
func (c *commandContext) withPipeline(fn func(*pipeline.Pipeline, *config.Config) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	return c.withLockedStore(func(store *meeting.Store) error {
		p := pipeline.New(
			store,
			transcriber.NewClient(transcriber.Config{
				APIKey:         cfg.Transcriber.APIKey,
				BaseURL:        cfg.Transcriber.BaseURL,
				Model:          cfg.Transcriber.Model,
				Language:       cfg.Transcriber.Language,
				TimeoutSeconds: cfg.Transcriber.TimeoutSeconds,
			}),
			drafter.NewClient(drafter.Config{
				APIKey:         cfg.Drafter.APIKey,
				BaseURL:        cfg.Drafter.BaseURL,
				Model:          cfg.Drafter.Model,
				Referer:        cfg.Drafter.Referer,
				Title:          cfg.Drafter.Title,
				TimeoutSeconds: cfg.Drafter.TimeoutSeconds,
			}),
			mailer.NewClient(mailer.Config{
				Enabled:        cfg.Email.Enabled,
				Host:           cfg.Email.Host,
				Port:           cfg.Email.Port,
				Username:       cfg.Email.Username,
				Password:       cfg.Email.Password,
				From:           cfg.Email.From,
				TimeoutSeconds: cfg.Email.TimeoutSeconds,
			}),
			notifications.NewService(cfg),
			logger,
		)
		return fn(p, cfg)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
