package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"comicgen/internal/comicdate"
	"comicgen/internal/config"
	"comicgen/internal/logging"
)

type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.flags != nil {
			path = strings.TrimSpace(c.flags.config)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyLogOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyLogOverrides(cfg *config.Config) error {
	if c.flags == nil {
		return nil
	}
	if level := strings.ToLower(strings.TrimSpace(c.flags.logLevel)); level != "" {
		switch level {
		case "debug", "info", "warn", "warning", "error":
			cfg.Logging.Level = level
		default:
			return fmt.Errorf("--log-level: unsupported value %q", c.flags.logLevel)
		}
	}
	if format := strings.ToLower(strings.TrimSpace(c.flags.logFormat)); format != "" {
		switch format {
		case "console", "json":
			cfg.Logging.Format = format
		default:
			return fmt.Errorf("--log-format: unsupported value %q", c.flags.logFormat)
		}
	}
	return nil
}

// newLogger builds a run-scoped logger writing to the command's stderr and
// the state directory log file.
func (c *commandContext) newLogger(cmd *cobra.Command, runID string) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var console io.Writer = cmd.ErrOrStderr()
	logger, err := logging.NewFromConfig(cfg, runID, console)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// parseCutoffArg reads the optional YYYY-MM-DD cutoff positional argument.
func parseCutoffArg(args []string) (*comicdate.Date, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, nil
	}
	d, err := comicdate.ParseISO(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cutoff date %q (expected YYYY-MM-DD): %w", args[0], err)
	}
	return &d, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
