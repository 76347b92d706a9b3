package main

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/songrec/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigInit writes the default configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if _, err := os.Stat(path); err == nil {
		if !cmd.Bool("force") {
			return fmt.Errorf("%w: %s already exists (use --force to overwrite)", shared.ErrInvalidInput, path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to replace %s: %w", path, err)
		}
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("wrote configuration", "path", path)
	return r.writePlain("Configuration written to %s\nSet model.api_key or %s before running recommend or serve.\n", path, shared.APIKeyEnv)
}

// ConfigShow prints the effective configuration as TOML with the API key redacted.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	config := *r.config
	if config.Model.APIKey != "" {
		config.Model.APIKey = "<redacted>"
	}

	if r.configPath != "" {
		r.writePlain("# %s\n", r.configPath)
	}
	if err := toml.NewEncoder(r.output).Encode(config); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return nil
}
