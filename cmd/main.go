package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/songrec/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	app := newApp(NewRunner(RunnerOpts{Logger: logger}))

	if err := app.Run(context.Background(), os.Args); err != nil {
		code := exitCode(err)
		if code != 2 {
			logger.Errorf("application error: %v", err)
		}
		os.Exit(code)
	}
}

// exitCode is 2 for input the pipeline rejected, which has already been rendered, and 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrInvalidSong), errors.Is(err, shared.ErrEmptyInput):
		return 2
	default:
		return 1
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songrec",
		Usage:   "Validate a song and recommend similar ones with confirmed video links",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); overrides the config file",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}
