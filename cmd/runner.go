package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songrec/internal/server"
	"github.com/desertthunder/songrec/internal/services"
	"github.com/desertthunder/songrec/internal/shared"
	"github.com/desertthunder/songrec/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The model and confirmer are built from the configuration on first use unless injected,
// so commands that never reach the pipeline work without credentials.
type Runner struct {
	config     *shared.Config
	configPath string
	model      services.TextModel
	confirmer  services.LinkConfirmer
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	metrics    *server.Metrics

	once         sync.Once
	orchestrator *tasks.Orchestrator
	buildErr     error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Model      services.TextModel
	Confirmer  services.LinkConfirmer
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		model:      opts.Model,
		confirmer:  opts.Confirmer,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		metrics:    server.NewMetrics(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, recommendCommand, validateCommand, suggestCommand, resolveCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the configuration named by --config.
//
// The default path may be absent, in which case built-in defaults apply. An explicitly
// requested file must exist.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if err := r.loadConfig(path, cmd.IsSet("config")); err != nil {
		return ctx, err
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))
	return ctx, nil
}

func (r *Runner) loadConfig(path string, required bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if required {
			return fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}
		r.logger.Debug("no config file, using defaults", "path", path)
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	r.config = config
	r.configPath = path
	return nil
}

// pipeline returns the orchestrator, building the model and confirmer from the configuration if needed.
func (r *Runner) pipeline(ctx context.Context) (*tasks.Orchestrator, error) {
	r.once.Do(func() {
		model := r.model
		if model == nil {
			apiKey, err := r.config.ResolveAPIKey()
			if err != nil {
				r.buildErr = err
				return
			}
			gemini, err := services.NewGeminiService(ctx, services.GeminiOpts{
				APIKey:     apiKey,
				Model:      r.config.Model.Name,
				BaseURL:    r.config.Model.BaseURL,
				HTTPClient: r.httpClient,
			})
			if err != nil {
				r.buildErr = err
				return
			}
			model = gemini
		}

		confirmer := r.confirmer
		if confirmer == nil {
			confirmer = services.NewYouTubeService(r.config.Lookup.OEmbedURL, &http.Client{
				Transport: r.httpClient.Transport,
				Timeout:   r.config.Lookup.Timeout(),
			})
		}

		r.logger.Debug("pipeline ready", "model", model.Name())
		r.orchestrator = tasks.NewOrchestrator(model, confirmer, tasks.Options{
			RecommendationCount: r.config.Pipeline.RecommendationCount,
			SuggestionCount:     r.config.Pipeline.SuggestionCount,
			MaxConcurrency:      r.config.Pipeline.MaxConcurrency,
			RequestTimeout:      r.config.Pipeline.RequestTimeout(),
			OnResolved:          r.metrics.RecordResolution,
			Logger:              r.logger,
		})
	})
	return r.orchestrator, r.buildErr
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
