package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/songrec/internal/formatter"
	"github.com/desertthunder/songrec/internal/models"
	"github.com/desertthunder/songrec/internal/shared"
	"github.com/desertthunder/songrec/internal/tasks"
	"github.com/desertthunder/songrec/internal/ui"
	"github.com/urfave/cli/v3"
)

// Recommend runs the full pipeline for one input and prints the outcome.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("input")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	format := cmd.String("format")
	outputPath := cmd.String("output")

	orchestrator, err := r.pipeline(ctx)
	if err != nil {
		return err
	}

	var progressCh chan tasks.ProgressUpdate
	printerDone := make(chan struct{})
	if !useJSON && !cmd.Bool("quiet") {
		progressCh = make(chan tasks.ProgressUpdate, 50)
		go func() {
			defer close(printerDone)
			for update := range progressCh {
				r.writePlain("%s\n", ui.RenderProgress(update))
			}
		}()
	} else {
		close(printerDone)
	}

	r.logger.Info("recommending", "input", input)
	outcome := orchestrator.Handle(ctx, input, progressCh)
	if progressCh != nil {
		close(progressCh)
	}
	<-printerDone

	if useJSON {
		if err := r.writeJSON(outcome.Body(), pretty); err != nil {
			return err
		}
		return outcome.Err
	}

	if outcome.Set == nil {
		r.writePlain("\n%s", ui.RenderFailure(outcome.Failure))
		return outcome.Err
	}

	if outputPath != "" {
		if err := formatter.WriteExport(outcome.Set, format, outputPath); err != nil {
			return err
		}
		r.logger.Info("recommendations written", "path", outputPath, "format", format)
		return nil
	}

	if strings.EqualFold(format, formatter.FormatText) {
		return r.writePlain("\n%s", ui.RenderSet(outcome.Set))
	}

	data, err := formatter.Export(outcome.Set, format, pretty)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// Validate runs only the validation step.
func (r *Runner) Validate(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("input")
	if models.SongQuery(input).Blank() {
		return fmt.Errorf("%w: input", shared.ErrMissingArgument)
	}

	orchestrator, err := r.pipeline(ctx)
	if err != nil {
		return err
	}

	result, err := orchestrator.Validator().Validate(ctx, input)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if result.IsValid {
		r.writePlain("✓ Valid")
	} else {
		r.writePlain("✗ Invalid: %s", result.Reason)
	}
	if result.Song != nil {
		r.writePlain(" (%s)", result.Song.Label())
	}
	return r.writePlain("\n")
}

// Suggest runs only the suggestion step.
func (r *Runner) Suggest(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("input")
	if models.SongQuery(input).Blank() {
		return fmt.Errorf("%w: input", shared.ErrMissingArgument)
	}

	orchestrator, err := r.pipeline(ctx)
	if err != nil {
		return err
	}

	suggestions := orchestrator.Suggester().Suggest(ctx, input)
	if cmd.Bool("json") {
		return r.writeJSON(suggestions, false)
	}

	if len(suggestions) == 0 {
		return r.writePlain("No suggestions for %q\n", input)
	}
	for i, s := range suggestions {
		r.writePlain("%d. %s\n", i+1, s)
	}
	return nil
}

// resolveResult is the JSON shape printed by Resolve.
type resolveResult struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	VideoURL  string `json:"videoUrl"`
	Confirmed bool   `json:"confirmed"`
}

// Resolve finds and confirms a video link for one song.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	artist := cmd.StringArg("artist")
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	orchestrator, err := r.pipeline(ctx)
	if err != nil {
		return err
	}

	link := orchestrator.Resolver().Resolve(ctx, title, artist)
	result := resolveResult{Title: title, Artist: artist, VideoURL: link, Confirmed: link != models.UnresolvedVideoURL}

	if cmd.Bool("open") {
		target := link
		if !result.Confirmed {
			target = formatter.SearchURL(title, artist)
		}
		if err := shared.OpenLink(target); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, false)
	}
	if !result.Confirmed {
		return r.writePlain("✗ No confirmed video, try %s\n", formatter.SearchURL(title, artist))
	}
	return r.writePlain("✓ %s\n", link)
}
