package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moodlist/internal/formatter"
	"github.com/desertthunder/moodlist/internal/repositories"
	"github.com/desertthunder/moodlist/internal/shared"
	"github.com/desertthunder/moodlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistCurate runs the curation pipeline for an explicit mood label,
// bypassing classification entirely.
func (r *Runner) PlaylistCurate(ctx context.Context, cmd *cli.Command) error {
	mood := cmd.StringArg("mood")
	if mood == "" {
		return fmt.Errorf("%w: mood label", shared.ErrMissingArgument)
	}

	r.logger.Info("starting curation", "mood", mood)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("  %s\n", update.Message)
		}
	}()

	result, err := r.engine.Curate(ctx, mood, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(result, true)
	case cmd.Bool("markdown"):
		return r.writePlain("%s", formatter.ResultToMarkdown(result))
	default:
		r.writePlainHeader("Curation Complete")
		return r.writePlain("%s", formatter.ResultToText(result))
	}
}

// PlaylistHistory lists recorded curation runs.
func (r *Runner) PlaylistHistory(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewRunRepository(db)
	runs, err := repo.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(runs, true)
	case cmd.Bool("csv"):
		data, err := formatter.RunsToCSV(runs)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	default:
		return r.writePlain("%s", formatter.RunsToText(runs))
	}
}
