package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/moodlist/internal/repositories"
	"github.com/desertthunder/moodlist/internal/session"
	"github.com/desertthunder/moodlist/internal/shared"
	"github.com/desertthunder/moodlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ChatSend runs one message through the full pipeline and prints the reply
// and playlist summary.
func (r *Runner) ChatSend(ctx context.Context, cmd *cli.Command) error {
	text := cmd.StringArg("text")
	if text == "" {
		return fmt.Errorf("%w: message text", shared.ErrMissingArgument)
	}

	var recorder session.Recorder
	if !cmd.Bool("no-history") {
		db, err := r.openDatabase()
		if err != nil {
			r.logger.Warn("run history disabled", "error", err)
		} else {
			defer db.Close()
			recorder = repositories.NewRunRepository(db)
		}
	}

	controller, err := r.newController(recorder)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	controller.SetProgress(progressCh)
	go func() {
		for update := range progressCh {
			r.writePlain("  %s\n", update.Message)
		}
	}()

	result, err := controller.Handle(ctx, session.TurnInput{
		Text:        text,
		Consent:     cmd.Bool("consent"),
		Temperature: cmd.Float("temperature"),
		TopP:        cmd.Float("top-p"),
		MaxTokens:   int(cmd.Int("max-tokens")),
	})
	close(progressCh)

	if errors.Is(err, shared.ErrConsentRequired) {
		return fmt.Errorf("%w: pass --consent to allow processing", err)
	}
	if err != nil {
		if result != nil && result.Reply != "" {
			r.writePlainln("Assistant: %s", result.Reply)
		}
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"reply":         result.Reply,
			"mood":          result.Mood,
			"message":       result.Curation.Message,
			"playlist_name": result.Curation.Playlist.Name,
			"playlist_url":  result.Curation.Playlist.URL,
			"tracks_added":  result.Curation.TracksAdded,
		}, true)
	}

	r.writePlainln("Assistant: %s", result.Reply)
	r.writePlainHeader(fmt.Sprintf("Mood: %s", result.Mood))
	r.writePlain("%s\n", result.Curation.Message)
	r.writePlain("Tracks added: %d\n", result.Curation.TracksAdded)
	r.writePlain("Listen: %s\n", result.Curation.Playlist.URL)

	return nil
}
