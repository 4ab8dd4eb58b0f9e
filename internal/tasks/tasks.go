// package tasks implements the playlist curation pipeline.
//
// The core abstraction is CurationEngine, which drives the catalog through a
// strictly sequential authorize → create → search → populate run. Operations
// emit progress updates via channels for non-blocking status reporting to
// CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moodlist/internal/services"
	"github.com/desertthunder/moodlist/internal/shared"
)

// State is the position of a curation run in its lifecycle. A run either
// walks the full chain to Populated or stops at Failed; there is no rollback,
// so artifacts created before a failure (e.g. an empty playlist) remain.
type State int

const (
	Start State = iota
	Authorized
	PlaylistCreated
	TracksSearched
	Populated
	Failed
)

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case Authorized:
		return "authorized"
	case PlaylistCreated:
		return "playlist_created"
	case TracksSearched:
		return "tracks_searched"
	case Populated:
		return "populated"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// CurationResult contains all data from a curation run. On failure the
// fields reflect how far the run got before stopping.
type CurationResult struct {
	Mood        string
	Playlist    *services.Playlist
	TrackURIs   []string
	TracksAdded int
	State       State
	Message     string
}

// DefaultStepTimeout bounds each external call when no timeout is configured.
const DefaultStepTimeout = 15 * time.Second

// CurationEngine runs the create → search → populate pipeline against a
// catalog. Each run acquires a fresh token; nothing is cached between runs.
type CurationEngine struct {
	auth        services.TokenProvider
	catalog     services.Catalog
	searchLimit int
	stepTimeout time.Duration
}

// NewCurationEngine creates an engine over the given auth and catalog
// services. Non-positive searchLimit falls back to 10, non-positive
// stepTimeout to [DefaultStepTimeout].
func NewCurationEngine(auth services.TokenProvider, catalog services.Catalog, searchLimit int, stepTimeout time.Duration) *CurationEngine {
	if searchLimit <= 0 {
		searchLimit = 10
	}
	if stepTimeout <= 0 {
		stepTimeout = DefaultStepTimeout
	}

	return &CurationEngine{
		auth:        auth,
		catalog:     catalog,
		searchLimit: searchLimit,
		stepTimeout: stepTimeout,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *CurationEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// step runs fn under a per-step deadline, mapping deadline expiry to
// [shared.ErrTimeout].
func (e *CurationEngine) step(ctx context.Context, fn func(context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, e.stepTimeout)
	defer cancel()

	err := fn(stepCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}
	return err
}

// Curate runs the full pipeline for a mood label. Steps are strictly
// sequential; the first failing step stops the run and the partial result is
// returned alongside the error. Zero search results is a success: the
// playlist exists, empty, with TracksAdded 0.
func (e *CurationEngine) Curate(ctx context.Context, mood string, progress chan<- ProgressUpdate) (*CurationResult, error) {
	if e.auth == nil || e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog services not initialized", shared.ErrServiceUnavailable)
	}

	const totalSteps = 4
	result := &CurationResult{Mood: mood, State: Start}

	e.sendProgress(progress, authorizeUpdate(1, totalSteps))

	var token string
	err := e.step(ctx, func(stepCtx context.Context) error {
		var stepErr error
		token, stepErr = e.auth.Token(stepCtx)
		return stepErr
	})
	if err != nil {
		result.State = Failed
		return result, fmt.Errorf("authorization failed: %w", err)
	}
	result.State = Authorized

	name := fmt.Sprintf("Playlist for %s Mood", mood)
	e.sendProgress(progress, createPlaylistUpdate(2, totalSteps, name))

	err = e.step(ctx, func(stepCtx context.Context) error {
		var stepErr error
		result.Playlist, stepErr = e.catalog.CreatePlaylist(stepCtx, token, name)
		return stepErr
	})
	if err != nil {
		result.State = Failed
		return result, fmt.Errorf("playlist creation failed: %w", err)
	}
	result.State = PlaylistCreated
	e.sendProgress(progress, playlistCreatedUpdate(2, totalSteps, result.Playlist))

	e.sendProgress(progress, searchTracksUpdate(3, totalSteps, mood))

	err = e.step(ctx, func(stepCtx context.Context) error {
		var stepErr error
		result.TrackURIs, stepErr = e.catalog.SearchTracks(stepCtx, token, "genre:"+mood, e.searchLimit)
		return stepErr
	})
	if err != nil {
		result.State = Failed
		return result, fmt.Errorf("track search failed: %w", err)
	}
	result.State = TracksSearched
	e.sendProgress(progress, tracksFoundUpdate(3, totalSteps, len(result.TrackURIs)))

	if len(result.TrackURIs) > 0 {
		e.sendProgress(progress, populateUpdate(4, totalSteps, len(result.TrackURIs)))

		err = e.step(ctx, func(stepCtx context.Context) error {
			return e.catalog.AddTracks(stepCtx, token, result.Playlist.ID, result.TrackURIs)
		})
		if err != nil {
			result.State = Failed
			return result, fmt.Errorf("playlist population failed: %w", err)
		}
	}

	result.State = Populated
	result.TracksAdded = len(result.TrackURIs)
	result.Message = fmt.Sprintf("Created a '%s' playlist based on the detected mood: %s.", result.Playlist.Name, mood)
	return result, nil
}
