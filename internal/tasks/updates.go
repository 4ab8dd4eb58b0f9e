package tasks

import (
	"fmt"

	"github.com/desertthunder/moodlist/internal/services"
)

// ProgressUpdate represents a progress event during a curation run.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within the run
	Total   int    // Total steps in the run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Authorize Phase = iota
	CreatePlaylist
	SearchTracks
	PopulatePlaylist
)

func (p Phase) String() string {
	switch p {
	case Authorize:
		return "authorize"
	case CreatePlaylist:
		return "create_playlist"
	case SearchTracks:
		return "search_tracks"
	case PopulatePlaylist:
		return "populate_playlist"
	default:
		return ""
	}
}

func authorizeUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authorize,
		Step:    step,
		Total:   total,
		Message: "Requesting catalog access token...",
	}
}

func createPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating playlist (%s)...", name),
	}
}

func playlistCreatedUpdate(step, total int, pl *services.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func searchTracksUpdate(step, total int, mood string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching tracks for mood %q...", mood),
	}
}

func tracksFoundUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found %d tracks", count),
	}
}

func populateUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PopulatePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding %d tracks to playlist...", count),
	}
}
