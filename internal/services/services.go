// package services defines interfaces for the external collaborators of the
// curation pipeline: a text-generation service and a music catalog.
//
// Hugging Face inference endpoint, Spotify Web API
package services

import (
	"context"
)

// GenerationParams are the sampling parameters for one generation call.
//
// A nil *GenerationParams at a call site means "provider defaults"; the
// service must not invent values for absent fields. Values are forwarded
// unvalidated; the provider may reject or clamp out-of-range values.
type GenerationParams struct {
	MaxNewTokens      int      `json:"max_new_tokens,omitempty"`
	Temperature       float64  `json:"temperature,omitempty"`
	TopP              float64  `json:"top_p,omitempty"`
	TopK              int      `json:"top_k,omitempty"`
	RepetitionPenalty float64  `json:"repetition_penalty,omitempty"`
	Stop              []string `json:"stop,omitempty"`
}

// Generator defines the interface for text-generation providers.
type Generator interface {
	// Generate issues a single generation call and returns the full generated
	// text. If the provider streams, the stream is drained before returning.
	Generate(ctx context.Context, prompt string, params *GenerationParams) (string, error)

	// Name returns the provider name (e.g. "HuggingFace")
	Name() string
}

// TokenProvider obtains an app-level bearer credential for the catalog.
type TokenProvider interface {
	// Token performs a fresh client-credentials exchange. The returned token
	// is scoped to a single curation run and never cached.
	Token(ctx context.Context) (string, error)
}

// Catalog defines the music catalog operations used by the curation pipeline.
type Catalog interface {
	// SearchTracks searches the catalog with the given query and returns up to
	// limit track URIs in the provider's relevance order.
	SearchTracks(ctx context.Context, token, query string, limit int) ([]string, error)

	// CreatePlaylist creates a brand-new private playlist owned by the
	// configured user. There is no existence check or reuse.
	CreatePlaylist(ctx context.Context, token, name string) (*Playlist, error)

	// AddTracks bulk-adds the given track URIs to a playlist, preserving order.
	AddTracks(ctx context.Context, token, playlistID string, uris []string) error

	// Name returns the catalog name (e.g. "Spotify")
	Name() string
}

// Playlist represents a playlist created in the catalog.
type Playlist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Public bool   `json:"public"`
}
