// Spotify API implementation of [Catalog] and [TokenProvider]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/moodlist/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify's public playlist URL format. The API response's external_urls
	// field carries the same value but the ID-derived form is canonical.
	spotifyPlaylistURLFormat = "https://open.spotify.com/playlist/%s"
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Images  []SpotifyImage  `json:"images"`
	URI     string          `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifySearchResponse represents the track portion of a search response.
type SpotifySearchResponse struct {
	Tracks struct {
		Items  []SpotifyTrack `json:"items"`
		Total  int            `json:"total"`
		Limit  int            `json:"limit"`
		Offset int            `json:"offset"`
	} `json:"tracks"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       Owner          `json:"owner"`
	Public      bool           `json:"public"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifySnapshot represents the response to a playlist mutation.
type SpotifySnapshot struct {
	SnapshotID string `json:"snapshot_id"`
}

// SpotifyService implements [Catalog] and [TokenProvider] against the Spotify
// Web API. App-level client-credentials auth only: every Token call performs a
// fresh exchange, nothing is cached across curation runs.
type SpotifyService struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	userID     string
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2
// client credentials and owning user. ratePerSec bounds outbound API calls.
func NewSpotifyService(clientID, clientSecret, userID string, ratePerSec float64) (*SpotifyService, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret", shared.ErrMissingCredentials)
	}

	if userID == "" {
		return nil, fmt.Errorf("%w: spotify user_id", shared.ErrMissingCredentials)
	}

	if ratePerSec <= 0 {
		ratePerSec = 5
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), 1),
		userID:     userID,
		baseURL:    spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Token performs a client-credentials exchange and returns the access token.
// The flow grants app-level access only, so no user consent screen and no
// refresh token; a run either completes within the token's lifetime or fails.
func (s *SpotifyService) Token(ctx context.Context) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	token, err := s.config.Token(context.WithValue(ctx, oauth2.HTTPClient, s.httpClient))
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", shared.ErrAuthFailed)
	}

	return token.AccessToken, nil
}

// doRequest performs a rate-limited, bearer-authenticated HTTP request to the
// Spotify API and decodes the JSON response into result when non-nil.
func (s *SpotifyService) doRequest(ctx context.Context, method, token, endpoint string, body any, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	apiURL := s.baseURL + endpoint

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: spotify API status %d", shared.ErrAuthFailed, resp.StatusCode)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: spotify API status %d", shared.ErrRateLimited, resp.StatusCode)
		default:
			return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchTracks performs a track search and returns the URIs of the matches in
// Spotify's relevance order. Fewer than limit results (including zero) is not
// an error.
func (s *SpotifyService) SearchTracks(ctx context.Context, token, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, "GET", token, endpoint, nil, &response); err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(response.Tracks.Items))
	for _, track := range response.Tracks.Items {
		uris = append(uris, track.URI)
	}

	return uris, nil
}

// CreatePlaylist creates a new private playlist under the configured user.
// Spotify allows duplicate names, so repeated calls yield distinct playlists.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, token, name string) (*Playlist, error) {
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(s.userID))

	body := map[string]any{
		"name":   name,
		"public": false,
	}

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, "POST", token, endpoint, body, &playlist); err != nil {
		return nil, err
	}

	return &Playlist{
		ID:     playlist.ID,
		Name:   playlist.Name,
		URL:    fmt.Sprintf(spotifyPlaylistURLFormat, playlist.ID),
		Public: playlist.Public,
	}, nil
}

// AddTracks bulk-adds track URIs to a playlist in a single request,
// preserving the given order.
func (s *SpotifyService) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))

	body := map[string]any{"uris": uris}

	var snapshot SpotifySnapshot
	return s.doRequest(ctx, "POST", token, endpoint, body, &snapshot)
}
