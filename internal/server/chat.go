package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodlist/internal/session"
	"github.com/desertthunder/moodlist/internal/shared"
)

// consentErrorBody is the exact response sent when a request declines consent.
const consentErrorBody = "User consent required for processing."

// ChatRequest is the inbound payload for the chat endpoint.
type ChatRequest struct {
	Text        string  `json:"text"`
	Consent     bool    `json:"consent"`
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// ChatResponse is the success payload for the chat endpoint.
type ChatResponse struct {
	Message      string `json:"message"`
	Reply        string `json:"reply"`
	Mood         string `json:"mood"`
	PlaylistName string `json:"playlist_name"`
	PlaylistURL  string `json:"playlist_url"`
	TracksAdded  int    `json:"tracks_added"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ChatHandler serves the chat endpoint over one conversation session.
// Implements the Handler interface for registration with a Router.
type ChatHandler struct {
	controller *session.Controller
	logger     *log.Logger
}

// NewChatHandler creates a chat handler over the given session controller.
func NewChatHandler(controller *session.Controller, logger *log.Logger) *ChatHandler {
	return &ChatHandler{controller: controller, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ChatHandler) Routes() []string {
	return []string{"/chat"}
}

// ServeHTTP handles one chat turn. A declined consent flag returns 403 with
// a fixed error body before any external call is made.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}

	result, err := h.controller.Handle(r.Context(), session.TurnInput{
		Text:        req.Text,
		Consent:     req.Consent,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	})

	if err != nil {
		h.writeError(w, err)
		return
	}

	response := ChatResponse{
		Message:     result.Curation.Message,
		Reply:       result.Reply,
		Mood:        result.Mood,
		TracksAdded: result.Curation.TracksAdded,
	}
	if result.Curation.Playlist != nil {
		response.PlaylistName = result.Curation.Playlist.Name
		response.PlaylistURL = result.Curation.Playlist.URL
	}

	writeJSON(w, http.StatusOK, response)
}

// writeError maps pipeline errors onto HTTP statuses.
func (h *ChatHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrConsentRequired):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: consentErrorBody})
	case errors.Is(err, shared.ErrAuthFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	case errors.Is(err, shared.ErrTimeout):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: err.Error()})
	case errors.Is(err, shared.ErrRateLimited), errors.Is(err, shared.ErrServiceUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("chat turn failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// HealthHandler serves liveness checks.
type HealthHandler struct{}

func (h *HealthHandler) Routes() []string {
	return []string{"/health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
