// Hugging Face inference endpoint implementation of [Generator]
package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/moodlist/internal/shared"
)

// hfRequest is the inference payload. Parameters carries only the sampling
// fields the caller set; the endpoint applies its own defaults to the rest.
type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxNewTokens      int      `json:"max_new_tokens,omitempty"`
	Temperature       float64  `json:"temperature,omitempty"`
	TopP              float64  `json:"top_p,omitempty"`
	TopK              int      `json:"top_k,omitempty"`
	RepetitionPenalty float64  `json:"repetition_penalty,omitempty"`
	Stop              []string `json:"stop,omitempty"`
	ReturnFullText    bool     `json:"return_full_text"`
}

type hfOptions struct {
	UseCache bool `json:"use_cache"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// HuggingFaceService implements [Generator] against a Hugging Face text
// generation inference endpoint.
type HuggingFaceService struct {
	endpointURL string
	apiToken    string
	httpClient  *http.Client
}

// NewHuggingFaceService creates a generation service for the given inference
// endpoint. The token is optional for self-hosted endpoints.
func NewHuggingFaceService(endpointURL, apiToken string) (*HuggingFaceService, error) {
	if endpointURL == "" {
		return nil, fmt.Errorf("%w: huggingface endpoint_url", shared.ErrMissingCredentials)
	}

	return &HuggingFaceService{
		endpointURL: strings.TrimSpace(endpointURL),
		apiToken:    apiToken,
		httpClient:  http.DefaultClient,
	}, nil
}

func (h *HuggingFaceService) Name() string {
	return "HuggingFace"
}

// Generate issues a single generation call. Streaming responses (SSE or
// ndjson) are drained into one string before returning.
func (h *HuggingFaceService) Generate(ctx context.Context, prompt string, params *GenerationParams) (string, error) {
	request := hfRequest{
		Inputs:  prompt,
		Options: hfOptions{UseCache: false},
	}

	if params != nil {
		request.Parameters = hfParameters{
			MaxNewTokens:      params.MaxNewTokens,
			Temperature:       params.Temperature,
			TopP:              params.TopP,
			TopK:              params.TopK,
			RepetitionPenalty: params.RepetitionPenalty,
			Stop:              params.Stop,
		}
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpointURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if h.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiToken)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", fmt.Errorf("%w: inference status %d: %s", shared.ErrAuthFailed, resp.StatusCode, string(body))
		case http.StatusTooManyRequests:
			return "", fmt.Errorf("%w: inference status %d", shared.ErrRateLimited, resp.StatusCode)
		case http.StatusServiceUnavailable:
			return "", fmt.Errorf("%w: inference status %d: %s", shared.ErrServiceUnavailable, resp.StatusCode, string(body))
		default:
			return "", fmt.Errorf("%w: inference status %d: %s", shared.ErrAPIRequest, resp.StatusCode, string(body))
		}
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(ct, "text/event-stream") || strings.Contains(ct, "application/x-ndjson") {
		return drainStream(resp.Body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var generations []hfGeneration
	if err := json.Unmarshal(body, &generations); err == nil && len(generations) > 0 {
		return generations[0].GeneratedText, nil
	}

	var single hfGeneration
	if err := json.Unmarshal(body, &single); err == nil && single.GeneratedText != "" {
		return single.GeneratedText, nil
	}

	return "", fmt.Errorf("%w: unexpected inference response shape", shared.ErrAPIRequest)
}

// drainStream collects SSE or ndjson token events into the full generated
// text. Event payloads carry either token deltas or a terminal object with
// the complete generated_text, which wins when present.
func drainStream(body io.Reader) (string, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out strings.Builder
	var final string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "data:") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
		if line == "[DONE]" {
			break
		}

		var event struct {
			Token struct {
				Text string `json:"text"`
			} `json:"token"`
			GeneratedText string `json:"generated_text"`
		}
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			out.WriteString(line)
			continue
		}

		if event.GeneratedText != "" {
			final = event.GeneratedText
		}
		out.WriteString(event.Token.Text)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("stream read: %w", err)
	}

	if final != "" {
		return final, nil
	}
	return out.String(), nil
}
