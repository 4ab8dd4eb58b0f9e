package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/moodlist/internal/shared"
)

func TestNewHuggingFaceService(t *testing.T) {
	t.Run("Missing Endpoint", func(t *testing.T) {
		if _, err := NewHuggingFaceService("", "token"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Token Is Optional", func(t *testing.T) {
		service, err := NewHuggingFaceService("http://localhost:9000", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if service.Name() != "HuggingFace" {
			t.Errorf("expected name HuggingFace, got %s", service.Name())
		}
	})
}

func TestHuggingFaceGenerate(t *testing.T) {
	t.Run("JSON Array Response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer hf_test" {
				t.Errorf("expected bearer token, got %q", got)
			}

			var req hfRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.Inputs != "hello" {
				t.Errorf("expected inputs hello, got %q", req.Inputs)
			}
			if req.Options.UseCache {
				t.Error("expected use_cache false")
			}
			if req.Parameters.Temperature != 0.1 {
				t.Errorf("expected temperature 0.1, got %v", req.Parameters.Temperature)
			}
			if req.Parameters.TopK != 5 {
				t.Errorf("expected top_k 5, got %d", req.Parameters.TopK)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]map[string]string{{"generated_text": " Happy"}})
		}))
		defer server.Close()

		service, _ := NewHuggingFaceService(server.URL, "hf_test")

		params := &GenerationParams{Temperature: 0.1, TopP: 0.9, TopK: 5, MaxNewTokens: 120}
		text, err := service.Generate(context.Background(), "hello", params)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if text != " Happy" {
			t.Errorf("expected ' Happy', got %q", text)
		}
	})

	t.Run("Nil Params Omits Sampling Fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var raw map[string]any
			if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}

			parameters, ok := raw["parameters"].(map[string]any)
			if !ok {
				t.Fatal("expected parameters object")
			}
			if _, present := parameters["temperature"]; present {
				t.Error("expected temperature to be omitted for nil params")
			}
			if _, present := parameters["top_k"]; present {
				t.Error("expected top_k to be omitted for nil params")
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]map[string]string{{"generated_text": "ok"}})
		}))
		defer server.Close()

		service, _ := NewHuggingFaceService(server.URL, "")

		if _, err := service.Generate(context.Background(), "hello", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("SSE Stream Drained", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			w.Write([]byte("data: {\"token\":{\"text\":\"Sad\"}}\n\n"))
			w.Write([]byte("data: {\"token\":{\"text\":\"\"},\"generated_text\":\"Sad\"}\n\n"))
			w.Write([]byte("data: [DONE]\n\n"))
		}))
		defer server.Close()

		service, _ := NewHuggingFaceService(server.URL, "")

		text, err := service.Generate(context.Background(), "hello", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if text != "Sad" {
			t.Errorf("expected Sad, got %q", text)
		}
	})

	t.Run("Token Deltas Without Terminal Event", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/x-ndjson")
			w.Write([]byte("{\"token\":{\"text\":\"An\"}}\n"))
			w.Write([]byte("{\"token\":{\"text\":\"gry\"}}\n"))
		}))
		defer server.Close()

		service, _ := NewHuggingFaceService(server.URL, "")

		text, err := service.Generate(context.Background(), "hello", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if text != "Angry" {
			t.Errorf("expected Angry, got %q", text)
		}
	})

	t.Run("Service Unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		service, _ := NewHuggingFaceService(server.URL, "")

		if _, err := service.Generate(context.Background(), "hello", nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Auth Failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid token", http.StatusUnauthorized)
		}))
		defer server.Close()

		service, _ := NewHuggingFaceService(server.URL, "bad")

		if _, err := service.Generate(context.Background(), "hello", nil); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}
