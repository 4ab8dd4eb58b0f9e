package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/moodlist/internal/services"
	"github.com/desertthunder/moodlist/internal/shared"
	tu "github.com/desertthunder/moodlist/internal/testing"
)

type stubGenerator struct{}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, params *services.GenerationParams) (string, error) {
	return "", nil
}
func (g *stubGenerator) Name() string { return "stub" }

type stubCatalog struct{}

func (c *stubCatalog) Token(ctx context.Context) (string, error) { return "token", nil }
func (c *stubCatalog) SearchTracks(ctx context.Context, token, query string, limit int) ([]string, error) {
	return nil, nil
}
func (c *stubCatalog) CreatePlaylist(ctx context.Context, token, name string) (*services.Playlist, error) {
	return &services.Playlist{}, nil
}
func (c *stubCatalog) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	return nil
}
func (c *stubCatalog) Name() string { return "stub" }

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			generator := &stubGenerator{}
			catalog := &stubCatalog{}

			runner := NewRunner(RunnerOpts{
				Config:    config,
				Generator: generator,
				Auth:      catalog,
				Catalog:   catalog,
				Logger:    logger,
				Output:    output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.generator != generator {
				t.Error("expected generator to be set")
			}
			if runner.auth != services.TokenProvider(catalog) {
				t.Error("expected auth to be set")
			}
			if runner.catalog != services.Catalog(catalog) {
				t.Error("expected catalog to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("newController", func(t *testing.T) {
		t.Run("builds controller when services are present", func(t *testing.T) {
			catalog := &stubCatalog{}
			runner := NewRunner(RunnerOpts{
				Generator: &stubGenerator{},
				Auth:      catalog,
				Catalog:   catalog,
				Output:    &bytes.Buffer{},
			})

			controller, err := runner.newController(nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if controller == nil {
				t.Fatal("expected controller to be built")
			}
			if controller.ID() == "" {
				t.Error("expected controller to have a session id")
			}
		})

		t.Run("fails without generator", func(t *testing.T) {
			catalog := &stubCatalog{}
			runner := NewRunner(RunnerOpts{
				Auth:    catalog,
				Catalog: catalog,
				Output:  &bytes.Buffer{},
			})

			_, err := runner.newController(nil)
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
			if !strings.Contains(err.Error(), "generation service") {
				t.Errorf("expected generation service error, got %v", err)
			}
		})

		t.Run("fails without catalog services", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Generator: &stubGenerator{},
				Output:    &bytes.Buffer{},
			})

			_, err := runner.newController(nil)
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
			if !strings.Contains(err.Error(), "catalog services") {
				t.Errorf("expected catalog services error, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlainln", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlainln("line %d", 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if result != "\nline 1\n" {
			t.Errorf("expected padded line, got %q", result)
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("SetLogger", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		replacement := shared.NewLogger(nil)

		runner.SetLogger(replacement)

		if runner.logger != replacement {
			t.Error("expected logger to be replaced")
		}
	})
}
