package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "moodlist.db" {
			t.Errorf("expected database path moodlist.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Chat.MemoryWindow != 3 {
			t.Errorf("expected memory window 3, got %d", config.Chat.MemoryWindow)
		}

		if config.Catalog.SearchLimit != 10 {
			t.Errorf("expected search limit 10, got %d", config.Catalog.SearchLimit)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 9090

[chat]
memory_window = 5
temperature = 0.7
top_p = 0.95
max_tokens = 64

[catalog]
search_limit = 25
rate_limit = 2.5
step_timeout_seconds = 30

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
user_id = "test_user"

[credentials.huggingface]
api_token = "hf_test"
endpoint_url = "http://localhost:9000"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Chat.MemoryWindow != 5 {
			t.Errorf("expected memory window 5, got %d", config.Chat.MemoryWindow)
		}

		if config.Catalog.SearchLimit != 25 {
			t.Errorf("expected search limit 25, got %d", config.Catalog.SearchLimit)
		}

		if config.Credentials.Spotify.UserID != "test_user" {
			t.Errorf("expected spotify user_id test_user, got %s", config.Credentials.Spotify.UserID)
		}

		if config.Credentials.HuggingFace.APIToken != "hf_test" {
			t.Errorf("expected huggingface token hf_test, got %s", config.Credentials.HuggingFace.APIToken)
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "saved_id"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}

		if loaded.Credentials.Spotify.ClientID != "saved_id" {
			t.Errorf("expected client_id saved_id, got %s", loaded.Credentials.Spotify.ClientID)
		}
	})

	t.Run("SaveConfig nil", func(t *testing.T) {
		if err := SaveConfig("/tmp/never-written.toml", nil); err == nil {
			t.Error("expected error for nil config")
		}
	})
}
