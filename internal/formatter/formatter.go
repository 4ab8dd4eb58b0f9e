// package formatter renders curation results and run history to plain text,
// Markdown, and CSV for CLI output and export.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/desertthunder/moodlist/internal/memory"
	"github.com/desertthunder/moodlist/internal/repositories"
	"github.com/desertthunder/moodlist/internal/tasks"
)

// ResultToText renders a curation result as plain text.
func ResultToText(result *tasks.CurationResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Mood: %s\n", result.Mood))
	buf.WriteString(fmt.Sprintf("Status: %s\n", result.State))

	if result.Playlist != nil {
		buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.Playlist.Name))
		buf.WriteString(fmt.Sprintf("URL: %s\n", result.Playlist.URL))
	}

	buf.WriteString(fmt.Sprintf("Tracks added: %d\n", result.TracksAdded))

	if result.Message != "" {
		buf.WriteString("\n" + result.Message + "\n")
	}

	return buf.Bytes()
}

// ResultToMarkdown renders a curation result as Markdown.
func ResultToMarkdown(result *tasks.CurationResult) []byte {
	var buf bytes.Buffer

	title := "Curation Run"
	if result.Playlist != nil {
		title = result.Playlist.Name
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString(fmt.Sprintf("**Mood**: %s\n", result.Mood))
	buf.WriteString(fmt.Sprintf("**Status**: %s\n", result.State))
	buf.WriteString(fmt.Sprintf("**Tracks added**: %d\n", result.TracksAdded))

	if result.Playlist != nil {
		buf.WriteString(fmt.Sprintf("**Link**: [%s](%s)\n", result.Playlist.Name, result.Playlist.URL))
	}

	if len(result.TrackURIs) > 0 {
		buf.WriteString("\n## Tracks\n\n")
		for i, uri := range result.TrackURIs {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, uri))
		}
	}

	return buf.Bytes()
}

// TranscriptToText renders a conversation history as plain text, oldest
// turn first.
func TranscriptToText(turns []memory.Turn) []byte {
	var buf bytes.Buffer

	for _, turn := range turns {
		buf.WriteString(fmt.Sprintf("You: %s\n", turn.User))
		buf.WriteString(fmt.Sprintf("Assistant: %s\n\n", turn.Assistant))
	}

	return buf.Bytes()
}

// RunsToText renders run history rows as aligned plain text.
func RunsToText(runs []*repositories.CurationRun) []byte {
	var buf bytes.Buffer

	if len(runs) == 0 {
		buf.WriteString("No curation runs recorded.\n")
		return buf.Bytes()
	}

	for _, run := range runs {
		buf.WriteString(fmt.Sprintf("#%d  %s  %s  mood=%s  tracks=%d",
			run.Sequence, run.CreatedAt.Format("2006-01-02 15:04"), run.Status, run.Mood, run.TracksAdded))
		if run.PlaylistURL != "" {
			buf.WriteString("  " + run.PlaylistURL)
		}
		if run.Error != "" {
			buf.WriteString("  error=" + run.Error)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// RunsToCSV renders run history as CSV with a header row.
func RunsToCSV(runs []*repositories.CurationRun) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "CreatedAt", "SessionID", "Mood", "Status", "PlaylistName", "PlaylistURL", "TracksAdded", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, run := range runs {
		record := []string{
			strconv.Itoa(run.Sequence),
			run.CreatedAt.Format("2006-01-02T15:04:05Z"),
			run.SessionID,
			run.Mood,
			run.Status,
			run.PlaylistName,
			run.PlaylistURL,
			strconv.Itoa(run.TracksAdded),
			run.Error,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
