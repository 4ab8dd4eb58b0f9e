package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/moodlist/internal/shared"
	"github.com/desertthunder/moodlist/internal/tasks"
)

// CurationRun is one persisted curation run, successful or failed.
type CurationRun struct {
	ID           string
	Sequence     int
	SessionID    string
	Mood         string
	PlaylistID   string
	PlaylistName string
	PlaylistURL  string
	TracksAdded  int
	Status       string
	Error        string
	CreatedAt    time.Time
}

// RunRepository persists curation run history in sqlite.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *CurationRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.ID = shared.GenerateID()
	run.Sequence = sequence
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO runs (id, sequence, session_id, mood, playlist_id, playlist_name, playlist_url, tracks_added, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID,
		run.Sequence,
		run.SessionID,
		run.Mood,
		run.PlaylistID,
		run.PlaylistName,
		run.PlaylistURL,
		run.TracksAdded,
		run.Status,
		run.Error,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*CurationRun, error) {
	query := `
		SELECT id, sequence, session_id, mood, playlist_id, playlist_name, playlist_url, tracks_added, status, error, created_at
		FROM runs
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// List retrieves runs ordered newest first, up to limit. Non-positive limit
// returns all runs.
func (r *RunRepository) List(limit int) ([]*CurationRun, error) {
	query := `
		SELECT id, sequence, session_id, mood, playlist_id, playlist_name, playlist_url, tracks_added, status, error, created_at
		FROM runs
		ORDER BY sequence DESC
	`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*CurationRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListBySession retrieves a session's runs, oldest first.
func (r *RunRepository) ListBySession(sessionID string) ([]*CurationRun, error) {
	query := `
		SELECT id, sequence, session_id, mood, playlist_id, playlist_name, playlist_url, tracks_added, status, error, created_at
		FROM runs
		WHERE session_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*CurationRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// RecordRun implements session.Recorder by flattening a curation result into
// a run row. Failed runs are stored with their error message.
func (r *RunRepository) RecordRun(_ context.Context, sessionID string, result *tasks.CurationResult, runErr error) error {
	run := &CurationRun{
		SessionID: sessionID,
		Status:    tasks.Failed.String(),
	}

	if result != nil {
		run.Status = result.State.String()
		run.Mood = result.Mood
		run.TracksAdded = result.TracksAdded
		if result.Playlist != nil {
			run.PlaylistID = result.Playlist.ID
			run.PlaylistName = result.Playlist.Name
			run.PlaylistURL = result.Playlist.URL
		}
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	return r.Create(run)
}

type scannable interface {
	Scan(dest ...any) error
}

func (r *RunRepository) scanOne(row *sql.Row) (*CurationRun, error) {
	return r.scan(row)
}

func (r *RunRepository) scanRow(rows *sql.Rows) (*CurationRun, error) {
	return r.scan(rows)
}

func (r *RunRepository) scan(s scannable) (*CurationRun, error) {
	var run CurationRun
	var playlistID, playlistName, playlistURL, errMsg sql.NullString

	err := s.Scan(
		&run.ID,
		&run.Sequence,
		&run.SessionID,
		&run.Mood,
		&playlistID,
		&playlistName,
		&playlistURL,
		&run.TracksAdded,
		&run.Status,
		&errMsg,
		&run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.PlaylistID = playlistID.String
	run.PlaylistName = playlistName.String
	run.PlaylistURL = playlistURL.String
	run.Error = errMsg.String

	return &run, nil
}
