// package session composes the per-turn pipeline: consent gate, mood
// classification, reply synthesis, playlist curation, and memory update.
package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodlist/internal/chat"
	"github.com/desertthunder/moodlist/internal/memory"
	"github.com/desertthunder/moodlist/internal/shared"
	"github.com/desertthunder/moodlist/internal/tasks"
)

// TurnInput is one inbound chat turn.
type TurnInput struct {
	Text    string
	Consent bool

	// Reply sampling overrides. Zero values fall back to the configured
	// defaults at construction time, not here.
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// TurnResult is the outcome of one handled turn. Reply and Mood are set
// whenever their calls succeed, even if curation later fails.
type TurnResult struct {
	Reply    string
	Mood     string
	Curation *tasks.CurationResult
}

// Recorder persists finished curation runs. Implementations must tolerate
// being called with a failed run.
type Recorder interface {
	RecordRun(ctx context.Context, sessionID string, result *tasks.CurationResult, runErr error) error
}

// Controller owns one conversation session. It serializes turns so at most
// one is in flight against the session's memory window at a time.
type Controller struct {
	mu         sync.Mutex
	id         string
	memory     *memory.Window
	classifier *chat.Classifier
	responder  *chat.Responder
	engine     *tasks.CurationEngine
	recorder   Recorder
	defaults   chat.SamplingOptions
	logger     *log.Logger
	progress   chan<- tasks.ProgressUpdate
}

// NewController creates a session over the given collaborators. recorder may
// be nil when run history is not wanted.
func NewController(window *memory.Window, classifier *chat.Classifier, responder *chat.Responder, engine *tasks.CurationEngine, recorder Recorder, defaults chat.SamplingOptions, logger *log.Logger) *Controller {
	return &Controller{
		id:         shared.GenerateID(),
		memory:     window,
		classifier: classifier,
		responder:  responder,
		engine:     engine,
		recorder:   recorder,
		defaults:   defaults,
		logger:     logger,
	}
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// SetProgress routes curation progress updates to the given channel. Must
// not be called while a turn is in flight.
func (c *Controller) SetProgress(progress chan<- tasks.ProgressUpdate) {
	c.progress = progress
}

// Reset clears the session's conversation memory.
func (c *Controller) Reset() {
	c.memory.Reset()
}

// History returns the retained turns, oldest first.
func (c *Controller) History() []memory.Turn {
	return c.memory.Turns()
}

// Handle runs one turn. Consent is checked before anything else; a declined
// turn returns [shared.ErrConsentRequired] with zero external calls. The
// turn is recorded into memory whenever a reply was produced, regardless of
// curation outcome, and a curation failure is returned alongside the partial
// result.
func (c *Controller) Handle(ctx context.Context, input TurnInput) (*TurnResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !input.Consent {
		return nil, shared.ErrConsentRequired
	}

	result := &TurnResult{}

	mood, err := c.classifier.Detect(ctx, input.Text)
	if err != nil {
		return nil, err
	}
	result.Mood = mood
	c.logger.Debug("mood detected", "session", c.id, "mood", mood)

	reply, err := c.responder.Generate(ctx, input.Text, c.memory.Context(), c.sampling(input))
	if err != nil {
		return result, err
	}
	result.Reply = reply

	c.memory.Record(input.Text, reply)

	curation, curErr := c.engine.Curate(ctx, mood, c.progress)
	result.Curation = curation

	if c.recorder != nil {
		if recErr := c.recorder.RecordRun(ctx, c.id, curation, curErr); recErr != nil {
			c.logger.Warn("failed to record curation run", "session", c.id, "error", recErr)
		}
	}

	if curErr != nil {
		c.logger.Error("curation failed", "session", c.id, "mood", mood, "error", curErr)
		return result, curErr
	}

	c.logger.Info("turn completed", "session", c.id, "mood", mood, "tracks_added", curation.TracksAdded)
	return result, nil
}

// sampling resolves the turn's reply parameters, falling back to the
// session defaults for unset fields.
func (c *Controller) sampling(input TurnInput) chat.SamplingOptions {
	opts := c.defaults
	if input.Temperature > 0 {
		opts.Temperature = input.Temperature
	}
	if input.TopP > 0 {
		opts.TopP = input.TopP
	}
	if input.MaxTokens > 0 {
		opts.MaxTokens = input.MaxTokens
	}
	return opts
}
