package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moodlist/internal/session"
	"github.com/desertthunder/moodlist/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ChatView ViewState = iota
	CuratingView
)

type turnCompleteMsg struct {
	result *session.TurnResult
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

// transcriptLine is one rendered line of the conversation log.
type transcriptLine struct {
	speaker string
	text    string
	isErr   bool
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	controller   *session.Controller
	input        textinput.Model
	transcript   []transcriptLine
	progressChan chan tasks.ProgressUpdate
	resultChan   chan turnCompleteMsg
	progress     tasks.ProgressUpdate
	width        int
	height       int
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over the given session controller.
func NewModel(ctx context.Context, controller *session.Controller) *Model {
	input := textinput.New()
	input.Placeholder = "How are you feeling?"
	input.CharLimit = 500
	input.Focus()

	return &Model{
		ctx:        ctx,
		view:       ChatView,
		controller: controller,
		input:      input,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init starts the text input cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			m.controller.Reset()
			m.transcript = append(m.transcript, transcriptLine{speaker: "system", text: "Conversation memory cleared."})
			return m, nil
		case "enter":
			if m.view == ChatView {
				return m.sendTurn()
			}
			return m, nil
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case turnCompleteMsg:
		m.view = ChatView
		m.progressChan = nil
		m.resultChan = nil
		m.progress = tasks.ProgressUpdate{}

		if msg.result != nil && msg.result.Reply != "" {
			m.transcript = append(m.transcript, transcriptLine{speaker: "assistant", text: msg.result.Reply})
		}
		if msg.err != nil {
			m.transcript = append(m.transcript, transcriptLine{speaker: "system", text: msg.err.Error(), isErr: true})
		} else if msg.result != nil && msg.result.Curation != nil {
			curation := msg.result.Curation
			line := fmt.Sprintf("%s (%d tracks) %s", curation.Message, curation.TracksAdded, curation.Playlist.URL)
			m.transcript = append(m.transcript, transcriptLine{speaker: "system", text: line})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sendTurn submits the current input as a chat turn and switches to the
// curating view until the pipeline finishes.
func (m *Model) sendTurn() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	m.transcript = append(m.transcript, transcriptLine{speaker: "you", text: text})
	m.input.Reset()
	m.view = CuratingView

	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.controller.SetProgress(m.progressChan)

	resultChan := make(chan turnCompleteMsg, 1)
	go func() {
		result, err := m.controller.Handle(m.ctx, session.TurnInput{Text: text, Consent: true})
		resultChan <- turnCompleteMsg{result: result, err: err}
		close(m.progressChan)
	}()
	m.resultChan = resultChan

	return m, m.waitForProgress()
}

// waitForProgress blocks on the next progress update, falling through to the
// turn result when the channel closes.
func (m *Model) waitForProgress() tea.Cmd {
	progressChan := m.progressChan
	resultChan := m.resultChan
	return func() tea.Msg {
		if progressChan != nil {
			if update, ok := <-progressChan; ok {
				return progressUpdateMsg(update)
			}
		}
		return <-resultChan
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("moodlist"))
	b.WriteString("\n")

	for _, line := range m.transcript {
		switch {
		case line.isErr:
			b.WriteString(styles.err.Render(fmt.Sprintf("! %s", line.text)))
		case line.speaker == "you":
			b.WriteString(styles.ok.Render("you: ") + line.text)
		case line.speaker == "assistant":
			b.WriteString(styles.warn.Render("assistant: ") + line.text)
		default:
			b.WriteString(styles.help.Render(line.text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")

	if m.view == CuratingView {
		message := m.progress.Message
		if message == "" {
			message = "Thinking..."
		}
		b.WriteString(styles.warn.Render(message))
		b.WriteString("\n")
	} else {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return b.String()
}
