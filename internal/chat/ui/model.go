package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/samsaffron/oatmeal/internal/chat/bubble"
	"github.com/samsaffron/oatmeal/internal/chat/event"
	"github.com/samsaffron/oatmeal/internal/chat/input"
	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/chat/slash"
	"github.com/samsaffron/oatmeal/internal/chat/state"
	"github.com/samsaffron/oatmeal/internal/debuglog"
	"github.com/samsaffron/oatmeal/internal/editor"
	"github.com/samsaffron/oatmeal/internal/llm"
	"github.com/samsaffron/oatmeal/internal/session"
	"github.com/samsaffron/oatmeal/internal/theme"
)

// tickMsg is the internal wrapping of the Input Source's 500ms Tick,
// scheduled by tea.Tick and re-scheduled every time it fires.
type tickMsg time.Time

// backendEventMsg wraps one llm.Event delivered by the in-flight stream.
type backendEventMsg struct {
	streamID int
	ev       llm.Event
}

// backendErrMsg surfaces a BackendError as a System-authored Message in the
// transcript rather than crashing the loop.
type backendErrMsg struct {
	streamID int
	err      error
}

// Model is the bubbletea program: the Event Loop / UI Driver. It owns the
// terminal (via bubbletea), AppState, and the textarea; it is the only
// thing that ever mutates AppState, so AppState needs no locking.
type Model struct {
	state *state.State
	theme *theme.Theme

	username  string
	modelName string

	textarea textarea.Model
	spinner  spinner.Model
	mouse    input.Mouse

	editor  editor.Capability
	sess    *session.Session
	log     *debuglog.Logger

	width  int
	height int

	quitting bool

	streamID     int
	streamCancel context.CancelFunc
	streamEvents chan llm.Event
	streamErr    chan error
}

// New builds the Event Loop model. provider may be nil in tests that never
// drive a real Enter submission.
func New(provider llm.Provider, modelName, username string, th *theme.Theme, ed editor.Capability, sess *session.Session, log *debuglog.Logger) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask anything..."
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(th.Spinner)

	return &Model{
		state:     state.New(provider, modelName, username, th),
		theme:     th,
		username:  username,
		modelName: modelName,
		textarea:  ta,
		spinner:   sp,
		editor:    ed,
		sess:      sess,
		log:       log,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(input.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update is the reactor's single dispatch point: one iteration draws a
// frame (via View, called by bubbletea after Update returns) then awaits
// one Event, per spec §4.H.
func (m *Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch tm := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = tm.Width, tm.Height
		m.textarea.SetWidth(m.width)
		m.state.SetRect(m.width, m.height)
		return m, nil

	case tea.KeyMsg:
		if tm.Paste {
			return m.handleEvent(input.TranslatePaste(string(tm.Runes)))
		}
		ev := input.TranslateKey(tm)
		if ev.Kind == event.KindKeyChar && len(tm.Runes) != 1 {
			// Editing keys (backspace, arrows, ...) carry no single rune;
			// the textarea handles them itself.
			if m.state.WaitingForBackend {
				return m, nil
			}
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(tm)
			m.state.SetInputLineCount(strings.Count(m.textarea.Value(), "\n") + 1)
			return m, cmd
		}
		return m.handleEvent(ev)

	case tea.MouseMsg:
		if ev, ok := m.mouse.Translate(tm); ok {
			return m.handleEvent(ev)
		}
		return m, nil

	case spinner.TickMsg:
		if m.state.WaitingForBackend {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(tm)
			return m, cmd
		}
		return m, nil

	case tickMsg:
		_, cmd := m.handleEvent(event.TickEvent())
		return m, tea.Batch(cmd, m.tick())

	case backendEventMsg:
		if tm.streamID != m.streamID {
			return m, nil // stale: a straggler from an aborted stream
		}
		return m.handleEvent(event.BackendPromptResponseEvent(tm.ev))

	case backendErrMsg:
		if tm.streamID != m.streamID {
			return m, nil
		}
		m.state.WaitingForBackend = false
		m.state.AppendSystemMessage(fmt.Sprintf("backend error: %v", tm.err))
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(rawMsg)
	m.state.SetInputLineCount(strings.Count(m.textarea.Value(), "\n") + 1)
	return m, cmd
}

// handleEvent is the per-event-kind dispatch named in spec §4.H.
func (m *Model) handleEvent(ev event.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case event.KindBackendMessage:
		m.state.AddMessage(ev.BackendMessage)
		m.state.WaitingForBackend = false
		return m, nil

	case event.KindBackendPromptResponse:
		m.state.HandleBackendResponse(ev.BackendResp)
		if ev.BackendResp.Type == llm.EventDone {
			return m, m.saveSessionCmd()
		}
		return m, m.listenCmd()

	case event.KindKeyChar:
		if m.state.WaitingForBackend {
			return m, nil
		}
		return m.insertRune(ev.Char)

	case event.KindCtrlC:
		if m.state.WaitingForBackend {
			m.abortStream()
			return m, nil
		}
		if !m.state.ExitWarning {
			m.state.ExitWarning = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case event.KindCtrlO:
		m.textarea.InsertString("\n")
		m.state.SetInputLineCount(strings.Count(m.textarea.Value(), "\n") + 1)
		return m, nil

	case event.KindCtrlR:
		return m.resubmitLast()

	case event.KindEnter:
		return m.submit()

	case event.KindPaste:
		m.textarea.InsertString(ev.Paste)
		m.state.SetInputLineCount(strings.Count(m.textarea.Value(), "\n") + 1)
		return m, nil

	case event.KindScrollUp:
		m.state.ScrollUp()
		return m, nil
	case event.KindScrollDown:
		m.state.ScrollDown()
		return m, nil
	case event.KindScrollPageUp:
		m.state.ScrollPageUp()
		return m, nil
	case event.KindScrollPageDown:
		m.state.ScrollPageDown()
		return m, nil

	case event.KindTick:
		return m, nil

	case event.KindHighlight:
		start, end, ok := validateRegion(ev.Start, ev.End, m.state.Scroll.Position, m.viewportHeight(), m.inputLineCount())
		if !ok {
			return m, nil
		}
		m.state.BubbleList.Highlight(start, end)
		return m, nil

	case event.KindSelect:
		start, end, ok := validateRegion(ev.Start, ev.End, m.state.Scroll.Position, m.viewportHeight(), m.inputLineCount())
		if !ok {
			return m, nil
		}
		text := m.state.BubbleList.YankSelectedLines(start, end)
		return m, m.applyEditorCmd(event.AcceptCodeBlockAction(m.state.EditorContext(), text, event.AcceptReplace))
	}
	return m, nil
}

func (m *Model) inputLineCount() int {
	return strings.Count(m.textarea.Value(), "\n") + 1
}

func (m *Model) viewportHeight() int {
	h := m.height - m.inputRectHeight()
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) inputRectHeight() int {
	return m.inputLineCount() + 3
}

// insertRune feeds a char into the textarea. If the current last line would
// overflow the frame width and contains a space, a line break is inserted
// at the cursor first; the text after the last space stays on the old line.
func (m *Model) insertRune(r rune) (tea.Model, tea.Cmd) {
	lines := strings.Split(m.textarea.Value(), "\n")
	last := lines[len(lines)-1]
	margin := 2
	if lipgloss.Width(last)+margin >= m.textarea.Width() && m.textarea.Width() > 0 {
		if idx := strings.LastIndex(last, " "); idx > 0 {
			m.textarea.InsertString("\n")
		}
	}
	m.textarea.InsertRune(r)
	m.state.SetInputLineCount(strings.Count(m.textarea.Value(), "\n") + 1)
	return m, nil
}

// submit handles Enter: build the Message, clear the textarea, run the
// slash-command engine, and either consume the input or forward it to the
// backend — spec §4.H.
func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.textarea.Value())
	if text == "" || m.state.WaitingForBackend {
		return m, nil
	}
	m.textarea.SetValue("")
	m.textarea.SetHeight(1)
	m.state.SetInputLineCount(1)
	m.state.ExitWarning = false

	if slash.IsCommand(text) {
		result := m.state.HandleSlashCommands(text)
		if result.ShouldBreak {
			m.quitting = true
			return m, tea.Quit
		}
		if result.Action != nil {
			return m, tea.Batch(m.applyEditorCmd(*result.Action), m.saveSessionCmd())
		}
		return m, m.saveSessionCmd()
	}

	m.state.AddMessage(msg.New(msg.AuthorUser, text))
	return m.startBackendRequest(text)
}

func (m *Model) resubmitLast() (tea.Model, tea.Cmd) {
	if m.state.WaitingForBackend {
		return m, nil
	}
	last, ok := m.state.LastUserMessage()
	if !ok {
		return m, nil
	}
	return m.startBackendRequest(last.Text)
}

func (m *Model) startBackendRequest(text string) (tea.Model, tea.Cmd) {
	provider := m.state.Provider()
	if provider == nil {
		m.state.AppendSystemMessage("no backend configured")
		return m, nil
	}
	m.state.WaitingForBackend = true
	m.streamID++
	id := m.streamID

	ctx, cancel := context.WithCancel(context.Background())
	m.streamCancel = cancel
	m.streamEvents = make(chan llm.Event, 16)
	m.streamErr = make(chan error, 1)
	events, errCh := m.streamEvents, m.streamErr

	req := llm.Request{
		Model:    m.state.ModelName(),
		Messages: buildRequestMessages(m.state.Messages),
		Debug:    m.log.Enabled(),
	}

	go func() {
		stream, err := provider.Stream(ctx, req)
		if err != nil {
			errCh <- err
			close(events)
			return
		}
		defer stream.Close()
		for {
			ev, err := stream.Recv()
			if err != nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				close(events)
				return
			}
			if ev.Type == llm.EventDone {
				close(events)
				return
			}
		}
	}()

	return m, tea.Batch(m.spinner.Tick, m.listenFor(id))
}

// listenCmd continues listening on the current stream after a non-done
// delta.
func (m *Model) listenCmd() tea.Cmd {
	return m.listenFor(m.streamID)
}

// listenFor returns a Cmd that blocks on the stream's channel once, the
// bubbletea idiom for bridging a goroutine-fed channel into Update
// (mirrors the teacher's streamChan <-chan ui.StreamEvent plumbing in
// internal/tui/chat/chat.go).
func (m *Model) listenFor(id int) tea.Cmd {
	events := m.streamEvents
	errCh := m.streamErr
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			select {
			case err := <-errCh:
				return backendErrMsg{streamID: id, err: err}
			default:
				return backendEventMsg{streamID: id, ev: llm.Event{Type: llm.EventDone}}
			}
		}
		return backendEventMsg{streamID: id, ev: ev}
	}
}

// abortStream drops the in-flight stream per spec §5's Cancellation: the
// loop clears WaitingForBackend itself and synthesizes no done event;
// straggler deltas are filtered by their stale streamID in Update.
func (m *Model) abortStream() {
	if m.streamCancel != nil {
		m.streamCancel()
	}
	m.streamID++ // invalidate any in-flight listenFor/backendEventMsg
	m.state.WaitingForBackend = false
}

func (m *Model) saveSessionCmd() tea.Cmd {
	if m.sess == nil {
		return nil
	}
	return func() tea.Msg {
		m.sess.Messages = m.sess.Messages[:0]
		for _, mm := range m.state.Messages {
			m.sess.AddMessage(session.Message{
				ID: mm.ID, Author: authorString(mm.Author), Text: mm.Text, CreatedAt: mm.CreatedAt,
			})
		}
		m.sess.BackendContext = m.state.BackendContext
		if err := m.sess.Save(); err != nil {
			// SessionError: written to the debug log when one is open, not
			// shown in the transcript, never interrupts the conversation.
			if m.log.Enabled() {
				m.log.Printf("session save failed: %v", err)
			}
		}
		return nil
	}
}

func authorString(a msg.Author) string {
	switch a {
	case msg.AuthorUser:
		return "user"
	case msg.AuthorAssistant:
		return "assistant"
	default:
		return "system"
	}
}

func (m *Model) applyEditorCmd(a event.Action) tea.Cmd {
	if m.editor == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.editor.Apply(ctx, a.Code, a.AcceptType); err != nil {
			m.state.AppendSystemMessage(fmt.Sprintf("editor error: %v", err))
		}
		return nil
	}
}

// bubbleMinWidth is the threshold below which View draws only the
// placeholder, per spec §4.C.
func (m *Model) bubbleMinWidth() int {
	return bubble.MinWidth(m.username, m.modelName)
}
