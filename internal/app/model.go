package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nateberkopec/toastdemo/internal/toast"
)

type focusArea int

const (
	focusActions focusArea = iota
	focusInput
)

type statusKind int

const (
	statusNeutral statusKind = iota
	statusError
	statusSuccess
)

type statusMessage struct {
	text    string
	kind    statusKind
	expires time.Time
}

type area struct {
	top    int
	height int
	left   int
	width  int // zero spans to the right edge
}

type toastArea struct {
	area
	id string
}

// Config wires external dependencies for the app.
type Config struct {
	Registry       *toast.Registry
	Logger         *zerolog.Logger
	StatusTimeout  time.Duration
	LoadingResolve time.Duration
	DesktopNotify  bool
}

// Model implements the Bubble Tea program.
type Model struct {
	registry    *toast.Registry
	logger      zerolog.Logger
	changes     chan struct{}
	unsubscribe func()

	statusTimeout  time.Duration
	loadingResolve time.Duration
	desktopNotify  bool

	focus         focusArea
	selectedIndex int
	width         int
	height        int

	input textinput.Model
	spin  spinner.Model

	status statusMessage

	actionArea area
	inputArea  area
	toastAreas []toastArea

	history      []string
	historyIndex int
	tempInput    string

	now func() time.Time
}

// New creates a Bubble Tea model that renders the registry and subscribes to
// its changes.
func New(cfg Config) *Model {
	registry := cfg.Registry
	if registry == nil {
		registry = toast.NewRegistry()
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	statusTimeout := cfg.StatusTimeout
	if statusTimeout <= 0 {
		statusTimeout = 10 * time.Second
	}
	loadingResolve := cfg.LoadingResolve
	if loadingResolve <= 0 {
		loadingResolve = 2 * time.Second
	}

	ti := textinput.New()
	ti.Placeholder = "Type a message and press enter to toast it"
	ti.Prompt = ""
	ti.CharLimit = 120
	ti.Blur()

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))

	m := &Model{
		registry:       registry,
		logger:         logger,
		changes:        make(chan struct{}, 1),
		statusTimeout:  statusTimeout,
		loadingResolve: loadingResolve,
		desktopNotify:  cfg.DesktopNotify,
		input:          ti,
		spin:           sp,
		now:            time.Now,
	}

	// Bursts of registry events collapse into one pending signal; the view
	// always reads the latest snapshot.
	m.unsubscribe = registry.Subscribe(func(ev toast.Event) {
		m.logger.Debug().Str("event", ev.Kind.String()).Str("id", ev.Toast.ID).Int("active", len(ev.Active)).Msg("registry changed")
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})

	return m
}

// Init satisfies the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	spinCmd := func() tea.Msg { return m.spin.Tick() }
	return tea.Batch(textinput.Blink, waitForChange(m.changes), spinCmd)
}

// Update drives the Bubble Tea state machine.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.maybeExpireStatus()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.configureLayout()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case toastsChangedMsg:
		return m, waitForChange(m.changes)
	case loadingDoneMsg:
		return m, m.resolveLoading(msg.ID)
	case desktopErrMsg:
		m.logger.Warn().Err(msg.Err).Msg("desktop notification failed")
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the TUI.
func (m *Model) View() string {
	return renderView(m)
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.MouseLeft:
		for _, ta := range m.toastAreas {
			if ta.contains(msg.X, msg.Y) {
				m.dismiss(ta.id)
				return m, nil
			}
		}
		if m.actionArea.contains(msg.X, msg.Y) {
			row := msg.Y - m.actionArea.top
			if row <= 0 {
				return m, nil
			}
			index := row - 1
			if index >= 0 && index < len(demoActions) {
				m.selectedIndex = index
				m.setFocus(focusActions)
				return m, m.runAction(demoActions[index])
			}
		} else if m.inputArea.contains(msg.X, msg.Y) {
			m.setFocus(focusInput)
		}
	case tea.MouseWheelUp:
		m.moveSelection(-1)
	case tea.MouseWheelDown:
		m.moveSelection(1)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c", "ctrl+d":
		return m, m.quit()
	case "tab", "shift+tab":
		m.toggleFocus()
		if m.focus == focusInput {
			return m, nil
		}
	case "esc":
		m.setFocus(focusActions)
	}

	if m.focus == focusInput {
		switch key {
		case "enter":
			return m.submitInput()
		case "up":
			m.navigateHistoryUp()
			return m, nil
		case "down":
			m.navigateHistoryDown()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if action, ok := actionForKey(key); ok {
		return m, m.runAction(action)
	}

	switch key {
	case "q":
		return m, m.quit()
	case "j", "down":
		m.moveSelection(1)
	case "k", "up":
		m.moveSelection(-1)
	case "g", "home":
		m.selectedIndex = 0
	case "G", "end":
		m.selectedIndex = len(demoActions) - 1
	case "enter", " ":
		return m, m.runAction(demoActions[m.selectedIndex])
	case "d":
		m.dismissNewest()
	}

	return m, nil
}

func (m *Model) quit() tea.Cmd {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return tea.Quit
}

func (m *Model) runAction(action demoAction) tea.Cmd {
	if action.dismissAll {
		n := m.registry.DismissAll()
		m.setStatus(fmt.Sprintf("Dismissed %d toast(s)", n), statusNeutral)
		return nil
	}

	msg, err := m.registry.Show(toast.Message{
		Category: action.category,
		Title:    action.title,
		Body:     action.body,
	})
	if err != nil {
		m.setStatus(err.Error(), statusError)
		return nil
	}

	cmds := []tea.Cmd{m.notifyDesktop(msg)}
	if msg.Category == toast.CategoryLoading {
		id := msg.ID
		cmds = append(cmds, tea.Tick(m.loadingResolve, func(time.Time) tea.Msg {
			return loadingDoneMsg{ID: id}
		}))
	}
	return tea.Batch(cmds...)
}

// resolveLoading turns a finished loading toast into a success toast. The
// user may have dismissed it in the meantime, which is fine.
func (m *Model) resolveLoading(id string) tea.Cmd {
	msg, err := m.registry.Update(id, toast.Message{
		Category: toast.CategorySuccess,
		Title:    "Upload complete",
		Body:     "All files were uploaded.",
	})
	if errors.Is(err, toast.ErrNotFound) {
		return nil
	}
	if err != nil {
		m.setStatus(err.Error(), statusError)
		return nil
	}
	m.setStatus("Upload finished", statusSuccess)
	return m.notifyDesktop(msg)
}

func (m *Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.setStatus("Type a message first", statusNeutral)
		return m, nil
	}

	msg, err := m.registry.Info(value, "")
	if err != nil {
		m.setStatus(err.Error(), statusError)
		return m, nil
	}

	// Skip duplicates of the most recent entry.
	if len(m.history) == 0 || m.history[len(m.history)-1] != value {
		m.history = append(m.history, value)
	}
	m.historyIndex = len(m.history)
	m.tempInput = ""

	m.input.SetValue("")
	return m, m.notifyDesktop(msg)
}

func (m *Model) dismiss(id string) {
	msg, ok := m.registry.Get(id)
	if !ok || !m.registry.Dismiss(id) {
		return
	}
	m.setStatus(fmt.Sprintf("Dismissed %q", msg.Title), statusNeutral)
}

func (m *Model) dismissNewest() {
	active := m.registry.Active()
	if len(active) == 0 {
		m.setStatus("No toasts to dismiss", statusNeutral)
		return
	}
	m.dismiss(active[len(active)-1].ID)
}

func (m *Model) notifyDesktop(msg toast.Message) tea.Cmd {
	if !m.desktopNotify {
		return nil
	}
	return desktopCmd(msg)
}

func (m *Model) moveSelection(delta int) {
	m.selectedIndex += delta
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
	if m.selectedIndex >= len(demoActions) {
		m.selectedIndex = len(demoActions) - 1
	}
}

func (m *Model) toggleFocus() {
	if m.focus == focusActions {
		m.setFocus(focusInput)
	} else {
		m.setFocus(focusActions)
	}
}

func (m *Model) setFocus(area focusArea) {
	if m.focus == area {
		return
	}
	m.focus = area
	if area == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) navigateHistoryUp() {
	if len(m.history) == 0 {
		return
	}

	// Remember what was being typed before walking back.
	if m.historyIndex == len(m.history) {
		m.tempInput = m.input.Value()
	}

	if m.historyIndex > 0 {
		m.historyIndex--
		m.input.SetValue(m.history[m.historyIndex])
		m.input.CursorEnd()
	}
}

func (m *Model) navigateHistoryDown() {
	if len(m.history) == 0 {
		return
	}

	if m.historyIndex < len(m.history) {
		m.historyIndex++
		if m.historyIndex == len(m.history) {
			m.input.SetValue(m.tempInput)
		} else {
			m.input.SetValue(m.history[m.historyIndex])
		}
		m.input.CursorEnd()
	}
}

func (m *Model) configureLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.inputArea = area{
		top:    m.height - inputHeight - statusHeight,
		height: inputHeight,
	}
	m.actionArea = area{
		top:    titleHeight,
		height: m.bodyHeight(),
		width:  m.width - toastColumnWidth(m.width) - len(columnGap),
	}
	m.input.Width = max(10, m.width-4)
}

func (m *Model) bodyHeight() int {
	rows := m.height - (titleHeight + helpHeight + inputHeight + statusHeight)
	if rows < len(demoActions)+1 {
		rows = len(demoActions) + 1
	}
	return rows
}

func (m *Model) setStatus(text string, kind statusKind) {
	if text == "" {
		m.status = statusMessage{}
		return
	}
	m.status = statusMessage{
		text:    text,
		kind:    kind,
		expires: m.now().Add(m.statusTimeout),
	}
}

func (m *Model) maybeExpireStatus() {
	if m.status.text == "" {
		return
	}
	if m.now().After(m.status.expires) {
		m.status = statusMessage{}
	}
}

func (a area) contains(x, y int) bool {
	if y < a.top || y >= a.top+a.height || x < a.left {
		return false
	}
	return a.width <= 0 || x < a.left+a.width
}

type toastsChangedMsg struct{}

type loadingDoneMsg struct {
	ID string
}

type desktopErrMsg struct {
	Err error
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return toastsChangedMsg{}
	}
}
