package app

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nateberkopec/toastdemo/internal/toast"
)

func newTestModel(t *testing.T, cfg Config) (*Model, *toast.Registry, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	if cfg.Registry == nil {
		cfg.Registry = toast.NewRegistry(toast.WithClock(mock))
	}
	t.Cleanup(cfg.Registry.Close)

	m := New(cfg)
	now := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return now }
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 24})
	return m, cfg.Registry, mock
}

func press(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func click(m *Model, x, y int) {
	m.Update(tea.MouseMsg{
		X:      x,
		Y:      y,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionPress,
		Type:   tea.MouseLeft,
	})
}

// runCmd executes cmd and any batched children, returning the leaf messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestHotkeysShowToasts(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})

	for _, key := range []string{"s", "e", "w", "i"} {
		press(m, key)
	}

	active := registry.Active()
	if len(active) != 4 {
		t.Fatalf("expected 4 toasts, got %d", len(active))
	}
	wantCategories := []toast.Category{toast.CategorySuccess, toast.CategoryError, toast.CategoryWarning, toast.CategoryInfo}
	for i, c := range wantCategories {
		if active[i].Category != c {
			t.Fatalf("expected %s at position %d, got %s", c, i, active[i].Category)
		}
	}

	view := m.View()
	if !strings.Contains(view, "Success!") || !strings.Contains(view, "4 active") {
		t.Fatalf("expected toasts in view:\n%s", view)
	}
}

func TestSelectAndRunAction(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})

	press(m, "j")
	press(m, "j")
	press(m, "enter")

	active := registry.Active()
	if len(active) != 1 || active[0].Category != toast.CategoryWarning {
		t.Fatalf("expected a warning toast, got %+v", active)
	}

	press(m, "G")
	press(m, "enter")
	if registry.Len() != 0 {
		t.Fatalf("expected dismiss all action to clear, got %d", registry.Len())
	}
	if m.status.text != "Dismissed 1 toast(s)" {
		t.Fatalf("unexpected status %q", m.status.text)
	}
}

func TestDismissKeys(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})

	press(m, "s")
	press(m, "i")
	press(m, "d")

	active := registry.Active()
	if len(active) != 1 || active[0].Category != toast.CategorySuccess {
		t.Fatalf("expected newest toast to be dismissed, got %+v", active)
	}

	press(m, "D")
	if registry.Len() != 0 {
		t.Fatalf("expected all toasts dismissed, got %d", registry.Len())
	}

	press(m, "d")
	if m.status.text != "No toasts to dismiss" {
		t.Fatalf("unexpected status %q", m.status.text)
	}
}

func TestClickDismissesToast(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})

	press(m, "s")
	press(m, "e")
	m.View()

	if len(m.toastAreas) != 2 {
		t.Fatalf("expected 2 toast areas, got %d", len(m.toastAreas))
	}
	target := m.toastAreas[1]
	click(m, target.left+1, target.top)

	active := registry.Active()
	if len(active) != 1 || active[0].Category != toast.CategorySuccess {
		t.Fatalf("expected clicked toast to be dismissed, got %+v", active)
	}
	if !strings.Contains(m.status.text, "Something went wrong") {
		t.Fatalf("unexpected status %q", m.status.text)
	}
}

func TestClickRunsAction(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})
	m.View()

	// Row 0 of the action area is its header; row 4 is the Info action.
	click(m, 1, m.actionArea.top+4)

	active := registry.Active()
	if len(active) != 1 || active[0].Category != toast.CategoryInfo {
		t.Fatalf("expected info toast, got %+v", active)
	}
	if m.selectedIndex != 3 {
		t.Fatalf("expected selection to follow click, got %d", m.selectedIndex)
	}
}

func TestExpiryReachesEventLoop(t *testing.T) {
	m, registry, mock := newTestModel(t, Config{})

	press(m, "s")
	// Drain the signal from Show.
	<-m.changes

	mock.Add(3 * time.Second)

	select {
	case <-m.changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal after expiry")
	}
	if registry.Len() != 0 {
		t.Fatalf("expected toast to expire, got %d", registry.Len())
	}
	if strings.Contains(m.View(), "Success!") {
		t.Fatal("expected expired toast to disappear from view")
	}
}

func TestWaitForChangeProducesMsg(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})

	registry.Info("hello", "")
	msg := waitForChange(m.changes)()
	if _, ok := msg.(toastsChangedMsg); !ok {
		t.Fatalf("expected toastsChangedMsg, got %T", msg)
	}

	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("expected model to keep listening for changes")
	}
}

func TestLoadingResolvesToSuccess(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})

	if cmd := press(m, "l"); cmd == nil {
		t.Fatal("expected a resolve timer command")
	}
	active := registry.Active()
	if len(active) != 1 || active[0].Category != toast.CategoryLoading || !active[0].Sticky() {
		t.Fatalf("expected sticky loading toast, got %+v", active)
	}

	m.Update(loadingDoneMsg{ID: active[0].ID})

	resolved, ok := registry.Get(active[0].ID)
	if !ok || resolved.Category != toast.CategorySuccess || resolved.Title != "Upload complete" {
		t.Fatalf("expected resolved success toast, got %+v ok=%v", resolved, ok)
	}
	if m.status.kind != statusSuccess {
		t.Fatalf("expected success status, got %v", m.status.kind)
	}
}

func TestLoadingResolveAfterDismissIsNoop(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})

	press(m, "l")
	id := registry.Active()[0].ID
	registry.Dismiss(id)

	_, cmd := m.Update(loadingDoneMsg{ID: id})
	if cmd != nil {
		t.Fatal("expected no command for a dismissed loading toast")
	}
	if registry.Len() != 0 || m.status.kind == statusError {
		t.Fatalf("expected nothing to change, len=%d status=%q", registry.Len(), m.status.text)
	}
}

func TestInputShowsCustomToastWithHistory(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})

	press(m, "tab")
	if m.focus != focusInput {
		t.Fatal("expected input focus")
	}
	press(m, "first")
	press(m, "enter")
	press(m, "second")
	press(m, "enter")

	active := registry.Active()
	if len(active) != 2 || active[0].Title != "first" || active[1].Category != toast.CategoryInfo {
		t.Fatalf("unexpected toasts %+v", active)
	}

	press(m, "up")
	if m.input.Value() != "second" {
		t.Fatalf("expected history entry, got %q", m.input.Value())
	}
	press(m, "up")
	if m.input.Value() != "first" {
		t.Fatalf("expected older history entry, got %q", m.input.Value())
	}
	press(m, "down")
	press(m, "down")
	if m.input.Value() != "" {
		t.Fatalf("expected to return to empty input, got %q", m.input.Value())
	}

	press(m, "enter")
	if m.status.text != "Type a message first" {
		t.Fatalf("unexpected status %q", m.status.text)
	}
}

func TestStatusExpires(t *testing.T) {
	m, _, _ := newTestModel(t, Config{StatusTimeout: time.Second})

	m.setStatus("hello", statusNeutral)
	later := m.now().Add(2 * time.Second)
	m.now = func() time.Time { return later }

	m.Update(struct{}{})
	if m.status.text != "" {
		t.Fatalf("expected status to expire, got %q", m.status.text)
	}
}

func TestDesktopMirror(t *testing.T) {
	var (
		mu   sync.Mutex
		sent []toast.Message
	)
	original := desktopNotify
	desktopNotify = func(msg toast.Message) error {
		mu.Lock()
		defer mu.Unlock()
		sent = append(sent, msg)
		if msg.Category == toast.CategoryError {
			return errors.New("no notification daemon")
		}
		return nil
	}
	t.Cleanup(func() { desktopNotify = original })

	m, _, _ := newTestModel(t, Config{DesktopNotify: true})

	if msgs := runCmd(press(m, "s")); len(msgs) != 1 || msgs[0] != nil {
		t.Fatalf("expected a silent desktop command, got %v", msgs)
	}
	msgs := runCmd(press(m, "e"))
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %v", msgs)
	}
	if _, ok := msgs[0].(desktopErrMsg); !ok {
		t.Fatalf("expected desktopErrMsg, got %T", msgs[0])
	}
	m.Update(msgs[0])

	mu.Lock()
	defer mu.Unlock()
	if len(sent) != 2 || sent[0].Title != "Success!" {
		t.Fatalf("unexpected desktop notifications %+v", sent)
	}
}

func TestDesktopMirrorDisabled(t *testing.T) {
	m, _, _ := newTestModel(t, Config{})
	if cmd := press(m, "s"); cmd != nil {
		t.Fatal("expected no command when desktop notifications are off")
	}
}

func TestQuitUnsubscribes(t *testing.T) {
	m, registry, _ := newTestModel(t, Config{})

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}

	registry.Info("after quit", "")
	select {
	case <-m.changes:
		t.Fatal("expected no change signal after quit")
	default:
	}
}

func TestAreaContains(t *testing.T) {
	a := area{top: 2, height: 3, left: 10, width: 5}
	if !a.contains(10, 2) || !a.contains(14, 4) {
		t.Fatal("expected points inside the area")
	}
	if a.contains(9, 2) || a.contains(15, 2) || a.contains(10, 5) || a.contains(10, 1) {
		t.Fatal("expected points outside the area")
	}
	open := area{top: 0, height: 1}
	if !open.contains(500, 0) {
		t.Fatal("expected zero width to span to the right edge")
	}
}
