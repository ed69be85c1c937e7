package toast

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/petermattis/goid"
	"github.com/rs/zerolog"
)

// Registry keeps the ordered collection of active toasts and removes each one
// once its lifetime has elapsed.
type Registry struct {
	// opMu serializes a mutation together with the delivery of its events.
	// owner holds the goroutine id of the current holder so observers can
	// mutate without deadlocking on it.
	opMu  sync.Mutex
	owner atomic.Int64

	mu         sync.Mutex
	clock      clock.Clock
	lifetimes  Lifetimes
	maxVisible int
	logger     zerolog.Logger

	order   []string
	entries map[string]*entry
	gen     uint64
	closed  bool

	observers []subscription
	nextSub   int
	pending   []Event
}

type entry struct {
	msg   Message
	timer *clock.Timer
	// gen identifies the timer currently armed for this entry. A timer that
	// fires with an older gen belongs to a previous arming and does nothing.
	gen uint64
}

type subscription struct {
	id int
	fn Observer
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLifetimes overrides the default lifetime of the given categories.
func WithLifetimes(l Lifetimes) Option {
	return func(r *Registry) {
		for category, d := range l {
			r.lifetimes[category] = d
		}
	}
}

// WithMaxVisible caps the number of active toasts. The oldest toasts are
// evicted when the cap is exceeded. Zero means no cap.
func WithMaxVisible(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxVisible = n
		}
	}
}

// WithLogger sets the logger used for lifecycle debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock:     clock.New(),
		lifetimes: DefaultLifetimes(),
		logger:    zerolog.Nop(),
		entries:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Show appends m to the tail of the collection and schedules its removal.
// The registry always assigns a fresh ID; any ID set on m is ignored.
func (r *Registry) Show(m Message) (Message, error) {
	m.Title = strings.TrimSpace(m.Title)
	if err := m.validate(); err != nil {
		return Message{}, err
	}

	nested := r.begin()
	defer r.end(nested)

	r.mu.Lock()
	m.ID = uuid.NewString()
	now := r.clock.Now()
	m.Lifetime = r.lifetimes.resolve(m)
	m.CreatedAt = now
	m.ExpiresAt = expiry(now, m.Lifetime)

	e := &entry{msg: m}
	r.entries[m.ID] = e
	r.order = append(r.order, m.ID)
	r.arm(e)
	r.queue(EventShown, m)
	r.logger.Debug().Str("id", m.ID).Str("category", string(m.Category)).Dur("lifetime", m.Lifetime).Msg("toast shown")

	for r.maxVisible > 0 && len(r.order) > r.maxVisible {
		evicted := r.remove(r.order[0])
		r.queue(EventEvicted, evicted)
		r.logger.Debug().Str("id", evicted.ID).Msg("toast evicted")
	}
	r.mu.Unlock()
	return m, nil
}

// Success shows a success toast with the category's default lifetime.
func (r *Registry) Success(title, body string) (Message, error) {
	return r.Show(Message{Category: CategorySuccess, Title: title, Body: body})
}

// Error shows an error toast with the category's default lifetime.
func (r *Registry) Error(title, body string) (Message, error) {
	return r.Show(Message{Category: CategoryError, Title: title, Body: body})
}

// Warning shows a warning toast with the category's default lifetime.
func (r *Registry) Warning(title, body string) (Message, error) {
	return r.Show(Message{Category: CategoryWarning, Title: title, Body: body})
}

// Info shows an info toast with the category's default lifetime.
func (r *Registry) Info(title, body string) (Message, error) {
	return r.Show(Message{Category: CategoryInfo, Title: title, Body: body})
}

// Loading shows a loading toast. Loading toasts are sticky unless configured
// otherwise and are usually finished with Update.
func (r *Registry) Loading(title, body string) (Message, error) {
	return r.Show(Message{Category: CategoryLoading, Title: title, Body: body})
}

// Update replaces the content of an active toast while keeping its ID and
// position, and restarts its lifetime.
func (r *Registry) Update(id string, next Message) (Message, error) {
	next.Title = strings.TrimSpace(next.Title)
	if err := next.validate(); err != nil {
		return Message{}, err
	}

	nested := r.begin()
	defer r.end(nested)

	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return Message{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	now := r.clock.Now()
	next.ID = id
	next.CreatedAt = e.msg.CreatedAt
	next.Lifetime = r.lifetimes.resolve(next)
	next.ExpiresAt = expiry(now, next.Lifetime)
	e.msg = next
	r.arm(e)
	r.queue(EventUpdated, next)
	r.logger.Debug().Str("id", id).Str("category", string(next.Category)).Msg("toast updated")
	r.mu.Unlock()
	return next, nil
}

// Dismiss removes the toast with the given id. Dismissing an unknown or
// already removed toast is a no-op and reports false.
func (r *Registry) Dismiss(id string) bool {
	nested := r.begin()
	defer r.end(nested)

	r.mu.Lock()
	if _, ok := r.entries[id]; !ok {
		r.mu.Unlock()
		return false
	}
	m := r.remove(id)
	r.queue(EventDismissed, m)
	r.logger.Debug().Str("id", id).Msg("toast dismissed")
	r.mu.Unlock()
	return true
}

// DismissAll empties the collection and reports how many toasts it removed.
func (r *Registry) DismissAll() int {
	nested := r.begin()
	defer r.end(nested)

	r.mu.Lock()
	n := len(r.order)
	for _, e := range r.entries {
		stopTimer(e)
	}
	r.entries = make(map[string]*entry)
	r.order = nil
	r.queue(EventCleared, Message{})
	r.logger.Debug().Int("count", n).Msg("toasts cleared")
	r.mu.Unlock()
	return n
}

// Active returns the active toasts, oldest first.
func (r *Registry) Active() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Get looks up an active toast.
func (r *Registry) Get(id string) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return Message{}, false
	}
	return e.msg, true
}

// Len exposes the active count.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Events are delivered one at a time in mutation order, and a
// mutating call returns only after its events have reached every observer.
// Observers may call back into the registry; the resulting events are
// delivered after the current one returns.
func (r *Registry) Subscribe(fn Observer) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSub++
	id := r.nextSub
	r.observers = append(r.observers, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.observers = slices.DeleteFunc(r.observers, func(s subscription) bool {
				return s.id == id
			})
		})
	}
}

// Close stops every pending expiry. Toasts shown afterwards never expire.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for _, e := range r.entries {
		stopTimer(e)
	}
}

func (r *Registry) arm(e *entry) {
	stopTimer(e)
	r.gen++
	e.gen = r.gen
	if e.msg.Sticky() || r.closed {
		return
	}
	id, gen := e.msg.ID, e.gen
	e.timer = r.clock.AfterFunc(e.msg.Lifetime, func() {
		r.expire(id, gen)
	})
}

func (r *Registry) expire(id string, gen uint64) {
	nested := r.begin()
	defer r.end(nested)

	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok || e.gen != gen || r.closed {
		r.mu.Unlock()
		return
	}
	m := r.remove(id)
	r.queue(EventExpired, m)
	r.logger.Debug().Str("id", id).Msg("toast expired")
	r.mu.Unlock()
}

// remove must be called with mu held and id present.
func (r *Registry) remove(id string) Message {
	e := r.entries[id]
	stopTimer(e)
	delete(r.entries, id)
	r.order = removeID(r.order, id)
	return e.msg
}

func (r *Registry) snapshot() []Message {
	items := make([]Message, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.entries[id]; ok {
			items = append(items, e.msg)
		}
	}
	return items
}

func (r *Registry) queue(kind EventKind, m Message) {
	if len(r.observers) == 0 {
		return
	}
	r.pending = append(r.pending, Event{Kind: kind, Toast: m, Active: r.snapshot()})
}

// begin claims the right to mutate and deliver. It reports nested when the
// calling goroutine already holds it, which only happens from inside an
// observer.
func (r *Registry) begin() (nested bool) {
	id := goid.Get()
	if r.owner.Load() == id {
		return true
	}
	r.opMu.Lock()
	r.owner.Store(id)
	return false
}

// end delivers everything queued so far, including events from nested
// calls, then releases the claim taken by begin.
func (r *Registry) end(nested bool) {
	if nested {
		return
	}
	defer func() {
		r.owner.Store(0)
		r.opMu.Unlock()
	}()

	for {
		r.mu.Lock()
		if len(r.pending) == 0 {
			r.pending = nil
			r.mu.Unlock()
			return
		}
		ev := r.pending[0]
		r.pending = r.pending[1:]
		observers := slices.Clone(r.observers)
		r.mu.Unlock()

		for _, sub := range observers {
			sub.fn(ev)
		}
	}
}

func stopTimer(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func expiry(now time.Time, lifetime time.Duration) time.Time {
	if lifetime < 0 {
		return time.Time{}
	}
	return now.Add(lifetime)
}

func removeID(items []string, id string) []string {
	out := items[:0]
	for _, existing := range items {
		if existing == id {
			continue
		}
		out = append(out, existing)
	}
	return out
}
