package toast

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category drives how a toast is presented. The set is closed.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
	CategoryWarning Category = "warning"
	CategoryInfo    Category = "info"
	CategoryLoading Category = "loading"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategorySuccess,
	CategoryError,
	CategoryWarning,
	CategoryInfo,
	CategoryLoading,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySuccess, CategoryError, CategoryWarning, CategoryInfo, CategoryLoading:
		return true
	default:
		return false
	}
}

// Sticky as a Lifetime keeps a toast until it is dismissed.
const Sticky time.Duration = -1

var (
	ErrEmptyTitle      = errors.New("toast title is required")
	ErrUnknownCategory = errors.New("unknown toast category")
	ErrNotFound        = errors.New("toast not found")
)

// Message is a single toast notification.
type Message struct {
	ID       string
	Category Category
	Title    string
	Body     string
	// Lifetime is how long the toast stays before it is removed automatically.
	// Zero picks the registry default for the category; Sticky disables expiry.
	Lifetime time.Duration

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Sticky reports whether the message never expires on its own.
func (m Message) Sticky() bool {
	return m.Lifetime < 0
}

func (m Message) validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	if !m.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, m.Category)
	}
	return nil
}

// Lifetimes holds the default lifetime per category. A non-positive value
// makes toasts of that category sticky.
type Lifetimes map[Category]time.Duration

// DefaultLifetimes returns the lifetimes used when none are configured.
func DefaultLifetimes() Lifetimes {
	return Lifetimes{
		CategorySuccess: 3 * time.Second,
		CategoryInfo:    3 * time.Second,
		CategoryWarning: 4 * time.Second,
		CategoryError:   5 * time.Second,
		CategoryLoading: Sticky,
	}
}

func (l Lifetimes) resolve(m Message) time.Duration {
	if m.Lifetime != 0 {
		return m.Lifetime
	}
	d, ok := l[m.Category]
	if !ok {
		d = DefaultLifetimes()[m.Category]
	}
	if d <= 0 {
		return Sticky
	}
	return d
}
