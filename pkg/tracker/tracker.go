// Package tracker decides, once per page load, whether this device still has
// to be counted as a visitor or only needs to read the shared total.
package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Durable flag written once this device has been counted.
const (
	FlagKey   = "visitor_tracked"
	FlagValue = "true"
)

// FlagStore is durable per-device key/value storage.
type FlagStore interface {
	// Get reports the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Counter is the backend visitor counter.
type Counter interface {
	Increment(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type Phase int

const (
	Uninitialized Phase = iota
	Initialized
)

func (p Phase) String() string {
	if p == Initialized {
		return "initialized"
	}
	return "uninitialized"
}

// State is what a page renders: the total and, on failure, why it may be stale.
type State struct {
	Phase     Phase
	Counted   bool
	Count     int64
	HasCount  bool
	LastError string
}

// Tracker is one page load. Its methods serialize on an internal mutex.
type Tracker struct {
	mu      sync.Mutex
	flags   FlagStore
	counter Counter
	log     zerolog.Logger
	state   State
}

func New(flags FlagStore, counter Counter, logger zerolog.Logger) *Tracker {
	return &Tracker{
		flags:   flags,
		counter: counter,
		log:     logger.With().Str("module", "tracker").Logger(),
	}
}

// State returns a snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Mount runs the increment-or-read decision. Only the first call on a tracker
// does anything; later calls return the current state.
func (t *Tracker) Mount(ctx context.Context) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Phase == Initialized {
		return t.state
	}
	t.state.Phase = Initialized
	if t.flagged() {
		t.state.Counted = true
		t.readOnly(ctx)
	} else {
		t.increment(ctx)
	}
	return t.state
}

// Visible is called when the page regains focus. If this device is still not
// counted, the increment is retried; otherwise nothing is sent.
func (t *Tracker) Visible(ctx context.Context) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Phase != Initialized || t.state.Counted {
		return t.state
	}
	// another page load may have counted us meanwhile
	if t.flagged() {
		t.state.Counted = true
		return t.state
	}
	t.increment(ctx)
	return t.state
}

// flagged treats an unreadable store as "not yet counted".
func (t *Tracker) flagged() bool {
	v, ok, err := t.flags.Get(FlagKey)
	if err != nil {
		t.log.Warn().Err(err).Msg("read visitor flag failed")
		return false
	}
	return ok && v == FlagValue
}

func (t *Tracker) increment(ctx context.Context) {
	n, err := t.counter.Increment(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("visitor increment failed, falling back to read-only count")
		t.state.LastError = describe(err)
		t.readOnly(ctx)
		return
	}
	t.state.Counted = true
	t.state.Count, t.state.HasCount = n, true
	t.state.LastError = ""
	if err := t.flags.Set(FlagKey, FlagValue); err != nil {
		// counted server-side; a later page load may count this device again
		t.log.Error().Err(err).Msg("persist visitor flag failed")
	}
}

func (t *Tracker) readOnly(ctx context.Context) {
	n, err := t.counter.Count(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("visitor count failed")
		if t.state.LastError == "" {
			t.state.LastError = describe(err)
		}
		return
	}
	t.state.Count, t.state.HasCount = n, true
}

// describe prefers a user-facing message when the error carries one.
func describe(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
