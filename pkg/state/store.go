// Package state holds the authoritative application state. The store is the
// only place AppState is ever mutated: every change goes through SetState,
// which diffs the proposed state against the current one field by field and
// notifies subscribers synchronously when something actually changed.
package state

import (
	"errors"
	"reflect"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

// DefaultUndoCapacity bounds the undo stack when no capacity is configured
const DefaultUndoCapacity = 10

// Field names reported in Change.ChangedProperties
const (
	FieldSelectedCellCount = "SelectedCellCount"
	FieldParsedData        = "ParsedData"
	FieldUndoStack         = "UndoStack"
	FieldCurrentMode       = "CurrentMode"
	FieldIsProcessing      = "IsProcessing"
	FieldIsInitialized     = "IsInitialized"
)

// ErrReentrantUpdate is logged when SetState is called while subscribers are
// still being notified of a previous commit. The nested call is dropped.
var ErrReentrantUpdate = errors.New("state: update during notification dropped")

// Change is delivered to subscribers after every effective commit
type Change struct {
	PreviousState     models.AppState
	CurrentState      models.AppState
	ChangedProperties []string
}

// Has reports whether the named field changed in this commit
func (c Change) Has(field string) bool {
	for _, f := range c.ChangedProperties {
		if f == field {
			return true
		}
	}
	return false
}

// Listener receives committed changes
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// Store owns the AppState. It follows a single-writer model: SetState may be
// called from one goroutine at a time, and a write that arrives while
// subscribers are being notified is dropped rather than queued.
type Store struct {
	mu           sync.Mutex
	state        models.AppState
	listeners    []subscription
	nextID       int
	notifying    bool
	undoCapacity int
	dropped      int
	logger       *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUndoCapacity sets the maximum undo stack length
func WithUndoCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.undoCapacity = n
		}
	}
}

// NewStore creates a store holding the default empty state
func NewStore(opts ...Option) *Store {
	s := &Store{
		undoCapacity: DefaultUndoCapacity,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns a deep copy of the current state
func (s *Store) GetState() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// UndoCapacity returns the configured undo stack bound
func (s *Store) UndoCapacity() int {
	return s.undoCapacity
}

// DroppedUpdates counts SetState calls discarded by the re-entrancy guard
func (s *Store) DroppedUpdates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Subscribe registers fn for every future commit and returns its unsubscribe function
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// SetState applies mutate to a copy of the current state. If no field differs
// afterwards nothing is committed and nobody is notified. mutate runs under
// the store lock and must not call back into the store.
func (s *Store) SetState(mutate func(*models.AppState)) {
	s.commit(mutate)
}

func (s *Store) commit(mutate func(*models.AppState)) bool {
	s.mu.Lock()
	if s.notifying {
		s.dropped++
		s.mu.Unlock()
		s.logger.Warn("Dropping state update", zap.Error(ErrReentrantUpdate))
		return false
	}

	previous := s.state.Clone()
	next := s.state.Clone()
	mutate(&next)

	changed := diffFields(previous, next)
	if len(changed) == 0 {
		s.mu.Unlock()
		return false
	}

	next = next.Clone()
	s.state = next
	s.notifying = true
	listeners := append([]subscription(nil), s.listeners...)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.notifying = false
		s.mu.Unlock()
	}()

	s.logger.Debug("State committed", zap.Strings("changed", changed))
	for _, sub := range listeners {
		sub.fn(Change{
			PreviousState:     previous.Clone(),
			CurrentState:      next.Clone(),
			ChangedProperties: changed,
		})
	}
	return true
}

// diffFields walks AppState's fields and returns the names of those that are
// not deep-equal. cmp.Equal uses time.Time.Equal, so timestamps compare by instant.
func diffFields(a, b models.AppState) []string {
	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	t := va.Type()

	var changed []string
	for i := 0; i < t.NumField(); i++ {
		if !cmp.Equal(va.Field(i).Interface(), vb.Field(i).Interface(), cmpOptions...) {
			changed = append(changed, t.Field(i).Name)
		}
	}
	return changed
}

// An empty undo stack compares equal whether it is nil or zero-length
var cmpOptions = []cmp.Option{cmpopts.EquateEmpty()}
