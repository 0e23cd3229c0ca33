package resume

import (
	"sync"
	"time"
)

// AutoCloseDelay is how long the chooser stays open after a selection.
const AutoCloseDelay = 500 * time.Millisecond

// Timer is the subset of *time.Timer the selector needs.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithScheduler replaces the wall-clock timer, mainly for tests.
func WithScheduler(s Scheduler) SelectorOption {
	return func(sel *Selector) {
		sel.schedule = s
	}
}

// Selector holds the chooser's open flag. All methods are safe for
// concurrent use and every transition method is idempotent.
type Selector struct {
	mu        sync.Mutex
	open      bool
	pending   *AutoClose
	schedule  Scheduler
	listeners map[int]func(open bool)
	nextID    int
}

// NewSelector returns a closed selector.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		schedule:  afterFunc,
		listeners: make(map[int]func(bool)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsOpen reports whether the chooser is visible.
func (s *Selector) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Open shows the chooser and drops any pending auto-close.
func (s *Selector) Open() {
	s.set(true)
}

// Close hides the chooser and drops any pending auto-close.
func (s *Selector) Close() {
	s.set(false)
}

// Select resolves o and schedules Close after AutoCloseDelay. The returned
// handle cancels that close; a later Open, Close or Select cancels it too.
func (s *Selector) Select(o Option) (Asset, *AutoClose, error) {
	asset, err := o.Asset()
	if err != nil {
		return Asset{}, nil, err
	}

	ac := &AutoClose{sel: s, option: o}

	s.mu.Lock()
	s.cancelPendingLocked()
	s.pending = ac
	ac.timer = s.schedule(AutoCloseDelay, ac.fire)
	s.mu.Unlock()

	return asset, ac, nil
}

// Subscribe registers fn for open/closed transitions. Idempotent calls do not
// notify. The returned func removes the subscription.
func (s *Selector) Subscribe(fn func(open bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Selector) set(open bool) {
	s.mu.Lock()
	s.cancelPendingLocked()
	notify := s.transitionLocked(open)
	s.mu.Unlock()

	for _, fn := range notify {
		fn(open)
	}
}

// transitionLocked flips the flag and returns the listeners to call, or nil
// when the state is unchanged.
func (s *Selector) transitionLocked(open bool) []func(bool) {
	if s.open == open {
		return nil
	}
	s.open = open
	return s.snapshotLocked()
}

func (s *Selector) cancelPendingLocked() {
	if s.pending == nil {
		return
	}
	if s.pending.timer != nil {
		s.pending.timer.Stop()
	}
	s.pending.cancelled = true
	s.pending = nil
}

func (s *Selector) snapshotLocked() []func(bool) {
	out := make([]func(bool), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

// AutoClose is the pending close scheduled by Select.
type AutoClose struct {
	sel       *Selector
	option    Option
	timer     Timer
	cancelled bool
}

// Option returns the variant whose selection scheduled this close.
func (a *AutoClose) Option() Option {
	return a.option
}

// Cancel stops the pending close. It reports whether the close was still
// pending.
func (a *AutoClose) Cancel() bool {
	s := a.sel
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != a {
		return false
	}
	s.cancelPendingLocked()
	return true
}

func (a *AutoClose) fire() {
	s := a.sel
	s.mu.Lock()
	if s.pending != a || a.cancelled {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	notify := s.transitionLocked(false)
	s.mu.Unlock()

	for _, fn := range notify {
		fn(false)
	}
}
