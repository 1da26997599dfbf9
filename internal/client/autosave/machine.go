// Package autosave decides when an in-progress edit is persisted.
//
// A Machine holds the draft of one entry. Every edit restarts a debounce
// timer; when it elapses the draft is sent through the Saver. At most one
// save is in flight at any time. A failed save keeps the draft dirty and is
// retried on the next edit or an explicit SaveAndExit.
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

const DefaultDebounce = 2000 * time.Millisecond

var (
	ErrNoEntry = errors.New("no entry loaded")
	ErrClosed  = errors.New("autosave machine closed")
)

type State int

const (
	Idle State = iota
	Dirty
	Saving
	// Error is reported to observers when a save fails; the machine then
	// settles in Dirty.
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Saver persists the content of an entry.
type Saver interface {
	SaveContent(ctx context.Context, id ids.ID, content string) error
}

// Event is delivered to observers on every state change.
type Event struct {
	Entry ids.ID
	State State
	Err   error
}

type Option func(*Machine)

func WithDebounce(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.debounce = d
		}
	}
}

func WithClock(c Clock) Option {
	return func(m *Machine) { m.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.log = l
		}
	}
}

// WithEnabled sets the initial autosave switch. Machines start disabled.
func WithEnabled(on bool) Option {
	return func(m *Machine) { m.enabled = on }
}

// WithContext sets the context background saves run with.
func WithContext(ctx context.Context) Option {
	return func(m *Machine) { m.ctx = ctx }
}

type Machine struct {
	saver    Saver
	clock    Clock
	debounce time.Duration
	log      logging.Logger
	ctx      context.Context

	mu      sync.Mutex
	enabled bool
	closed  bool

	loaded  bool
	entry   ids.ID
	session uint64

	draft    string
	rev      uint64
	savedRev uint64

	state   State
	lastErr error

	timer    Timer
	timerGen uint64
	// fireLater records a debounce that elapsed while a save was in flight.
	fireLater bool
	inflight  chan struct{}

	observers []func(Event)
	// notifyMu keeps observers seeing events in the order they happened.
	notifyMu sync.Mutex
	wg       sync.WaitGroup
}

func New(saver Saver, opts ...Option) *Machine {
	m := &Machine{
		saver:    saver,
		clock:    realClock{},
		debounce: DefaultDebounce,
		log:      logging.Nop(),
		ctx:      context.Background(),
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With("component", "autosave")
	return m
}

// OnChange registers an observer. Observers run on the goroutine that
// caused the change and must not call back into the machine synchronously.
func (m *Machine) OnChange(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Load starts editing entry with the content last confirmed by the server.
// A save still in flight for the previous entry completes but no longer
// affects the machine.
func (m *Machine) Load(entry ids.ID, content string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.stopTimerLocked()
	m.session++
	m.loaded = true
	m.entry = entry
	m.draft = content
	m.rev, m.savedRev = 0, 0
	m.lastErr = nil
	m.inflight = nil
	m.fireLater = false
	ev := m.setStateLocked(Idle, nil)
	m.unlockAndNotify(ev...)
	return nil
}

// Edit replaces the draft. With autosave enabled the debounce restarts.
func (m *Machine) Edit(content string) error {
	m.mu.Lock()
	switch {
	case m.closed:
		m.mu.Unlock()
		return ErrClosed
	case !m.loaded:
		m.mu.Unlock()
		return ErrNoEntry
	case content == m.draft:
		m.mu.Unlock()
		return nil
	}

	m.draft = content
	m.rev++
	var ev []Event
	if m.state != Saving {
		ev = m.setStateLocked(Dirty, nil)
	}
	if m.enabled {
		m.restartTimerLocked()
	}
	m.unlockAndNotify(ev...)
	return nil
}

// SetEnabled flips the autosave switch. Turning it off cancels a pending
// timer but never an in-flight save; turning it on gives a dirty draft a
// fresh debounce.
func (m *Machine) SetEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.enabled == on {
		return
	}
	m.enabled = on
	if !on {
		m.stopTimerLocked()
		m.fireLater = false
		return
	}
	if m.loaded && m.rev != m.savedRev {
		m.restartTimerLocked()
	}
}

func (m *Machine) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Draft() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Entry returns the loaded entry, if any.
func (m *Machine) Entry() (ids.ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entry, m.loaded
}

// LastError returns the error of the most recent failed save, cleared by the
// next successful one.
func (m *Machine) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// SaveAndExit saves the current draft and calls exit once the save has
// succeeded. A pending debounce is cancelled and an in-flight save awaited
// first. The draft is saved even when it is not dirty. On failure exit is
// not called and the draft stays dirty.
func (m *Machine) SaveAndExit(ctx context.Context, exit func()) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if !m.loaded {
		m.mu.Unlock()
		return ErrNoEntry
	}
	m.stopTimerLocked()
	m.fireLater = false

	for m.inflight != nil {
		done := m.inflight
		m.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		m.mu.Lock()
		m.stopTimerLocked()
		m.fireLater = false
	}

	session, entry, content, rev := m.session, m.entry, m.draft, m.rev
	done := make(chan struct{})
	m.inflight = done
	ev := m.setStateLocked(Saving, nil)
	m.unlockAndNotify(ev...)

	err := m.saver.SaveContent(ctx, entry, content)

	m.mu.Lock()
	ev = m.finishSaveLocked(session, entry, done, rev, err)
	m.unlockAndNotify(ev...)
	if err != nil {
		return err
	}
	if exit != nil {
		exit()
	}
	return nil
}

// Close stops the timer and waits for an in-flight background save.
func (m *Machine) Close() {
	m.mu.Lock()
	m.closed = true
	m.stopTimerLocked()
	m.fireLater = false
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *Machine) restartTimerLocked() {
	m.stopTimerLocked()
	gen := m.timerGen
	m.timer = m.clock.AfterFunc(m.debounce, func() { m.fire(gen) })
}

func (m *Machine) stopTimerLocked() {
	m.timerGen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *Machine) fire(gen uint64) {
	m.mu.Lock()
	if gen != m.timerGen || m.closed {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	if !m.enabled || !m.loaded {
		m.mu.Unlock()
		return
	}
	if m.inflight != nil {
		m.fireLater = true
		m.mu.Unlock()
		return
	}
	if m.rev == m.savedRev {
		m.mu.Unlock()
		return
	}
	ev := m.startSaveLocked()
	m.unlockAndNotify(ev...)
}

func (m *Machine) startSaveLocked() []Event {
	session, entry, content, rev := m.session, m.entry, m.draft, m.rev
	done := make(chan struct{})
	m.inflight = done
	ev := m.setStateLocked(Saving, nil)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		err := m.saver.SaveContent(m.ctx, entry, content)

		m.mu.Lock()
		ev := m.finishSaveLocked(session, entry, done, rev, err)
		m.unlockAndNotify(ev...)
	}()
	return ev
}

// finishSaveLocked records the outcome of the save of revision rev.
func (m *Machine) finishSaveLocked(session uint64, entry ids.ID, done chan struct{}, rev uint64, err error) []Event {
	close(done)
	if err != nil {
		m.log.Error(m.ctx, "autosave failed", "entry_id", entry, "error", err)
	}
	if session != m.session {
		return nil
	}
	m.inflight = nil

	var ev []Event
	if err != nil {
		m.lastErr = err
		ev = append(ev, m.setStateLocked(Error, err)...)
		ev = append(ev, m.setStateLocked(Dirty, err)...)
	} else {
		m.savedRev = max(m.savedRev, rev)
		m.lastErr = nil
		if m.rev == m.savedRev {
			ev = m.setStateLocked(Idle, nil)
		} else {
			ev = m.setStateLocked(Dirty, nil)
		}
	}

	if m.fireLater {
		m.fireLater = false
		if m.enabled && !m.closed && m.rev != m.savedRev {
			ev = append(ev, m.startSaveLocked()...)
		}
	}
	return ev
}

func (m *Machine) setStateLocked(s State, err error) []Event {
	if m.state == s && err == nil {
		return nil
	}
	m.state = s
	if s == Error {
		m.state = Dirty
	}
	return []Event{{Entry: m.entry, State: s, Err: err}}
}

func (m *Machine) unlockAndNotify(ev ...Event) {
	obs := m.observers
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	m.mu.Unlock()
	for _, e := range ev {
		for _, fn := range obs {
			fn(e)
		}
	}
}
