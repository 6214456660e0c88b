package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fitlog/internal/tracker"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultDebounce    = 500 * time.Millisecond
	DefaultPushTimeout = 30 * time.Second
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusError   Status = "error"
)

// Remote is the store the local state is reconciled with.
type Remote interface {
	// Load returns the aggregate document; nil parts mean no data yet.
	Load(ctx context.Context) (*tracker.State, error)
	// Save replaces the aggregate document and returns the time it was stored.
	Save(ctx context.Context, state tracker.State) (time.Time, error)
	LoadSettings(ctx context.Context) (*tracker.UserSettings, error)
	SaveSettings(ctx context.Context, settings tracker.UserSettings) error
}

type Option func(e *Engine)

func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.debounce = d
	}
}

func WithPushTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.pushTimeout = d
	}
}

// Engine pushes the whole local state to the remote after every quiet period
// following a mutation. Settings are pushed right away, on their own.
//
// Every push is tagged with a sequence number; only the completion of the latest
// issued push may change the status, so a late response never regresses it.
type Engine struct {
	store  *tracker.Store
	remote Remote

	debounce    time.Duration
	pushTimeout time.Duration

	mu       sync.Mutex
	baseCtx  context.Context
	timer    *time.Timer
	timerGen uint64
	seq      uint64
	status   Status
	lastErr  error
	savedAt  time.Time
	closed   bool
	started  bool
	inflight int
	drained  chan struct{}

	settingsSeq uint64
	settingsErr error

	statusListeners []func(Status)
}

func NewEngine(store *tracker.Store, remote Remote, opts ...Option) *Engine {
	drained := make(chan struct{})
	close(drained)

	e := &Engine{
		store:       store,
		remote:      remote,
		debounce:    DefaultDebounce,
		pushTimeout: DefaultPushTimeout,
		baseCtx:     context.Background(),
		status:      StatusIdle,
		drained:     drained,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnStatus registers a callback run on every status transition.
func (e *Engine) OnStatus(fn func(Status)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.statusListeners = append(e.statusListeners, fn)
}

// Start loads the fitness data and the settings concurrently, hydrates the store
// and starts listening for mutations. A failed load leaves the local defaults in
// place and the store usable; the error is returned for reporting only.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return fmt.Errorf("sync engine already started")
	}
	e.started = true
	e.baseCtx = context.WithoutCancel(ctx)
	e.mu.Unlock()

	var (
		state    *tracker.State
		settings *tracker.UserSettings
		dataErr  error
		setErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		state, dataErr = e.remote.Load(ctx)
		return nil
	})
	g.Go(func() error {
		settings, setErr = e.remote.LoadSettings(ctx)
		return nil
	})
	_ = g.Wait()

	if dataErr == nil && state != nil {
		e.store.Hydrate(*state)
	}
	if setErr == nil && settings != nil {
		e.store.HydrateSettings(*settings)
	}
	e.store.Subscribe(e.onChange)

	e.mu.Lock()
	var transition Status
	if dataErr != nil {
		e.lastErr = dataErr
		transition = e.setStatusLocked(StatusError)
	} else {
		transition = e.setStatusLocked(StatusSynced)
	}
	listeners := e.statusListeners
	e.mu.Unlock()
	notifyStatus(listeners, transition)

	if dataErr != nil {
		log.Errorf("sync engine: load fitness data: %s", dataErr)
		dataErr = fmt.Errorf("load fitness data: %w", dataErr)
	}
	if setErr != nil {
		log.Errorf("sync engine: load settings: %s", setErr)
		setErr = fmt.Errorf("load settings: %w", setErr)
	}
	return multierr.Combine(dataErr, setErr)
}

func (e *Engine) onChange(c tracker.Change) {
	switch c {
	case tracker.ChangeSettings:
		e.pushSettings(e.store.Settings())
	default:
		e.schedule()
	}
}

// schedule (re)starts the debounce timer. A pending timer counts as a push in
// flight, so Flush waits for it.
func (e *Engine) schedule() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.timer == nil || !e.timer.Stop() {
		// no pending timer, or it is already firing with its own slot
		e.beginLocked()
	}
	e.timerGen++
	gen := e.timerGen
	e.timer = time.AfterFunc(e.debounce, func() {
		e.fire(gen)
	})
}

func (e *Engine) fire(gen uint64) {
	e.mu.Lock()
	if e.timerGen == gen {
		e.timer = nil
	}
	// a timer armed before Close still pushes, Close waits for it
	seq, transition := e.issueLocked()
	listeners := e.statusListeners
	ctx := e.baseCtx
	e.mu.Unlock()

	notifyStatus(listeners, transition)
	e.push(ctx, seq, e.store.Snapshot())
}

// issueLocked tags a new push with the next sequence number.
func (e *Engine) issueLocked() (uint64, Status) {
	e.seq++
	return e.seq, e.setStatusLocked(StatusSyncing)
}

func (e *Engine) push(ctx context.Context, seq uint64, state tracker.State) {
	defer e.end()

	ctx, cancel := context.WithTimeout(ctx, e.pushTimeout)
	defer cancel()

	savedAt, err := e.remote.Save(ctx, state)

	e.mu.Lock()
	if seq != e.seq {
		e.mu.Unlock()
		log.Debugf("sync engine: push #%d completed after #%d was issued, ignored", seq, e.seq)
		return
	}
	var transition Status
	if err != nil {
		e.lastErr = err
		transition = e.setStatusLocked(StatusError)
	} else {
		e.lastErr = nil
		e.savedAt = savedAt
		transition = e.setStatusLocked(StatusSynced)
	}
	listeners := e.statusListeners
	e.mu.Unlock()

	if err != nil {
		log.Errorf("sync engine: push #%d: %s", seq, err)
	} else {
		log.Tracef("sync engine: push #%d saved at %s", seq, savedAt)
	}
	notifyStatus(listeners, transition)
}

func (e *Engine) pushSettings(settings tracker.UserSettings) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.settingsSeq++
	seq := e.settingsSeq
	e.beginLocked()
	ctx := e.baseCtx
	e.mu.Unlock()

	go func() {
		defer e.end()

		ctx, cancel := context.WithTimeout(ctx, e.pushTimeout)
		defer cancel()
		err := e.remote.SaveSettings(ctx, settings)

		e.mu.Lock()
		if seq == e.settingsSeq {
			e.settingsErr = err
		}
		e.mu.Unlock()
		if err != nil {
			log.Errorf("sync engine: push settings: %s", err)
		}
	}()
}

func (e *Engine) beginLocked() {
	if e.inflight == 0 {
		e.drained = make(chan struct{})
	}
	e.inflight++
}

func (e *Engine) end() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endLocked()
}

func (e *Engine) endLocked() {
	e.inflight--
	if e.inflight == 0 {
		close(e.drained)
	}
}

// setStatusLocked returns the new status, or "" when nothing changed.
func (e *Engine) setStatusLocked(s Status) Status {
	if e.status == s {
		return ""
	}
	e.status = s
	return s
}

func notifyStatus(listeners []func(Status), s Status) {
	if s == "" {
		return
	}
	for _, l := range listeners {
		l(s)
	}
}

// Flush pushes a pending debounced change right away, then waits for every push in flight.
// It returns the error of the latest bulk push, else the one of the latest settings push.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	if e.timer != nil && e.timer.Stop() {
		e.timer = nil
		seq, transition := e.issueLocked()
		listeners := e.statusListeners
		pushCtx := e.baseCtx
		e.mu.Unlock()

		notifyStatus(listeners, transition)
		go e.push(pushCtx, seq, e.store.Snapshot())
		e.mu.Lock()
	}
	drained := e.drained
	e.mu.Unlock()

	select {
	case <-drained:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusError {
		return e.lastErr
	}
	return e.settingsErr
}

// Close stops reacting to mutations, then flushes. Every change made before
// Close is pushed, later ones are ignored.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return e.Flush(ctx)
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// LastError is the error of the latest push, nil once a push succeeded.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// SavedAt is the acknowledgment time of the latest successful push.
func (e *Engine) SavedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.savedAt
}

// SettingsError is the error of the latest settings push.
func (e *Engine) SettingsError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settingsErr
}
