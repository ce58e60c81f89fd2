// Package navigation owns the "which plot is shown" state of one viewing
// session and is the only place that decides whether a navigation event
// is accepted.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"plotnav/internal/application"
	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

// DefaultStartTimeout bounds the initial catalog count query
const DefaultStartTimeout = 5 * time.Second

// Controller is the navigation state machine for one session.
// Events are processed one at a time; Start and HandleEvent may be called
// from different goroutines.
type Controller struct {
	counter ports.PlotCounter
	viewer  ports.PlotViewer
	format  string
	keys    KeyMap
	timeout time.Duration
	log     logr.Logger

	mu       sync.Mutex
	starting bool
	state    domain.NavState
	current  int
	total    int
	notice   string
}

// Option configures a Controller
type Option func(*Controller)

// WithTimeout overrides DefaultStartTimeout
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for transitions and catalog failures
func WithLogger(log logr.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithKeyMap overrides DefaultKeyMap for HandleKey
func WithKeyMap(keys KeyMap) Option {
	return func(c *Controller) {
		c.keys = keys
	}
}

// NewController creates a controller in the Uninitialized state
func NewController(counter ports.PlotCounter, viewer ports.PlotViewer, format string, opts ...Option) *Controller {
	c := &Controller{
		counter: counter,
		viewer:  viewer,
		format:  format,
		keys:    DefaultKeyMap(),
		timeout: DefaultStartTimeout,
		log:     logr.Discard(),
		state:   domain.NavUninitialized,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start queries the catalog once and resolves to Ready or Empty.
// A catalog failure or timeout resolves to Empty and is recorded as the
// session notice; it is never returned. The returned error is non-nil only
// when the viewer fails to display the first plot. Calling Start again is a
// no-op.
func (c *Controller) Start(ctx context.Context) (domain.Snapshot, error) {
	c.mu.Lock()
	if c.starting || c.state != domain.NavUninitialized {
		defer c.mu.Unlock()
		return c.snapshotLocked(), nil
	}
	c.starting = true
	c.mu.Unlock()

	// The lock is not held while waiting on the catalog so that events
	// arriving meanwhile are dropped instead of piling up behind it.
	total, err := c.queryCount(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.starting = false

	if err != nil {
		c.log.Error(err, "catalog unavailable, navigation disabled", "format", c.format)
		c.state = domain.NavEmpty
		c.notice = fmt.Sprintf("Plot catalog unavailable: %v", err)
		return c.snapshotLocked(), nil
	}

	if total <= 0 {
		c.state = domain.NavEmpty
		c.notice = fmt.Sprintf("No plots for format %q", c.format)
		c.log.Info("no plots to navigate", "format", c.format)
		return c.snapshotLocked(), nil
	}

	c.state = domain.NavReady
	c.total = total
	c.current = 1
	c.log.Info("navigation ready", "format", c.format, "total", total)

	return c.snapshotLocked(), c.displayLocked(ctx)
}

// queryCount runs the count under the start timeout. The query runs in its
// own goroutine so a catalog that ignores ctx still cannot hang Start.
func (c *Controller) queryCount(ctx context.Context) (int, error) {
	if c.counter == nil {
		return 0, &application.CatalogError{Op: "count", Err: fmt.Errorf("no catalog configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type countResult struct {
		n   int
		err error
	}
	done := make(chan countResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- countResult{err: fmt.Errorf("catalog query panicked: %v", r)}
			}
		}()
		n, err := c.counter.CountPlots(ctx, c.format)
		done <- countResult{n: n, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return 0, asCatalogError(res.err)
		}
		return res.n, nil
	case <-ctx.Done():
		return 0, &application.CatalogError{Op: "count", Err: ctx.Err()}
	}
}

func asCatalogError(err error) error {
	var ce *application.CatalogError
	if errors.As(err, &ce) {
		return err
	}
	return &application.CatalogError{Op: "count", Err: err}
}

// HandleEvent applies one navigation event.
// Only an out-of-range JumpTo returns an *application.OutOfRangeError, and
// only a failing viewer returns an error wrapping application.ErrDisplayFailed.
// Everything else that cannot move is an ignored no-op.
func (c *Controller) HandleEvent(ctx context.Context, ev domain.Event) (domain.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != domain.NavReady {
		return c.resultLocked(ev, domain.OutcomeIgnored), nil
	}

	target := c.current
	switch ev.Kind {
	case domain.EventNext:
		if c.current >= c.total {
			return c.resultLocked(ev, domain.OutcomeIgnored), nil
		}
		target = c.current + 1

	case domain.EventPrevious:
		if c.current <= 1 {
			return c.resultLocked(ev, domain.OutcomeIgnored), nil
		}
		target = c.current - 1

	case domain.EventJumpTo:
		if ev.Index < 1 || ev.Index > c.total {
			return c.resultLocked(ev, domain.OutcomeRejected),
				&application.OutOfRangeError{Index: ev.Index, Total: c.total}
		}
		target = ev.Index

	default:
		return c.resultLocked(ev, domain.OutcomeIgnored), nil
	}

	c.current = target
	c.log.V(1).Info("navigated", "event", ev.String(), "index", target, "total", c.total)

	return c.resultLocked(ev, domain.OutcomeMoved), c.displayLocked(ctx)
}

// HandleKey maps a raw key code through the key map and applies the event.
// Unmapped codes are ignored.
func (c *Controller) HandleKey(ctx context.Context, code string) (domain.Result, error) {
	ev, ok := c.keys.EventFor(code)
	if !ok {
		return domain.Result{Outcome: domain.OutcomeIgnored, Snapshot: c.Snapshot()}, nil
	}
	return c.HandleEvent(ctx, ev)
}

// displayLocked emits exactly one directive for the current index
func (c *Controller) displayLocked(ctx context.Context) error {
	if c.viewer == nil {
		return nil
	}
	d := domain.Directive{
		Index:  c.current,
		Total:  c.total,
		Format: c.format,
		Anchor: domain.Anchor(c.current),
	}
	if err := c.viewer.Display(ctx, d); err != nil {
		c.log.Error(err, "viewer failed", "anchor", d.Anchor)
		return fmt.Errorf("%w: %s: %w", application.ErrDisplayFailed, d.Anchor, err)
	}
	return nil
}

// Snapshot returns the current state
func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the lifecycle state
func (c *Controller) State() domain.NavState {
	return c.Snapshot().State
}

// Current returns the 1-based current index, or 0 when not Ready
func (c *Controller) Current() int {
	return c.Snapshot().Current
}

// Total returns the cached plot count
func (c *Controller) Total() int {
	return c.Snapshot().Total
}

// Notice returns the non-fatal session notice, if any
func (c *Controller) Notice() string {
	return c.Snapshot().Notice
}

// Format returns the format this session navigates
func (c *Controller) Format() string {
	return c.format
}

// Keys returns the key map used by HandleKey
func (c *Controller) Keys() KeyMap {
	return c.keys
}

func (c *Controller) snapshotLocked() domain.Snapshot {
	s := domain.Snapshot{
		State:  c.state,
		Total:  c.total,
		Format: c.format,
		Notice: c.notice,
	}
	if c.state == domain.NavReady {
		s.Current = c.current
	}
	return s
}

func (c *Controller) resultLocked(ev domain.Event, outcome domain.Outcome) domain.Result {
	return domain.Result{
		Event:    ev,
		Outcome:  outcome,
		Snapshot: c.snapshotLocked(),
	}
}
