package navigation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotnav/internal/application"
	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

// fakeCounter returns a fixed count or error
type fakeCounter struct {
	n     int
	err   error
	calls int
	block bool
	panic bool
}

func (f *fakeCounter) CountPlots(ctx context.Context, format string) (int, error) {
	f.calls++
	if f.panic {
		panic("driver exploded")
	}
	if f.block {
		// Ignores ctx on purpose
		time.Sleep(time.Second)
	}
	return f.n, f.err
}

// gatedCounter blocks CountPlots until release is closed
type gatedCounter struct {
	n       int
	started chan struct{}
	release chan struct{}
}

func newGatedCounter(n int) *gatedCounter {
	return &gatedCounter{n: n, started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedCounter) CountPlots(ctx context.Context, format string) (int, error) {
	close(g.started)
	select {
	case <-g.release:
		return g.n, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// recordingViewer records every directive it receives
type recordingViewer struct {
	shown []int
	err   error
}

func (v *recordingViewer) Display(ctx context.Context, d domain.Directive) error {
	v.shown = append(v.shown, d.Index)
	return v.err
}

var _ ports.PlotViewer = (*recordingViewer)(nil)

func startedController(t *testing.T, n int) (*Controller, *recordingViewer) {
	t.Helper()
	viewer := &recordingViewer{}
	c := NewController(&fakeCounter{n: n}, viewer, domain.DefaultFormat)
	_, err := c.Start(context.Background())
	require.NoError(t, err)
	return c, viewer
}

func TestStart_ReadyAtFirstPlot(t *testing.T) {
	for _, n := range []int{1, 2, 5, 100} {
		c, viewer := startedController(t, n)

		snap := c.Snapshot()
		assert.Equal(t, domain.NavReady, snap.State)
		assert.Equal(t, 1, snap.Current)
		assert.Equal(t, n, snap.Total)
		assert.Empty(t, snap.Notice)
		assert.Equal(t, []int{1}, viewer.shown, "start should display the first plot once")
	}
}

func TestStart_EmptyCatalog(t *testing.T) {
	c, viewer := startedController(t, 0)
	ctx := context.Background()

	assert.Equal(t, domain.NavEmpty, c.State())
	assert.Equal(t, 0, c.Current())

	events := []domain.Event{domain.Next(), domain.Previous(), domain.JumpTo(1), domain.JumpTo(0), {Kind: 42}}
	for _, ev := range events {
		res, err := c.HandleEvent(ctx, ev)
		require.NoError(t, err, "event %s", ev)
		assert.Equal(t, domain.OutcomeIgnored, res.Outcome, "event %s", ev)
		assert.Equal(t, domain.NavEmpty, res.State)
	}
	assert.Empty(t, viewer.shown)
}

func TestStart_CatalogFailureResolvesEmpty(t *testing.T) {
	tests := []struct {
		name    string
		counter *fakeCounter
		timeout time.Duration
	}{
		{name: "query error", counter: &fakeCounter{err: errors.New("no such table: features_analysis_plots")}},
		{name: "panicking driver", counter: &fakeCounter{panic: true}},
		{name: "hanging query", counter: &fakeCounter{n: 3, block: true}, timeout: 20 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewer := &recordingViewer{}
			c := NewController(tt.counter, viewer, domain.DefaultFormat, WithTimeout(tt.timeout))

			var snap domain.Snapshot
			var err error
			require.NotPanics(t, func() {
				snap, err = c.Start(context.Background())
			})

			require.NoError(t, err)
			assert.Equal(t, domain.NavEmpty, snap.State)
			assert.Contains(t, snap.Notice, "catalog unavailable")
			assert.Empty(t, viewer.shown)

			res, err := c.HandleKey(context.Background(), "j")
			require.NoError(t, err)
			assert.False(t, res.Moved())
			assert.Empty(t, viewer.shown)
		})
	}
}

func TestStart_NilCatalog(t *testing.T) {
	c := NewController(nil, &recordingViewer{}, domain.DefaultFormat)
	snap, err := c.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NavEmpty, snap.State)
	assert.NotEmpty(t, snap.Notice)
}

func TestStart_OnlyOnce(t *testing.T) {
	counter := &fakeCounter{n: 4}
	viewer := &recordingViewer{}
	c := NewController(counter, viewer, domain.DefaultFormat)
	ctx := context.Background()

	_, err := c.Start(ctx)
	require.NoError(t, err)
	_, err = c.HandleEvent(ctx, domain.Next())
	require.NoError(t, err)

	snap, err := c.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Current, "second start must not reset the index")
	assert.Equal(t, 1, counter.calls)
	assert.Equal(t, []int{1, 2}, viewer.shown)
}

func TestHandleEvent_BeforeStartIsDropped(t *testing.T) {
	viewer := &recordingViewer{}
	c := NewController(&fakeCounter{n: 3}, viewer, domain.DefaultFormat)

	res, err := c.HandleEvent(context.Background(), domain.Next())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeIgnored, res.Outcome)
	assert.Equal(t, domain.NavUninitialized, res.State)
	assert.Empty(t, viewer.shown)
}

func TestHandleEvent_WhileStartingIsDropped(t *testing.T) {
	counter := newGatedCounter(3)
	viewer := &recordingViewer{}
	c := NewController(counter, viewer, domain.DefaultFormat)
	ctx := context.Background()

	done := make(chan domain.Snapshot, 1)
	go func() {
		snap, _ := c.Start(ctx)
		done <- snap
	}()
	<-counter.started

	for range 3 {
		res, err := c.HandleKey(ctx, "j")
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeIgnored, res.Outcome)
		assert.Equal(t, domain.NavUninitialized, res.State)
	}
	snap, err := c.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NavUninitialized, snap.State, "concurrent start does not query again")

	close(counter.release)
	snap = <-done

	assert.Equal(t, domain.NavReady, snap.State)
	assert.Equal(t, 1, snap.Current)
	assert.Equal(t, []int{1}, viewer.shown)
}

func TestHandleEvent_Next(t *testing.T) {
	const n = 6
	for i := 1; i < n; i++ {
		c, viewer := startedController(t, n)
		ctx := context.Background()
		if i > 1 {
			_, err := c.HandleEvent(ctx, domain.JumpTo(i))
			require.NoError(t, err)
		}
		viewer.shown = nil

		res, err := c.HandleEvent(ctx, domain.Next())
		require.NoError(t, err)
		assert.True(t, res.Moved())
		assert.Equal(t, i+1, res.Current)
		assert.Equal(t, []int{i + 1}, viewer.shown)
	}
}

func TestHandleEvent_NextAtLastIsNoop(t *testing.T) {
	c, viewer := startedController(t, 3)
	ctx := context.Background()
	_, err := c.HandleEvent(ctx, domain.JumpTo(3))
	require.NoError(t, err)
	viewer.shown = nil

	res, err := c.HandleEvent(ctx, domain.Next())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeIgnored, res.Outcome)
	assert.Equal(t, 3, c.Current())
	assert.Empty(t, viewer.shown)
}

func TestHandleEvent_PreviousAtFirstIsNoop(t *testing.T) {
	c, viewer := startedController(t, 3)
	viewer.shown = nil

	res, err := c.HandleEvent(context.Background(), domain.Previous())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeIgnored, res.Outcome)
	assert.Equal(t, 1, c.Current())
	assert.Empty(t, viewer.shown)
}

func TestHandleEvent_Previous(t *testing.T) {
	c, viewer := startedController(t, 4)
	ctx := context.Background()
	_, err := c.HandleEvent(ctx, domain.JumpTo(4))
	require.NoError(t, err)
	viewer.shown = nil

	for _, want := range []int{3, 2, 1} {
		res, err := c.HandleEvent(ctx, domain.Previous())
		require.NoError(t, err)
		assert.Equal(t, want, res.Current)
	}
	assert.Equal(t, []int{3, 2, 1}, viewer.shown)
}

func TestHandleEvent_JumpInRange(t *testing.T) {
	const n = 5
	for from := 1; from <= n; from++ {
		for to := 1; to <= n; to++ {
			c, viewer := startedController(t, n)
			ctx := context.Background()
			_, err := c.HandleEvent(ctx, domain.JumpTo(from))
			require.NoError(t, err)
			viewer.shown = nil

			res, err := c.HandleEvent(ctx, domain.JumpTo(to))
			require.NoError(t, err)
			assert.True(t, res.Moved())
			assert.Equal(t, to, c.Current())
			assert.Equal(t, []int{to}, viewer.shown, "jump %d -> %d", from, to)
		}
	}
}

func TestHandleEvent_JumpOutOfRange(t *testing.T) {
	c, viewer := startedController(t, 5)
	ctx := context.Background()
	_, err := c.HandleEvent(ctx, domain.JumpTo(3))
	require.NoError(t, err)
	viewer.shown = nil

	for _, j := range []int{-1, 0, 6, 1000} {
		res, err := c.HandleEvent(ctx, domain.JumpTo(j))
		require.Error(t, err, "jump %d", j)
		assert.True(t, errors.Is(err, application.ErrOutOfRange))

		var rangeErr *application.OutOfRangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Equal(t, j, rangeErr.Index)
		assert.Equal(t, 5, rangeErr.Total)

		assert.Equal(t, domain.OutcomeRejected, res.Outcome)
		assert.Equal(t, 3, res.Current)
	}
	assert.Equal(t, 3, c.Current())
	assert.Empty(t, viewer.shown)
}

func TestHandleEvent_UndefinedEventIgnored(t *testing.T) {
	c, viewer := startedController(t, 5)
	viewer.shown = nil

	for _, ev := range []domain.Event{{}, {Kind: domain.EventUnknown, Index: 2}, {Kind: 99}} {
		res, err := c.HandleEvent(context.Background(), ev)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeIgnored, res.Outcome)
	}
	assert.Equal(t, 1, c.Current())
	assert.Empty(t, viewer.shown)
}

func TestHandleEvent_ViewerFailureKeepsTransition(t *testing.T) {
	c, viewer := startedController(t, 3)
	viewer.err = errors.New("frame gone")

	res, err := c.HandleEvent(context.Background(), domain.Next())
	require.Error(t, err)
	assert.True(t, errors.Is(err, application.ErrDisplayFailed))
	assert.True(t, res.Moved())
	assert.Equal(t, 2, c.Current())
	assert.Equal(t, []int{1, 2}, viewer.shown)
}

func TestHandleEvent_ViewerErrorKeepsChain(t *testing.T) {
	c, viewer := startedController(t, 3)
	viewer.err = fmt.Errorf("resolve plot_2: %w", application.ErrNotFound)

	_, err := c.HandleEvent(context.Background(), domain.Next())
	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrDisplayFailed)
	assert.ErrorIs(t, err, application.ErrNotFound)
	assert.Contains(t, err.Error(), "plot_2")
}

func TestScenario_PressJToTheEnd(t *testing.T) {
	c, viewer := startedController(t, 5)
	ctx := context.Background()
	viewer.shown = nil

	for range 4 {
		_, err := c.HandleKey(ctx, "j")
		require.NoError(t, err)
	}
	assert.Equal(t, 5, c.Current())
	assert.Equal(t, []int{2, 3, 4, 5}, viewer.shown)

	res, err := c.HandleKey(ctx, "j")
	require.NoError(t, err)
	assert.False(t, res.Moved())
	assert.Len(t, viewer.shown, 4, "no fifth display call")
}

func TestScenario_EmptyCatalogPressJ(t *testing.T) {
	c, viewer := startedController(t, 0)

	var err error
	require.NotPanics(t, func() {
		_, err = c.HandleKey(context.Background(), "j")
	})
	require.NoError(t, err)
	assert.Empty(t, viewer.shown)
}

func TestHandleKey_CustomKeyMap(t *testing.T) {
	viewer := &recordingViewer{}
	c := NewController(&fakeCounter{n: 3}, viewer, domain.DefaultFormat,
		WithKeyMap(KeyMap{Next: "n", Previous: "p"}))
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)

	for _, code := range []string{"j", "k", "x", "", "n", "n", "p"} {
		_, err := c.HandleKey(ctx, code)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 3, 2}, viewer.shown)
}
