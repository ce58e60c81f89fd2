package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotnav/internal/adapters/sqlite"
	"plotnav/internal/application/navigation"
	"plotnav/internal/domain"
)

func seededCatalog(t *testing.T, filenames ...string) *sqlite.Catalog {
	t.Helper()
	c := sqlite.NewCatalog()
	require.NoError(t, c.Open(filepath.Join(t.TempDir(), "analysis_manager.db3")))
	t.Cleanup(func() { c.Close() })

	tx, err := c.BeginTx(context.Background())
	require.NoError(t, err)
	for _, name := range filenames {
		_, err := tx.InsertPlot(&domain.Plot{Format: domain.DefaultFormat, Filename: name})
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())
	return c
}

var testDefaults = Defaults{Format: domain.DefaultFormat, PlotDir: "plots"}

func call(t *testing.T, h server.ToolHandlerFunc, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	res, err := h(context.Background(), req)
	require.NoError(t, err, "tool errors are reported in the result")
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestPlotCountTool(t *testing.T) {
	catalog := seededCatalog(t, "rama.png", "omega.png")
	h := plotCountHandler(catalog, testDefaults)

	out, isErr := call(t, h, nil)
	assert.False(t, isErr)
	assert.Equal(t, "2", out)

	out, isErr = call(t, h, map[string]any{"format": "output_print_pdf"})
	assert.False(t, isErr)
	assert.Equal(t, "0", out)
}

func TestPlotListTool(t *testing.T) {
	h := plotListHandler(seededCatalog(t, "rama.png", "omega_angles.png"), testDefaults)

	out, isErr := call(t, h, nil)
	assert.False(t, isErr)
	assert.Contains(t, out, "1  plot_1  rama.png  rama.png")
	assert.Contains(t, out, "2  plot_2  omega_angles.png  omega_angles.png")

	out, _ = call(t, h, map[string]any{"format": "nothing"})
	assert.Equal(t, "No results.", out)
}

func TestPlotAddressTool(t *testing.T) {
	h := plotAddressHandler(seededCatalog(t, "rama.png", "omega.png"), testDefaults)

	out, isErr := call(t, h, map[string]any{"position": 2})
	assert.False(t, isErr)
	assert.Equal(t, filepath.Join("plots", "omega.png")+"#plot_2", out)

	_, isErr = call(t, h, map[string]any{"position": 3})
	assert.True(t, isErr)

	_, isErr = call(t, h, nil)
	assert.True(t, isErr, "position is required")
}

func TestPlotSearchTool(t *testing.T) {
	h := plotSearchHandler(seededCatalog(t, "rama.png", "omega.png", "ramachandran_gly.png"), testDefaults)

	out, isErr := call(t, h, map[string]any{"query": "rama"})
	assert.False(t, isErr)
	assert.Contains(t, out, "plot_1")
	assert.Contains(t, out, "plot_3")
	assert.NotContains(t, out, "omega")

	_, isErr = call(t, h, nil)
	assert.True(t, isErr)
}

func TestNavigationTools(t *testing.T) {
	sessions := NewSessions(seededCatalog(t, "a.png", "b.png", "c.png"), testDefaults)
	start := navStartHandler(sessions)
	press := navKeyHandler(sessions)
	jump := navJumpHandler(sessions)
	state := navStateHandler(sessions)

	_, isErr := call(t, press, map[string]any{"keys": "j"})
	assert.True(t, isErr, "keys before nav_start")

	out, isErr := call(t, start, nil)
	require.False(t, isErr, out)
	assert.Contains(t, out, "state=ready current=1 total=3")
	assert.Contains(t, out, "display plot_1 (1/3)")

	out, isErr = call(t, press, map[string]any{"keys": "jjjx"})
	assert.False(t, isErr)
	assert.Contains(t, out, "current=3")
	assert.Contains(t, out, "display plot_2 (2/3)\ndisplay plot_3 (3/3)\n")
	assert.NotContains(t, out, "plot_4")

	out, isErr = call(t, jump, map[string]any{"index": 7})
	assert.True(t, isErr)
	assert.Contains(t, out, "current=3")
	assert.Contains(t, out, "out of range")

	out, isErr = call(t, jump, map[string]any{"index": 1})
	assert.False(t, isErr)
	assert.Contains(t, out, "display plot_1 (1/3)")

	out, _ = call(t, state, nil)
	assert.Contains(t, out, "state=ready current=1 total=3")
	assert.NotContains(t, out, "display")

	out, _ = call(t, start, nil)
	assert.Contains(t, out, "current=1")
	assert.NotContains(t, out, "display", "second start is a no-op")
}

func TestNavKeyTool_DescribesConfiguredKeys(t *testing.T) {
	tests := []struct {
		name string
		opts []navigation.Option
		want string
	}{
		{name: "default", want: "j is next and k is previous"},
		{
			name: "custom",
			opts: []navigation.Option{navigation.WithKeyMap(navigation.KeyMap{Next: "n", Previous: "p"})},
			want: "n is next and p is previous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := NewSessions(nil, testDefaults, tt.opts...)
			tool := navKeyTool(sessions.keys)
			assert.Contains(t, tool.Description, tt.want)
		})
	}
}

func TestNavKeyHandler_CustomKeys(t *testing.T) {
	sessions := NewSessions(seededCatalog(t, "a.png", "b.png"), testDefaults,
		navigation.WithKeyMap(navigation.KeyMap{Next: "n", Previous: "p"}))

	call(t, navStartHandler(sessions), nil)
	out, isErr := call(t, navKeyHandler(sessions), map[string]any{"keys": "jn"})
	assert.False(t, isErr)
	assert.Contains(t, out, "current=2")
	assert.Contains(t, out, "display plot_2 (2/2)")
}

func TestNavigationTools_SeparateSessions(t *testing.T) {
	sessions := NewSessions(seededCatalog(t, "a.png", "b.png"), testDefaults)
	start := navStartHandler(sessions)
	press := navKeyHandler(sessions)
	state := navStateHandler(sessions)

	call(t, start, map[string]any{"session": "left"})
	call(t, start, map[string]any{"session": "right"})
	call(t, press, map[string]any{"session": "left", "keys": "j"})

	out, _ := call(t, state, map[string]any{"session": "left"})
	assert.Contains(t, out, "current=2")
	out, _ = call(t, state, map[string]any{"session": "right"})
	assert.Contains(t, out, "current=1")

	_, isErr := call(t, navEndHandler(sessions), map[string]any{"session": "left"})
	assert.False(t, isErr)
	_, isErr = call(t, state, map[string]any{"session": "left"})
	assert.True(t, isErr)
}

func TestNavigationTools_EmptyFormat(t *testing.T) {
	sessions := NewSessions(seededCatalog(t, "a.png"), testDefaults)

	out, isErr := call(t, navStartHandler(sessions), map[string]any{"format": "output_print_pdf"})
	assert.False(t, isErr)
	assert.Contains(t, out, "state=empty")
	assert.Contains(t, out, "notice: No plots")

	out, isErr = call(t, navKeyHandler(sessions), map[string]any{"keys": "jk"})
	assert.False(t, isErr)
	assert.NotContains(t, out, "display")
}

func TestSessions_ConcurrentOpen(t *testing.T) {
	sessions := NewSessions(nil, testDefaults)

	var wg sync.WaitGroup
	got := make([]*session, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = sessions.open(DefaultSession, domain.DefaultFormat)
		}(i)
	}
	wg.Wait()

	for _, s := range got {
		assert.Same(t, got[0], s)
	}
}

func TestNavigationResult(t *testing.T) {
	res, err := navigationResult(domain.Snapshot{State: domain.NavEmpty, Format: "f"}, nil, errors.New("boom"))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
