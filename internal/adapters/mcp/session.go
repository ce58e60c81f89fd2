package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"plotnav/internal/application/navigation"
	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

// DefaultSession names the session used when a call omits one
const DefaultSession = "default"

// Sessions keeps one navigation controller per named session
type Sessions struct {
	catalog  ports.PlotCatalog
	defaults Defaults
	opts     []navigation.Option
	keys     navigation.KeyMap

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	controller *navigation.Controller
	viewer     *directiveLog
}

// directiveLog is the viewer of an MCP session: it keeps the directives
// emitted by the latest call so the tool result can report them.
type directiveLog struct {
	mu         sync.Mutex
	directives []domain.Directive
}

func (l *directiveLog) Display(_ context.Context, d domain.Directive) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.directives = append(l.directives, d)
	return nil
}

func (l *directiveLog) take() []domain.Directive {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.directives
	l.directives = nil
	return out
}

// NewSessions creates an empty session registry
func NewSessions(catalog ports.PlotCatalog, defaults Defaults, opts ...navigation.Option) *Sessions {
	return &Sessions{
		catalog:  catalog,
		defaults: defaults,
		opts:     opts,
		keys:     navigation.NewController(nil, nil, defaults.Format, opts...).Keys(),
		sessions: make(map[string]*session),
	}
}

// open returns the named session, creating it for format if missing.
// An existing session keeps the format it was created with.
func (s *Sessions) open(name, format string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[name]; ok {
		return sess
	}
	viewer := &directiveLog{}
	sess := &session{
		controller: navigation.NewController(s.catalog, viewer, format, s.opts...),
		viewer:     viewer,
	}
	s.sessions[name] = sess
	return sess
}

func (s *Sessions) get(name string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[name]
	if !ok {
		return nil, fmt.Errorf("session %q not started: call nav_start first", name)
	}
	return sess, nil
}

// Close forgets a session
func (s *Sessions) Close(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[name]
	delete(s.sessions, name)
	return ok
}

// RegisterNavigationTools adds the session navigation tools to the MCP server.
func RegisterNavigationTools(srv *server.MCPServer, sessions *Sessions) {
	srv.AddTool(navStartTool(), navStartHandler(sessions))
	srv.AddTool(navKeyTool(sessions.keys), navKeyHandler(sessions))
	srv.AddTool(navJumpTool(), navJumpHandler(sessions))
	srv.AddTool(navStateTool(), navStateHandler(sessions))
	srv.AddTool(navEndTool(), navEndHandler(sessions))
}

func sessionOption() mcp.ToolOption {
	return mcp.WithString("session",
		mcp.Description("Session name. Omit to use the default session."),
	)
}

// --- nav_start ---

func navStartTool() mcp.Tool {
	return mcp.NewTool("nav_start",
		mcp.WithDescription("Start a plot navigation session: counts the plots of the format and shows plot 1. Calling it again for a started session only reports its state."),
		sessionOption(),
		formatOption(),
	)
}

func navStartHandler(sessions *Sessions) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("session", DefaultSession)
		format := req.GetString("format", sessions.defaults.Format)

		sess := sessions.open(name, format)
		snap, err := sess.controller.Start(ctx)
		return navigationResult(snap, sess.viewer.take(), err)
	}
}

// --- nav_key ---

func navKeyTool(keys navigation.KeyMap) mcp.Tool {
	return mcp.NewTool("nav_key",
		mcp.WithDescription(fmt.Sprintf(
			"Press navigation keys in a session. Each character is one key press; %s is next and %s is previous, other keys are ignored.",
			keys.Next, keys.Previous)),
		mcp.WithString("keys",
			mcp.Description(fmt.Sprintf("Key presses, e.g. %q or %q", keys.Next, keys.Next+keys.Next+keys.Previous)),
			mcp.Required(),
		),
		sessionOption(),
	)
}

func navKeyHandler(sessions *Sessions) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("session", DefaultSession)
		keys := req.GetString("keys", "")
		if keys == "" {
			return toolError(fmt.Errorf("keys is required"))
		}

		sess, err := sessions.get(name)
		if err != nil {
			return toolError(err)
		}

		var errs []error
		for _, r := range keys {
			if _, err := sess.controller.HandleKey(ctx, string(r)); err != nil {
				errs = append(errs, err)
			}
		}
		return navigationResult(sess.controller.Snapshot(), sess.viewer.take(), errors.Join(errs...))
	}
}

// --- nav_jump ---

func navJumpTool() mcp.Tool {
	return mcp.NewTool("nav_jump",
		mcp.WithDescription("Jump a session to the plot at a 1-based index. Out of range indexes are rejected and leave the session unchanged."),
		mcp.WithNumber("index",
			mcp.Description("1-based plot index"),
			mcp.Required(),
		),
		sessionOption(),
	)
}

func navJumpHandler(sessions *Sessions) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("session", DefaultSession)
		index := req.GetInt("index", 0)

		sess, err := sessions.get(name)
		if err != nil {
			return toolError(err)
		}

		res, err := sess.controller.HandleEvent(ctx, domain.JumpTo(index))
		return navigationResult(res.Snapshot, sess.viewer.take(), err)
	}
}

// --- nav_state ---

func navStateTool() mcp.Tool {
	return mcp.NewTool("nav_state",
		mcp.WithDescription("Report the state of a navigation session without changing it."),
		sessionOption(),
	)
}

func navStateHandler(sessions *Sessions) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess, err := sessions.get(req.GetString("session", DefaultSession))
		if err != nil {
			return toolError(err)
		}
		return navigationResult(sess.controller.Snapshot(), nil, nil)
	}
}

// --- nav_end ---

func navEndTool() mcp.Tool {
	return mcp.NewTool("nav_end",
		mcp.WithDescription("End a navigation session and discard its state."),
		sessionOption(),
	)
}

func navEndHandler(sessions *Sessions) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := req.GetString("session", DefaultSession)
		if !sessions.Close(name) {
			return toolError(fmt.Errorf("session %q not started", name))
		}
		return mcp.NewToolResultText(fmt.Sprintf("session %q ended", name)), nil
	}
}

// navigationResult reports the state, the directives shown by this call and
// any rejection. Rejections are tool errors so agents notice them.
func navigationResult(snap domain.Snapshot, shown []domain.Directive, err error) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "state=%s current=%d total=%d format=%s\n", snap.State, snap.Current, snap.Total, snap.Format)
	for _, d := range shown {
		fmt.Fprintf(&sb, "display %s (%d/%d)\n", d.Anchor, d.Index, d.Total)
	}
	if snap.Notice != "" {
		fmt.Fprintf(&sb, "notice: %s\n", snap.Notice)
	}
	if err != nil {
		fmt.Fprintf(&sb, "error: %v\n", err)
		return mcp.NewToolResultError(sb.String()), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}
