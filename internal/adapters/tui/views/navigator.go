package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"plotnav/internal/adapters/tui/styles"
	"plotnav/internal/application/navigation"
	"plotnav/internal/domain"
)

// NavigatorKeyMap defines key bindings for the navigator view.
// Next/previous come from the controller's key map.
type NavigatorKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageDown key.Binding
	PageUp   key.Binding
	Jump     key.Binding
	First    key.Binding
	Last     key.Binding
	Prompt   key.Binding
	Open     key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var NavigatorKeys = NavigatorKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "cursor up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "cursor down"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+f"),
		key.WithHelp("pgdn", "next page"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+b"),
		key.WithHelp("pgup", "prev page"),
	),
	Jump: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show"),
	),
	First: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first"),
	),
	Last: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last"),
	),
	Prompt: key.NewBinding(
		key.WithKeys(":"),
		key.WithHelp(":", "go to"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var promptKeys = struct {
	Submit key.Binding
	Cancel key.Binding
}{
	Submit: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
}

// NavigateMsg asks the app to feed one input to the controller: a raw key
// code when Key is set, otherwise Event.
type NavigateMsg struct {
	Key   string
	Event domain.Event
}

// NavigatedMsg carries the controller's answer to a NavigateMsg
type NavigatedMsg struct {
	Result domain.Result
	Err    error
}

// StartedMsg reports that the session start resolved
type StartedMsg struct {
	Snapshot domain.Snapshot
	Err      error
}

// PlotsLoadedMsg carries the navigator's plot list
type PlotsLoadedMsg struct {
	Plots []domain.Plot
	Err   error
}

// SwitchToHelpMsg and SwitchToNavigatorMsg toggle the help screen
type (
	SwitchToHelpMsg      struct{}
	SwitchToNavigatorMsg struct{}
)

// OpenPlotMsg asks the app to open the shown plot externally
type OpenPlotMsg struct{}

// CopyAddressMsg asks the app to copy the shown plot's address
type CopyAddressMsg struct{}

// NavigatorModel is the paginated plot list
type NavigatorModel struct {
	width int

	// status message, cleared by the next key
	message    string
	messageErr bool

	keys      navigation.KeyMap
	plots     []domain.Plot
	paginator *Paginator
	snapshot  domain.Snapshot

	prompt    textinput.Model
	prompting bool
}

// NewNavigatorModel creates a navigator forwarding keys through the given map
func NewNavigatorModel(keys navigation.KeyMap) *NavigatorModel {
	input := textinput.New()
	input.Placeholder = "plot number"
	input.Prompt = ":"
	input.CharLimit = 9

	return &NavigatorModel{
		keys:      keys.WithDefaults(),
		paginator: NewPaginator(10),
		prompt:    input,
	}
}

// Init initializes the navigator
func (m *NavigatorModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the navigator
func (m *NavigatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case PlotsLoadedMsg:
		if msg.Err != nil {
			m.SetMessage(msg.Err.Error(), true)
			return m, nil
		}
		m.plots = msg.Plots
		m.paginator.SetTotal(len(m.plots))
		m.followCurrent()
		return m, nil

	case StartedMsg:
		m.snapshot = msg.Snapshot
		m.followCurrent()
		if msg.Err != nil {
			m.SetMessage(msg.Err.Error(), true)
		}
		return m, nil

	case NavigatedMsg:
		m.snapshot = msg.Result.Snapshot
		m.followCurrent()
		if msg.Err != nil {
			m.SetMessage(msg.Err.Error(), true)
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *NavigatorModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	code := msg.String()
	if _, ok := m.keys.EventFor(code); ok {
		return navigate(NavigateMsg{Key: code})
	}

	switch {
	case key.Matches(msg, NavigatorKeys.Quit):
		return tea.Quit

	case key.Matches(msg, NavigatorKeys.Up):
		m.paginator.CursorUp()

	case key.Matches(msg, NavigatorKeys.Down):
		m.paginator.CursorDown()

	case key.Matches(msg, NavigatorKeys.PageDown):
		m.paginator.NextPage()

	case key.Matches(msg, NavigatorKeys.PageUp):
		m.paginator.PrevPage()

	case key.Matches(msg, NavigatorKeys.Jump):
		if len(m.plots) > 0 {
			return navigate(NavigateMsg{Event: domain.JumpTo(m.paginator.Cursor() + 1)})
		}

	case key.Matches(msg, NavigatorKeys.First):
		return navigate(NavigateMsg{Event: domain.JumpTo(1)})

	case key.Matches(msg, NavigatorKeys.Last):
		if m.snapshot.Total > 0 {
			return navigate(NavigateMsg{Event: domain.JumpTo(m.snapshot.Total)})
		}

	case key.Matches(msg, NavigatorKeys.Prompt):
		m.prompting = true
		m.prompt.SetValue("")
		return m.prompt.Focus()

	case key.Matches(msg, NavigatorKeys.Open):
		return func() tea.Msg { return OpenPlotMsg{} }

	case key.Matches(msg, NavigatorKeys.Copy):
		return func() tea.Msg { return CopyAddressMsg{} }

	case key.Matches(msg, NavigatorKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return nil
}

func (m *NavigatorModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, promptKeys.Cancel):
		m.closePrompt()
		return m, nil

	case key.Matches(msg, promptKeys.Submit):
		value := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		n, err := strconv.Atoi(value)
		if err != nil {
			m.SetMessage(fmt.Sprintf("%q is not a plot number", value), true)
			return m, nil
		}
		return m, navigate(NavigateMsg{Event: domain.JumpTo(n)})
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *NavigatorModel) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.SetValue("")
}

func navigate(msg NavigateMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// followCurrent moves the cursor to the controller's index
func (m *NavigatorModel) followCurrent() {
	if m.snapshot.Current > 0 {
		m.paginator.SetCursor(m.snapshot.Current - 1)
	}
}

// Prompting reports whether the jump prompt has focus
func (m *NavigatorModel) Prompting() bool {
	return m.prompting
}

// Cursor returns the 0-based row under the cursor
func (m *NavigatorModel) Cursor() int {
	return m.paginator.Cursor()
}

// SetSize updates the view dimensions and the page size
func (m *NavigatorModel) SetSize(width, height int) {
	m.width = width
	m.paginator.SetPageSize(height - 6)
}

// SetMessage shows msg in the status line until the next key press
func (m *NavigatorModel) SetMessage(msg string, isErr bool) {
	m.message = msg
	m.messageErr = isErr
}

// ClearMessage removes the status message
func (m *NavigatorModel) ClearMessage() {
	m.message = ""
	m.messageErr = false
}

// View renders the plot list
func (m *NavigatorModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Plots"))
	b.WriteString("\n")

	if len(m.plots) == 0 {
		b.WriteString(styles.MutedText.Render("(none)"))
		b.WriteString("\n")
	}

	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	if m.paginator.TotalPages() > 1 {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d",
			m.paginator.CurrentPage(), m.paginator.TotalPages())))
		b.WriteString("\n")
	}

	style := styles.NavigatorPane
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(b.String())
}

func (m *NavigatorModel) renderRow(i int) string {
	p := m.plots[i]
	text := p.DisplayName()

	switch {
	case i+1 == m.snapshot.Current:
		text = styles.PlotSelected.Render(text)
	case i == m.paginator.Cursor():
		text = styles.PlotCursor.Render(text)
	default:
		text = styles.PlotRow.Render(text)
	}
	return styles.PlotIndex.Render(strconv.Itoa(i+1)) + text
}

// StatusLine renders the position, notice and any message
func (m *NavigatorModel) StatusLine() string {
	var parts []string

	switch m.snapshot.State {
	case domain.NavReady:
		parts = append(parts, styles.StatusKey.Render(fmt.Sprintf("%d/%d", m.snapshot.Current, m.snapshot.Total)),
			styles.Anchor.Render(domain.Anchor(m.snapshot.Current)))
	case domain.NavUninitialized:
		parts = append(parts, styles.StatusText.Render("loading catalog..."))
	default:
		parts = append(parts, styles.StatusKey.Render("0/0"))
	}

	if m.snapshot.Notice != "" {
		parts = append(parts, styles.Notice.Render(m.snapshot.Notice))
	}
	if m.message != "" {
		parts = append(parts, RenderMessage(m.message, m.messageErr))
	}
	if m.prompting {
		parts = append(parts, m.prompt.View())
	}
	return strings.Join(parts, " ")
}

// HelpLine renders the key hints
func (m *NavigatorModel) HelpLine() string {
	nav := key.NewBinding(
		key.WithKeys(m.keys.Next, m.keys.Previous),
		key.WithHelp(m.keys.Next+"/"+m.keys.Previous, "next/prev"),
	)
	return RenderHelpLine(nav,
		NavigatorKeys.Jump,
		NavigatorKeys.Prompt,
		NavigatorKeys.Open,
		NavigatorKeys.Copy,
		NavigatorKeys.Help,
		NavigatorKeys.Quit,
	)
}
