package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"

	"plotnav/internal/adapters/opener"
	"plotnav/internal/adapters/tui/views"
	"plotnav/internal/application"
	"plotnav/internal/application/navigation"
	"plotnav/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewNavigator ViewState = iota
	ViewHelp
)

// writeClipboard is swapped out in tests
var writeClipboard = clipboard.WriteAll

// Deps are the collaborators of the TUI
type Deps struct {
	Controller *navigation.Controller
	Catalog    ports.PlotCatalog
	Display    *views.DisplayModel // must be the controller's viewer
	Opener     ports.PlotOpener    // optional
	Log        logr.Logger
}

// App is the main TUI application model
type App struct {
	controller *navigation.Controller
	catalog    ports.PlotCatalog
	opener     ports.PlotOpener
	log        logr.Logger

	state     ViewState
	navigator *views.NavigatorModel
	display   *views.DisplayModel
	help      *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(deps Deps) *App {
	keys := deps.Controller.Keys()
	return &App{
		controller: deps.Controller,
		catalog:    deps.Catalog,
		opener:     deps.Opener,
		log:        deps.Log,
		state:      ViewNavigator,
		navigator:  views.NewNavigatorModel(keys),
		display:    deps.Display,
		help:       views.NewHelpModel(keys),
	}
}

// Init loads the plot list and starts the session concurrently
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadPlots, a.start)
}

func (a *App) start() tea.Msg {
	snap, err := a.controller.Start(context.Background())
	return views.StartedMsg{Snapshot: snap, Err: err}
}

func (a *App) loadPlots() tea.Msg {
	if a.catalog == nil {
		return views.PlotsLoadedMsg{}
	}
	plots, err := a.catalog.ListPlots(context.Background(), a.controller.Format())
	if errors.Is(err, application.ErrCatalogUnavailable) {
		// The session notice already reports this
		a.log.V(1).Info("plot list unavailable", "error", err.Error())
		err = nil
	}
	return views.PlotsLoadedMsg{Plots: plots, Err: err}
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		navWidth := msg.Width * 2 / 5
		a.navigator.SetSize(navWidth, msg.Height-2)
		a.display.SetSize(msg.Width-navWidth, msg.Height-2)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToNavigatorMsg:
		a.state = ViewNavigator
		return a, nil

	case views.NavigateMsg:
		return a, a.navigate(msg)

	case views.OpenPlotMsg:
		return a, a.openViewer()

	case views.CopyAddressMsg:
		return a, a.copyAddress()

	case viewerFinishedMsg:
		if msg.err != nil {
			a.navigator.SetMessage(fmt.Sprintf("viewer failed: %v", msg.err), true)
		}
		return a, nil

	case copiedMsg:
		if msg.err != nil {
			a.navigator.SetMessage(fmt.Sprintf("copy failed: %v", msg.err), true)
		} else {
			a.navigator.SetMessage("Copied "+msg.address, false)
		}
		return a, nil

	case views.StartedMsg, views.NavigatedMsg, views.PlotsLoadedMsg:
		_, cmd := a.navigator.Update(msg)
		return a, cmd
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewNavigator:
		_, cmd = a.navigator.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// navigate hands one input to the controller off the UI goroutine.
// The controller serializes concurrent inputs.
func (a *App) navigate(msg views.NavigateMsg) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if msg.Key != "" {
			res, err := a.controller.HandleKey(ctx, msg.Key)
			return views.NavigatedMsg{Result: res, Err: err}
		}
		res, err := a.controller.HandleEvent(ctx, msg.Event)
		if err != nil {
			a.log.V(1).Info("navigation rejected", "event", msg.Event.String(), "error", err.Error())
		}
		return views.NavigatedMsg{Result: res, Err: err}
	}
}

type viewerFinishedMsg struct{ err error }

func (a *App) openViewer() tea.Cmd {
	plot := a.display.Plot()
	if plot == nil || a.opener == nil {
		a.navigator.SetMessage("no plot to open", true)
		return nil
	}

	cmd, err := a.opener.Command(opener.Resolve(a.display.PlotDir(), plot))
	if err != nil {
		return func() tea.Msg {
			return viewerFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return viewerFinishedMsg{err: err}
	})
}

type copiedMsg struct {
	address string
	err     error
}

func (a *App) copyAddress() tea.Cmd {
	plot := a.display.Plot()
	if plot == nil {
		a.navigator.SetMessage("no plot to copy", true)
		return nil
	}

	address := opener.Address(a.display.PlotDir(), plot)
	return func() tea.Msg {
		return copiedMsg{address: address, err: writeClipboard(address)}
	}
}

// View renders the current view
func (a *App) View() string {
	if a.state == ViewHelp {
		return a.help.View()
	}

	panes := lipgloss.JoinHorizontal(lipgloss.Top, a.navigator.View(), a.display.View())
	return lipgloss.JoinVertical(lipgloss.Left,
		panes,
		a.navigator.StatusLine(),
		a.navigator.HelpLine(),
	)
}
