package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fkgudeta/curio/internal/domain"
	"github.com/fkgudeta/curio/internal/tui/components"
	"github.com/fkgudeta/curio/internal/tui/styles"
)

// dispatcher resolves navigation routes (consumer-defined interface)
type dispatcher interface {
	Dispatch(ctx context.Context, route domain.Route) (domain.Result, error)
	LoggedIn() bool
}

// launcher starts the external player (consumer-defined interface)
type launcher interface {
	Launch(url string, subtitles []string) error
}

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Prompt titles
const (
	promptSearch   = "Search"
	promptCategory = "Find Category"
	promptUsername = "CuriosityStream Email"
	promptPassword = "CuriosityStream Password"
	promptLogout   = "Are you sure you want to logout?"
)

// promptStep collects one route parameter from the user
type promptStep struct {
	param  string
	title  string
	value  string
	hidden bool
}

// pendingRoute is a route waiting on modal input before it can be dispatched
type pendingRoute struct {
	route domain.Route
	steps []promptStep
}

// Model is the main Bubble Tea model for the application
type Model struct {
	State ApplicationState
	Ready bool

	dispatcher dispatcher
	launcher   launcher
	userdata   domain.UserData
	timeout    time.Duration

	// UI components
	Columns      *ColumnStack
	Inspector    components.Inspector
	InputModal   components.InputModal
	ConfirmModal components.ConfirmModal

	pending *pendingRoute

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	Loading       bool
	SpinnerFrame  int
	ShowInspector bool
}

// NewModel creates a new application model
func NewModel(d dispatcher, l launcher, userdata domain.UserData, timeout time.Duration) Model {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return Model{
		State:         StateBrowsing,
		dispatcher:    d,
		launcher:      l,
		userdata:      userdata,
		timeout:       timeout,
		Columns:       NewColumnStack(),
		Inspector:     components.NewInspector(),
		InputModal:    components.NewInputModal(),
		ShowInspector: true,
	}
}

// Init loads the home folder
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dispatch(domain.NewRoute(domain.RouteIndex), navReset),
		TickCmd(100*time.Millisecond),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case FolderLoadedMsg:
		m.Loading = false
		col := components.NewListColumn(msg.Route, msg.Folder)
		switch msg.Mode {
		case navReset:
			m.Columns.Reset(col)
		case navReplace:
			m.Columns.Replace(col)
		default:
			m.Columns.Push(col)
		}
		m.updateInspector()
		return m, nil

	case PlaybackResolvedMsg:
		m.StatusMsg = "Starting " + msg.Playback.Item.Label + "..."
		m.StatusIsErr = false
		return m, LaunchCmd(m.launcher, msg.Playback)

	case PlayerLaunchedMsg:
		m.Loading = false
		m.StatusMsg = "Playing " + msg.Title
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case ActionDoneMsg:
		m.Loading = false
		switch msg.Route.Name {
		case domain.RouteLogin:
			m.StatusMsg = "Logged in"
		case domain.RouteLogout:
			m.StatusMsg = "Logged out"
		}
		m.StatusIsErr = false
		// session state changed, so the home folder changes too
		return m, tea.Batch(
			m.dispatch(domain.NewRoute(domain.RouteIndex), navReset),
			ClearStatusCmd(3*time.Second),
		)

	case ErrMsg:
		m.Loading = false
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case ClearStatusMsg:
		if !m.Loading {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

// dispatch marks the model as loading and returns the command for route
func (m *Model) dispatch(route domain.Route, mode navMode) tea.Cmd {
	m.Loading = true
	return DispatchCmd(m.dispatcher, route, mode, m.timeout)
}

// open navigates to route, collecting any input it needs first
func (m *Model) open(route domain.Route) tea.Cmd {
	switch route.Name {
	case domain.RouteSearch:
		if route.Get("query") == "" {
			return m.prompt(route, promptStep{param: "query", title: promptSearch, value: m.stored(domain.KeySearch)})
		}
	case domain.RouteCategorySearch:
		if route.Get("query") == "" {
			return m.prompt(route, promptStep{param: "query", title: promptCategory})
		}
	case domain.RouteLogin:
		var steps []promptStep
		if route.Get("username") == "" {
			steps = append(steps, promptStep{param: "username", title: promptUsername, value: m.stored(domain.KeyUsername)})
		}
		if route.Get("password") == "" {
			steps = append(steps, promptStep{param: "password", title: promptPassword, hidden: true})
		}
		if len(steps) > 0 {
			return m.prompt(route, steps...)
		}
	case domain.RouteLogout:
		if !route.Bool("confirm", false) {
			m.pending = &pendingRoute{route: route.With("confirm", "true")}
			m.ConfirmModal.Show(promptLogout)
			return nil
		}
	}
	return m.dispatch(route, navPush)
}

// prompt shows the first input modal of a route's input chain
func (m *Model) prompt(route domain.Route, steps ...promptStep) tea.Cmd {
	m.pending = &pendingRoute{route: route, steps: steps}
	step := steps[0]
	m.InputModal.Show(step.title, step.value, step.hidden)
	return nil
}

// submitPrompt records the current modal value and advances the chain.
// An empty answer cancels the route.
func (m *Model) submitPrompt() tea.Cmd {
	p := m.pending
	value := strings.TrimSpace(m.InputModal.Value())
	m.InputModal.Hide()

	if p == nil || len(p.steps) == 0 {
		m.pending = nil
		return nil
	}
	if value == "" {
		m.pending = nil
		return nil
	}

	p.route = p.route.With(p.steps[0].param, value)
	p.steps = p.steps[1:]
	if len(p.steps) > 0 {
		next := p.steps[0]
		m.InputModal.Show(next.title, next.value, next.hidden)
		return nil
	}

	m.pending = nil
	return m.dispatch(p.route, navPush)
}

func (m Model) stored(key string) string {
	if m.userdata == nil {
		return ""
	}
	return m.userdata.Get(key)
}

// updateInspector points the inspector at the focused selection
func (m *Model) updateInspector() {
	top := m.Columns.Top()
	if top == nil {
		m.Inspector.SetItem(nil)
		return
	}
	if item, ok := top.SelectedItem(); ok {
		m.Inspector.SetItem(&item)
		return
	}
	m.Inspector.SetItem(nil)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.State == StateHelp {
		return m.renderHelp()
	}

	contentHeight := m.Height - ChromeHeight
	layout := m.calculateColumnLayout(m.Width)

	var panes []string
	if parent := m.Columns.Parent(); parent != nil {
		parent.SetSize(layout.parentWidth, contentHeight)
		panes = append(panes, parent.View())
	}
	if top := m.Columns.Top(); top != nil {
		top.SetSize(layout.activeWidth, contentHeight)
		panes = append(panes, top.View())
	}
	if m.ShowInspector {
		m.Inspector.SetSize(layout.inspectorWidth, contentHeight)
		panes = append(panes, m.Inspector.View())
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, panes...),
		m.renderFooter(),
	)

	if m.InputModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.InputModal.View())
	}
	if m.ConfirmModal.IsVisible() {
		view = lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, m.ConfirmModal.View())
	}
	return view
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderFooter renders a single-line footer
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.Loading:
		frame := spinnerFrames[m.SpinnerFrame%len(spinnerFrames)]
		left = styles.AccentStyle.Render(frame) + " " + styles.DimStyle.Render("Loading...")
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.DimStyle.Render(m.StatusMsg)
	}

	account := "logged out"
	if m.dispatcher != nil && m.dispatcher.LoggedIn() {
		account = "logged in"
	}
	right := styles.DimStyle.Render(account+"  ") + styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      CATALOG
  j/k        Up/down               f      Search catalog
  l/Enter    Open / play           c      Find category
  h/Bksp     Back                  /      Filter this list
  g/G        First/last item       r      Refresh
  Ctrl+u/d   Half page             H      Home
  PgUp/PgDn  Page

ACCOUNT                         OTHER
  L          Login                 i      Toggle inspector
  O          Logout                q      Quit
                                   ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
