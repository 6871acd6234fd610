package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fkgudeta/curio/internal/domain"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	// Modals take every key while visible
	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			return m, m.submitPrompt()
		}
		if !m.InputModal.IsVisible() {
			m.pending = nil
		}
		return m, cmd
	}
	if m.ConfirmModal.IsVisible() {
		var answered, confirmed bool
		m.ConfirmModal, answered, confirmed = m.ConfirmModal.Update(msg)
		if answered {
			p := m.pending
			m.pending = nil
			if confirmed && p != nil {
				return m, m.dispatch(p.route, navPush)
			}
		}
		return m, nil
	}

	top := m.Columns.Top()

	// Filter typing owns the keyboard except for ctrl+c
	if top != nil && top.IsFilterTyping() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		_, cmd = top.Update(msg)
		m.updateInspector()
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Enter, Keys.Right):
		if top == nil {
			return m, nil
		}
		item, ok := top.SelectedItem()
		if !ok {
			return m, nil
		}
		return m, m.open(item.Route)

	case key.Matches(msg, Keys.Back):
		m.Columns.Pop()
		m.updateInspector()
		return m, nil

	case key.Matches(msg, Keys.Filter):
		if top != nil {
			top.ToggleFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Search):
		return m, m.open(domain.NewRoute(domain.RouteSearch))

	case key.Matches(msg, Keys.FindCategory):
		return m, m.open(domain.NewRoute(domain.RouteCategorySearch))

	case key.Matches(msg, Keys.Refresh):
		if top == nil {
			return m, nil
		}
		return m, m.dispatch(top.Route(), navReplace)

	case key.Matches(msg, Keys.Home):
		return m, m.dispatch(domain.NewRoute(domain.RouteIndex), navReset)

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		return m, nil

	case key.Matches(msg, Keys.Login):
		if m.dispatcher.LoggedIn() {
			return m, nil
		}
		return m, m.open(domain.NewRoute(domain.RouteLogin))

	case key.Matches(msg, Keys.Logout):
		if !m.dispatcher.LoggedIn() {
			return m, nil
		}
		return m, m.open(domain.NewRoute(domain.RouteLogout))
	}

	// Everything else is list navigation
	if top != nil {
		var cmd tea.Cmd
		_, cmd = top.Update(msg)
		m.updateInspector()
		return m, cmd
	}
	return m, nil
}
