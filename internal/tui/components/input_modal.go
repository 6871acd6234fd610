package components

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fkgudeta/curio/internal/tui/styles"
)

const modalWidth = 40

// InputModal is a single-line text input modal
type InputModal struct {
	visible bool
	title   string
	input   textinput.Model
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = modalWidth - 4
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{input: ti}
}

// Show displays the modal prefilled with value. hidden masks the input.
func (m *InputModal) Show(title, value string, hidden bool) {
	m.visible = true
	m.title = title
	m.input.EchoMode = textinput.EchoNormal
	if hidden {
		m.input.EchoMode = textinput.EchoPassword
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, ModalKeys.Submit):
			return m, nil, true
		case key.Matches(keyMsg, ModalKeys.Cancel):
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}
	return renderModal(m.title, m.input.View(), styles.DimStyle.Render("enter submit · esc cancel"))
}

// ConfirmModal asks a yes/no question
type ConfirmModal struct {
	visible bool
	message string
}

// Show displays the modal with a question
func (m *ConfirmModal) Show(message string) {
	m.visible = true
	m.message = message
}

// Hide dismisses the modal
func (m *ConfirmModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m ConfirmModal) IsVisible() bool {
	return m.visible
}

// Update handles key events, returns (modal, answered, confirmed)
func (m ConfirmModal) Update(msg tea.Msg) (ConfirmModal, bool, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !m.visible || !ok {
		return m, false, false
	}
	switch {
	case key.Matches(keyMsg, ModalKeys.Confirm):
		m.Hide()
		return m, true, true
	case key.Matches(keyMsg, ModalKeys.Deny):
		m.Hide()
		return m, true, false
	}
	return m, false, false
}

// View renders the confirm modal
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}
	return renderModal(m.message, "", styles.AccentStyle.Render("[Y]")+" Yes    "+styles.AccentStyle.Render("[N]")+" No")
}

func renderModal(title, body, hint string) string {
	row := lipgloss.NewStyle().Width(modalWidth).Background(styles.SlateDark)

	lines := []string{
		row.Foreground(styles.White).Bold(true).Render(title),
		row.Render(""),
	}
	if body != "" {
		lines = append(lines, row.Render(body), row.Render(""))
	}
	lines = append(lines, row.Render(hint))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.CuriosityGold).
		Background(styles.SlateDark).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
