package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/f3rmion/sentences/internal/tui/views"
)

// AppModel is the main TUI model. It owns global keys, the help overlay and
// layout, and delegates everything else to the search view.
type AppModel struct {
	searchView views.SearchModel

	// Layout state
	width  int
	height int
	ready  bool

	// Help overlay
	showHelp bool
}

// NewApp creates a new TUI application.
func NewApp(deps views.SearchDeps) AppModel {
	return AppModel{
		searchView: views.NewSearchModel(deps),
	}
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return m.searchView.Init()
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Help overlay - any key closes it
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "f1":
			m.showHelp = true
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Padding and footer
		m.searchView.SetSize(m.width-4, m.height-4)
		return m, nil
	}

	var cmd tea.Cmd
	m.searchView, cmd = m.searchView.Update(msg)
	return m, cmd
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	content := ContentStyle.
		Width(m.width).
		Height(m.height - 1).
		Render(m.searchView.View())
	footer := footerStyle.Render("  f1 Help  esc Quit")

	return lipgloss.JoinVertical(lipgloss.Left, content, footer)
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	helpText := helpTitleStyle.Render("Example Sentences") + "\n\n"

	helpText += helpSectionStyle.Render("Search") + "\n"
	helpText += helpKeyStyle.Render("enter") + helpDescStyle.Render("Search for the term") + "\n"
	helpText += helpKeyStyle.Render("ctrl+y") + helpDescStyle.Render("Copy all examples") + "\n"
	helpText += helpKeyStyle.Render("↑/↓ pgup/pgdn") + helpDescStyle.Render("Scroll results") + "\n"

	helpText += helpSectionStyle.Render("History") + "\n"
	helpText += helpKeyStyle.Render("alt+← ctrl+p") + helpDescStyle.Render("Back") + "\n"
	helpText += helpKeyStyle.Render("alt+→ ctrl+n") + helpDescStyle.Render("Forward") + "\n"

	helpText += helpSectionStyle.Render("Global") + "\n"
	helpText += helpKeyStyle.Render("f1") + helpDescStyle.Render("Show this help") + "\n"
	helpText += helpKeyStyle.Render("esc ctrl+c") + helpDescStyle.Render("Quit") + "\n"

	helpText += "\n" + footerStyle.Italic(true).Render("Press any key to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBoxStyle.Render(helpText))
}
