package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// header and footer lines around the viewport
const chromeLines = 4

type browserModel struct {
	results  []result
	selected int
	view     viewport.Model
	ready    bool
}

func newBrowserModel(results []result) *browserModel {
	return &browserModel{results: results}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab", "right", "l":
			if len(m.results) > 1 {
				m.selected = (m.selected + 1) % len(m.results)
				m.refresh()
			}
			return m, nil

		case "shift+tab", "left", "h":
			if len(m.results) > 1 {
				m.selected = (m.selected + len(m.results) - 1) % len(m.results)
				m.refresh()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		height := max(msg.Height-chromeLines, 1)
		if !m.ready {
			m.view = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = height
		}
		m.refresh()
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *browserModel) refresh() {
	if !m.ready || len(m.results) == 0 {
		return
	}
	m.view.SetContent(content(m.results[m.selected]))
	m.view.GotoTop()
}

func content(r result) string {
	if r.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", r.err))
	}
	s := string(r.json)
	if r.rest > 0 {
		s += "\n\n" + helpStyle.Render(fmt.Sprintf("%d trailing bytes", r.rest))
	}
	return s
}

func (m *browserModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("bindump"))
	b.WriteString(" ")
	for i, r := range m.results {
		if i == m.selected {
			b.WriteString(selectedStyle.Render(" " + r.file + " "))
		} else {
			b.WriteString(fileStyle.Render(" " + r.file + " "))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.view.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%% • ↑/↓ scroll • tab next file • q quit", m.view.ScrollPercent()*100)))
	return b.String()
}

func runInteractive(results []result) error {
	p := tea.NewProgram(newBrowserModel(results), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
