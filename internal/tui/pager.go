// Package tui is an interactive pager over the rendered report.
package tui

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/paradox-cli/internal/report"
	"github.com/KaramelBytes/paradox-cli/internal/viz"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// chrome is the number of lines taken by the tab bar and footer.
const chrome = 4

type model struct {
	doc    *report.Document
	pages  []viz.Page
	page   int
	offset int
	width  int
	height int
}

// New returns the pager model for doc.
func New(doc *report.Document) tea.Model {
	m := model{doc: doc, width: 100, height: 30}
	m.pages = viz.Pages(doc, m.width-2)
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != m.width {
			m.pages = viz.Pages(m.doc, msg.Width-2)
		}
		m.width, m.height = msg.Width, msg.Height
		m.offset = m.clamp(m.offset)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "tab", "n":
			m.page = (m.page + 1) % len(m.pages)
			m.offset = 0
		case "left", "h", "shift+tab", "p":
			m.page = (m.page - 1 + len(m.pages)) % len(m.pages)
			m.offset = 0
		case "down", "j":
			m.offset = m.clamp(m.offset + 1)
		case "up", "k":
			m.offset = m.clamp(m.offset - 1)
		case "pgdown", " ":
			m.offset = m.clamp(m.offset + m.bodyHeight())
		case "pgup":
			m.offset = m.clamp(m.offset - m.bodyHeight())
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = m.clamp(len(m.lines()))
		}
	}
	return m, nil
}

func (m model) lines() []string {
	return strings.Split(strings.TrimRight(m.pages[m.page].Body, "\n"), "\n")
}

func (m model) bodyHeight() int {
	return max(1, m.height-chrome)
}

func (m model) clamp(off int) int {
	limit := max(0, len(m.lines())-m.bodyHeight())
	return min(max(0, off), limit)
}

func (m model) View() string {
	var b strings.Builder
	var tabs []string
	for i, p := range m.pages {
		if i == m.page {
			tabs = append(tabs, cyan.Render("["+p.Title+"]"))
		} else {
			tabs = append(tabs, dim.Render(p.Title))
		}
	}
	b.WriteString(lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(tabs, dimmer.Render(" · "))))
	b.WriteString("\n\n")

	lines := m.lines()
	end := min(len(lines), m.offset+m.bodyHeight())
	b.WriteString(strings.Join(lines[m.offset:end], "\n"))
	for i := end - m.offset; i < m.bodyHeight(); i++ {
		b.WriteString("\n")
	}
	b.WriteString("\n\n")
	b.WriteString(dim.Render(fmt.Sprintf("←/→ section  ↑/↓ scroll  q quit   %d/%d", m.page+1, len(m.pages))))
	return b.String()
}

// Run starts the pager in the alternate screen and blocks until the user quits.
func Run(doc *report.Document) error {
	p := tea.NewProgram(New(doc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
