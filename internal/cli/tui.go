package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/spanlane/pkg/models"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// ModelPicker is the bubbletea model behind `render --pick`.
type ModelPicker struct {
	Entries  []models.Entry
	Cursor   int
	Selected *models.Entry
	Height   int
	Offset   int
}

// NewModelPicker returns a picker over entries.
func NewModelPicker(entries []models.Entry) ModelPicker {
	return ModelPicker{Entries: entries, Height: 10}
}

func (m ModelPicker) Init() tea.Cmd { return nil }

func (m ModelPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.Offset = min(m.Offset, m.Cursor)
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Entries) == 0 {
				return m, tea.Quit
			}
			e := m.Entries[m.Cursor]
			m.Selected = &e
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 3)
	}
	return m, nil
}

func (m ModelPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Model"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	width := 0
	for _, e := range m.Entries {
		width = max(width, len(e.Name))
	}

	end := min(m.Offset+m.Height, len(m.Entries))
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-*s  %s", cursor, width, e.Name, listDimStyle.Render(e.Description))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))
	return b.String()
}

// pickModel runs the picker and returns the chosen entry, or nil if the user
// quit without choosing.
func pickModel(entries []models.Entry) (*models.Entry, error) {
	final, err := tea.NewProgram(NewModelPicker(entries)).Run()
	if err != nil {
		return nil, fmt.Errorf("model picker: %w", err)
	}
	return final.(ModelPicker).Selected, nil
}
