package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/itzcole03/sessionlens/internal/memory"
)

// BrowseSessions opens an interactive table over the indexed sessions.
// Returns the ingest ID the user selected, or empty string if cancelled.
func BrowseSessions(sessions []memory.SessionRow) (string, error) {
	if len(sessions) == 0 {
		return "", fmt.Errorf("no sessions indexed yet; run `sessionlens ingest` first")
	}

	columns := []table.Column{
		{Title: "Ingested", Width: 20},
		{Title: "Timestamp", Width: 26},
		{Title: "Status", Width: 12},
		{Title: "Projects", Width: 8},
		{Title: "Success", Width: 8},
		{Title: "Degraded", Width: 8},
	}

	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row{
			s.IngestedAt.Format("2006-01-02 15:04:05"),
			Truncate(s.Timestamp, 26),
			s.SystemStatus,
			fmt.Sprintf("%d", s.Projects),
			fmt.Sprintf("%.0f%%", s.OverallSuccess*100),
			fmt.Sprintf("%d", s.DegradedPlans),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 15)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ColorPrimary).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(ColorText).Background(ColorSecondary)
	t.SetStyles(styles)

	m := browseModel{table: t, sessions: sessions}
	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("error running session browser: %w", err)
	}

	result := finalModel.(browseModel)
	if result.quit {
		return "", nil
	}
	return result.selectedID, nil
}

type browseModel struct {
	table      table.Model
	sessions   []memory.SessionRow
	selectedID string
	quit       bool
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quit = true
			return m, tea.Quit
		case "enter":
			if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(m.sessions) {
				m.selectedID = m.sessions[cursor].ID
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	header := StyleHeader.Render(fmt.Sprintf("Indexed Sessions (%d)", len(m.sessions)))
	footer := StyleSubtle.Render("↑/↓ navigate • enter inspect • q quit")
	return "\n" + header + "\n\n" + m.table.View() + "\n\n" + footer + "\n"
}
