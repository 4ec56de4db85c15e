package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/branchsweep/branchsweep/internal/models"
	"github.com/branchsweep/branchsweep/internal/sweep"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.state {
	case stateLoading:
		b.WriteString(fmt.Sprintf("  %s scanning branches...\n", m.spinner.View()))
	case stateSelecting, stateConfirming:
		b.WriteString(m.renderBranchList())
		if m.state == stateConfirming {
			b.WriteString("\n")
			b.WriteString(m.renderConfirm())
		}
	case stateDeleting:
		b.WriteString(m.renderBranchList())
		b.WriteString(fmt.Sprintf("\n  %s deleting...\n", m.spinner.View()))
	case stateResults:
		b.WriteString(m.renderResults())
	}

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(m.theme.ErrorFg)
		b.WriteString("\n")
		b.WriteString(errStyle.Render(fmt.Sprintf("  error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	headerStyle := lipgloss.NewStyle().
		Background(m.theme.Accent).
		Foreground(m.theme.AccentFg).
		Bold(true).
		Padding(0, 2)
	content := "branchsweep"
	if m.head != "" {
		content = fmt.Sprintf("%s  on %s", content, m.head)
	}
	return headerStyle.Render(content)
}

func (m *Model) renderBranchList() string {
	if m.table == nil || m.table.Len() == 0 {
		muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
		return muted.Render("  no deletable branches found") + "\n"
	}

	cursor := m.table.Cursor()
	var b strings.Builder
	for i, row := range m.table.Rows() {
		b.WriteString(m.renderRow(i, row, i == cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderRow(index int, row sweep.Row, active bool) string {
	cursorStyle := lipgloss.NewStyle().Foreground(m.theme.Cursor).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg)
	mutedStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	cursor := "  "
	if active {
		cursor = cursorStyle.Render("> ")
	}

	checkbox := "[ ]"
	if row.Selected {
		checkbox = "[x]"
	}

	name := textStyle.Render(row.Name)
	if active {
		name = cursorStyle.Render(row.Name)
	}

	var status string
	switch row.Status {
	case models.StatusUnknown:
		status = m.spinner.View()
	case models.StatusMerged:
		status = lipgloss.NewStyle().Foreground(m.theme.SuccessFg).Render(row.Status.String())
	case models.StatusOpen:
		status = lipgloss.NewStyle().Foreground(m.theme.WarnFg).Render(row.Status.String())
	default:
		status = mutedStyle.Render(row.Status.String())
	}

	line := fmt.Sprintf("%s%s %s  %s", cursor, checkbox, name, status)
	if row.PR != nil {
		line += mutedStyle.Render(fmt.Sprintf("  #%d %s", row.PR.Number, row.PR.Title))
	}
	return line
}

func (m *Model) renderConfirm() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 2)
	warnStyle := lipgloss.NewStyle().Foreground(m.theme.WarnFg).Bold(true)

	buttonStyle := lipgloss.NewStyle().Foreground(m.theme.TextFg).Padding(0, 1)
	activeStyle := lipgloss.NewStyle().
		Background(m.theme.Accent).
		Foreground(m.theme.AccentFg).
		Bold(true).
		Padding(0, 1)

	deleteBtn := buttonStyle.Render("[ delete ]")
	cancelBtn := activeStyle.Render("[ cancel ]")
	if !m.confirmCancel {
		deleteBtn = activeStyle.Render("[ delete ]")
		cancelBtn = buttonStyle.Render("[ cancel ]")
	}

	selected := m.table.SelectedNames()
	var b strings.Builder
	b.WriteString(warnStyle.Render(fmt.Sprintf("Delete %d branch(es)?", len(selected))))
	b.WriteString("\n")
	for _, name := range selected {
		b.WriteString(fmt.Sprintf("  %s\n", name))
	}
	b.WriteString("\n")
	b.WriteString(deleteBtn + "  " + cancelBtn)
	return boxStyle.Render(b.String()) + "\n"
}

func (m *Model) renderResults() string {
	okStyle := lipgloss.NewStyle().Foreground(m.theme.SuccessFg)
	failStyle := lipgloss.NewStyle().Foreground(m.theme.ErrorFg)
	mutedStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)

	if len(m.results) == 0 {
		return mutedStyle.Render("  nothing was deleted") + "\n"
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	deleted := 0
	var b strings.Builder
	for _, res := range m.results {
		var line string
		switch res.Status {
		case models.Deleted:
			deleted++
			line = okStyle.Render(fmt.Sprintf("  ✓ %s", res.Branch))
		default:
			line = failStyle.Render(fmt.Sprintf("  ✗ %s", res.Branch))
			if res.Reason != "" {
				line += mutedStyle.Render(" " + res.Reason)
			}
		}
		b.WriteString(wrap.String(line, width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %d deleted, %d failed\n", deleted, len(m.results)-deleted))
	return b.String()
}

func (m *Model) renderFooter() string {
	footerStyle := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	var hints []string
	switch m.state {
	case stateSelecting:
		hints = []string{"↑/↓ move", "space toggle", "enter delete", "r refresh", "q quit"}
	case stateConfirming:
		hints = []string{"←/→ choose", "enter accept", "y/n shortcut", "esc cancel"}
	case stateResults:
		hints = []string{"r rescan", "q quit"}
	default:
		hints = []string{"q quit"}
	}
	return footerStyle.Render("  " + strings.Join(hints, "  ·  "))
}
