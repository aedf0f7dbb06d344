// Package render formats reports for people rather than scripts.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/taskwtools/internal/doctor"
	"github.com/fentz26/taskwtools/internal/models"
)

var (
	// Colors
	accentColor  = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	durationStyle = lipgloss.NewStyle().
			Align(lipgloss.Right)

	activeStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color("240"))
)

// FormatDuration renders d as H:MM:SS, rounding down to whole seconds.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", s/3600, s/60%60, s%60)
}

// Row is one line of a time report.
type Row struct {
	Label    string
	Duration time.Duration
	Active   bool
}

// Report renders rows under title with a closing total. Active rows are
// marked with an asterisk.
func Report(title string, rows []Row) string {
	labelW := len("total")
	durW := 0
	var total time.Duration
	for _, r := range rows {
		if w := lipgloss.Width(r.Label); w > labelW {
			labelW = w
		}
		total += r.Duration
	}
	for _, r := range rows {
		if w := len(FormatDuration(r.Duration)); w > durW {
			durW = w
		}
	}
	if w := len(FormatDuration(total)); w > durW {
		durW = w
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n")
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("no tracked time") + "\n")
		return b.String()
	}

	for _, r := range rows {
		mark := " "
		if r.Active {
			mark = activeStyle.Render("*")
		}
		b.WriteString(labelStyle.Width(labelW).Render(r.Label) + "  " +
			durationStyle.Width(durW).Render(FormatDuration(r.Duration)) + " " + mark + "\n")
	}

	line := lipgloss.NewStyle().Width(labelW).Render("total") + "  " +
		durationStyle.Width(durW).Render(FormatDuration(total))
	b.WriteString(totalStyle.Render(line) + "\n")
	return b.String()
}

// Journal renders journal events as a table, one event per line.
func Journal(events []models.SyncEvent) string {
	if len(events) == 0 {
		return mutedStyle.Render("journal is empty") + "\n"
	}

	header := []string{"when", "action", "outcome", "label", "details"}
	cells := make([][]string, 0, len(events))
	for _, ev := range events {
		cells = append(cells, []string{
			ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
			ev.Action,
			ev.Outcome,
			ev.FQL,
			ev.Details,
		})
	}

	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, cells...) {
		for i, c := range row {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(joinRow(header, widths, func(int, string) lipgloss.Style { return headerStyle }) + "\n")
	for _, row := range cells {
		b.WriteString(joinRow(row, widths, func(col int, v string) lipgloss.Style {
			switch {
			case col == 2 && v == "failed":
				return failedStyle
			case col == 0:
				return mutedStyle
			}
			return labelStyle
		}) + "\n")
	}
	return b.String()
}

// Checks renders doctor results, one per line, failures in red.
func Checks(checks []doctor.Check) string {
	cells := make([][]string, 0, len(checks))
	for _, c := range checks {
		cells = append(cells, []string{c.Name, c.Status, c.Path, c.Version})
	}
	widths := make([]int, 4)
	for _, row := range cells {
		for i, c := range row {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range cells {
		b.WriteString(joinRow(row, widths, func(col int, v string) lipgloss.Style {
			switch {
			case col == 1 && v == doctor.StatusOK:
				return activeStyle
			case col == 1:
				return failedStyle
			case col == 3:
				return mutedStyle
			}
			return labelStyle
		}) + "\n")
	}
	return b.String()
}

func joinRow(row []string, widths []int, style func(col int, v string) lipgloss.Style) string {
	parts := make([]string, len(row))
	for i, c := range row {
		s := style(i, c)
		if i < len(row)-1 {
			s = s.Width(widths[i])
		}
		parts[i] = s.Render(c)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
