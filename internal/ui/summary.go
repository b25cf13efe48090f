// Package ui renders the styled terminal output of pyrite check: one status
// line per module and a closing summary.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ModuleStatus is one row of the check report.
type ModuleStatus struct {
	Path     string
	Errors   int
	Warnings int
	CacheHit bool
}

func (s ModuleStatus) label() string {
	switch {
	case s.Errors > 0:
		return "error"
	case s.Warnings > 0:
		return "warning"
	case s.CacheHit:
		return "cached"
	default:
		return "ok"
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "ok":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "warning":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

// RenderModuleList renders one status line per module in the given order.
func RenderModuleList(modules []ModuleStatus, width int) string {
	if len(modules) == 0 {
		return ""
	}
	statusWidth := 9
	nameWidth := width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	var b strings.Builder
	for _, m := range modules {
		status := m.label()
		statusStyled := styleStatus(status).Render(fmt.Sprintf("%9s", status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, truncate(m.Path, nameWidth)))
	}
	return b.String()
}

// RenderSummary renders the closing line, e.g.
// "checked 4 modules: 2 errors, 1 warning".
func RenderSummary(moduleCount, errors, warnings int) string {
	headline := fmt.Sprintf("checked %d %s", moduleCount, plural(moduleCount, "module"))
	var tail string
	switch {
	case errors > 0:
		tail = fmt.Sprintf("%d %s, %d %s", errors, plural(errors, "error"), warnings, plural(warnings, "warning"))
	case warnings > 0:
		tail = fmt.Sprintf("%d %s", warnings, plural(warnings, "warning"))
	default:
		tail = "no issues"
	}

	style := lipgloss.NewStyle().Bold(true)
	switch {
	case errors > 0:
		style = style.Foreground(lipgloss.Color("1"))
	case warnings > 0:
		style = style.Foreground(lipgloss.Color("3"))
	default:
		style = style.Foreground(lipgloss.Color("2"))
	}
	return style.Render(headline+": "+tail) + "\n"
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
