package report

import "github.com/charmbracelet/lipgloss"

// Styles defines the visual theme for terminal report output.
// Lipgloss degrades to no-color when output is not a TTY.
type Styles struct {
	Header       lipgloss.Style
	SubHeader    lipgloss.Style
	TableHeader  lipgloss.Style
	TableCell    lipgloss.Style
	SummaryLabel lipgloss.Style
	Pass         lipgloss.Style
	Fail         lipgloss.Style
	Message      lipgloss.Style
	Border       lipgloss.Style
	Muted        lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal
// reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		SummaryLabel: lipgloss.NewStyle().Bold(true),

		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Message: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Status returns the PASS or FAIL label rendered in its style.
func (s Styles) Status(passed bool) string {
	if passed {
		return s.Pass.Render("PASS")
	}
	return s.Fail.Render("FAIL")
}
