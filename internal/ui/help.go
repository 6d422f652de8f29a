package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moviesearch/internal/domain"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	titleStyle   lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		sectionStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		keyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		descStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

func (r *HelpRenderer) line(b *strings.Builder, keys, desc string) {
	fmt.Fprintf(b, "  %-12s %s\n", r.keyStyle.Render(keys), r.descStyle.Render(desc))
}

// RenderHelpContentPlain generates help content with colors for pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	var help strings.Builder

	help.WriteString(r.titleStyle.Render("moviesearch Help"))
	help.WriteString("\n")

	help.WriteString(r.sectionStyle.Render("Search"))
	help.WriteString("\n")
	r.line(&help, "type", "Search movies (starts after a short pause)")
	r.line(&help, "enter", "Search now, or select the highlighted movie")
	r.line(&help, "ctrl+l", "Clear the search")
	help.WriteString("\n")

	help.WriteString(r.sectionStyle.Render("Results"))
	help.WriteString("\n")
	r.line(&help, "↑/↓", "Move the highlight")
	r.line(&help, "ctrl+p/n", "Move the highlight")
	r.line(&help, "tab", "Show details of the highlighted movie")
	r.line(&help, "esc", "Close the result list")
	r.line(&help, "ctrl+o", "Open the result list in the pager")
	help.WriteString("\n")

	help.WriteString(r.sectionStyle.Render("Other"))
	help.WriteString("\n")
	r.line(&help, "f1", "Show this help")
	r.line(&help, "ctrl+c", "Quit")

	return strings.TrimRight(help.String(), "\n")
}

// RenderResults renders a result set as plain text lines for the pager
func RenderResults(keyword string, movies []domain.Movie) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Results for %q (%d)\n\n", keyword, len(movies))
	for i, movie := range movies {
		fmt.Fprintf(&b, "%3d. %s", i+1, movie.Title)
		if movie.Rank != "" {
			fmt.Fprintf(&b, "  (rank: %s)", movie.Rank)
		}
		b.WriteString("\n")
	}
	return b.String()
}
