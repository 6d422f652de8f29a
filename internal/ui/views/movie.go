package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moviesearch/internal/domain"
)

// MovieRenderer handles rendering of result rows
type MovieRenderer struct {
	styles   *Styles
	showRank bool
}

// NewMovieRenderer creates a new movie renderer
func NewMovieRenderer(styles *Styles, showRank bool) *MovieRenderer {
	return &MovieRenderer{
		styles:   styles,
		showRank: showRank,
	}
}

// RenderMovie renders one dropdown row as "Title (rank: N)"
func (r *MovieRenderer) RenderMovie(movie domain.Movie, isHighlighted bool, keyword string, width int) string {
	base := lipgloss.NewStyle()
	if isHighlighted {
		base = r.styles.SelectionBg
	}

	title := movie.Title
	if width > 0 {
		title = truncate(title, width)
	}

	var parts []string
	if isHighlighted {
		parts = append(parts, base.Render("› "))
	} else {
		parts = append(parts, "  ")
	}
	parts = append(parts, r.highlightMatch(title, keyword, base.Foreground(lipgloss.Color("226")).Bold(true), base))

	if r.showRank && movie.Rank != "" {
		rankStyle := r.styles.Rank
		if isHighlighted {
			rankStyle = base
		}
		parts = append(parts, rankStyle.Render(" (rank: "+movie.Rank.String()+")"))
	}

	return strings.Join(parts, "")
}

// RenderSelected renders the chosen movie below the input
func (r *MovieRenderer) RenderSelected(movie domain.Movie) string {
	line := r.styles.Selected.Render(movie.Title)
	if movie.Rank != "" {
		line += "    " + r.styles.Rank.Render("Rank: "+movie.Rank.String())
	}
	return line
}

// highlightMatch highlights the first case-insensitive occurrence of query
func (r *MovieRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	if query == "" {
		return normalStyle.Render(text)
	}

	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)
	// Byte offsets are only valid when lowering kept the lengths
	if len(lowerText) != len(text) || len(lowerQuery) != len(query) {
		return normalStyle.Render(text)
	}

	index := strings.Index(lowerText, lowerQuery)
	if index == -1 {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
