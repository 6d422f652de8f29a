package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moviesearch/internal/domain"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopup centers a styled popup in the available area
func (pr *PopupRenderer) RenderPopup(popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)
	if width <= 0 || height <= 0 {
		return styledPopup
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styledPopup)
}

// RenderMovieInfo builds the body of the movie info popup
func (pr *PopupRenderer) RenderMovieInfo(movie domain.Movie) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(8)

	var b strings.Builder
	b.WriteString(pr.styles.Title.Render(movie.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", label.Render("Rank"), orDash(movie.Rank.String()))
	fmt.Fprintf(&b, "%s %s\n", label.Render("ID"), orDash(movie.MovieID))
	fmt.Fprintf(&b, "%s %s\n", label.Render("Key"), orDash(movie.ID))
	if movie.Flag != "" {
		fmt.Fprintf(&b, "%s %s\n", label.Render("Flag"), movie.Flag)
	}
	b.WriteString("\n")
	b.WriteString(pr.styles.Help.Render("esc: close"))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
