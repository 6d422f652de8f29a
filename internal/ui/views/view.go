package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moviesearch/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Input         string // rendered text input
	Keyword       string
	Results       []domain.Movie
	Highlighted   int // -1 when nothing is highlighted
	ShowList      bool
	IsLoading     bool
	NoResults     bool
	Err           error
	Selected      *domain.Movie
	ShowInfo      bool
	Spinner       string
	HelpView      string
	StatusMessage string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	movieRender *MovieRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showRank bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		movieRender: NewMovieRenderer(styles, showRank),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowInfo && state.Highlighted >= 0 && state.Highlighted < len(state.Results) {
		info := r.popupRender.RenderMovieInfo(state.Results[state.Highlighted])
		return r.popupRender.RenderPopup(info, state.Height, state.Width, r.styles.InfoBox)
	}

	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	content.WriteString(r.styles.Input.Render(state.Input))
	content.WriteString("\n")

	if list := r.renderResults(state); list != "" {
		content.WriteString(list)
		content.WriteString("\n")
	} else if state.Selected != nil && !state.ShowList {
		content.WriteString(r.movieRender.RenderSelected(*state.Selected))
		content.WriteString("\n")
	}

	if state.StatusMessage != "" {
		content.WriteString(r.styles.Status.Render(state.StatusMessage))
		content.WriteString("\n")
	}

	// Push the key help to the bottom
	if state.HelpView != "" {
		currentLines := strings.Count(content.String(), "\n") + 1
		availableLines := state.Height - 2
		if availableLines <= 0 {
			availableLines = 22
		}
		if padding := availableLines - currentLines - 1; padding > 0 {
			content.WriteString(strings.Repeat("\n", padding))
		}
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.UnsetMarginBottom().Render("moviesearch")
	if !state.IsLoading {
		return logo + "\n"
	}

	indicator := r.styles.StatusLoading.Render(fmt.Sprintf("%s Searching %q", state.Spinner, state.Keyword))
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(indicator)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + indicator + "\n"
}

// renderResults renders the dropdown, or "" when it is hidden
func (r *Renderer) renderResults(state ViewState) string {
	if !state.ShowList {
		return ""
	}

	var lines []string
	switch {
	case state.Err != nil:
		lines = append(lines, r.styles.StatusError.Render("Search failed: "+state.Err.Error()))
	case len(state.Results) > 0:
		lines = r.renderRows(state)
	case state.NoResults:
		lines = append(lines, r.styles.NoResults.Render("No Results Found"))
	case state.IsLoading:
		lines = append(lines, r.styles.Dim.Render("Searching..."))
	default:
		return ""
	}

	listStyle := r.styles.List
	if state.Width > 8 {
		listStyle = listStyle.Width(state.Width - 8)
	}
	return listStyle.Render(strings.Join(lines, "\n"))
}

// renderRows renders the visible window of result rows around the highlight
func (r *Renderer) renderRows(state ViewState) []string {
	rowWidth := state.Width - 16
	visible := r.visibleRows(state)

	offset := 0
	if state.Highlighted >= visible {
		offset = state.Highlighted - visible + 1
	}
	end := offset + visible
	if end > len(state.Results) {
		end = len(state.Results)
	}

	lines := make([]string, 0, end-offset+2)
	if offset > 0 {
		lines = append(lines, r.styles.Scroll.Render("↑ (more above)"))
	}
	for i := offset; i < end; i++ {
		lines = append(lines, r.movieRender.RenderMovie(state.Results[i], i == state.Highlighted, state.Keyword, rowWidth))
	}
	if end < len(state.Results) {
		lines = append(lines, r.styles.Scroll.Render("↓ (more below)"))
	}
	return lines
}

// visibleRows is how many result rows fit under the input
func (r *Renderer) visibleRows(state ViewState) int {
	if state.Height <= 0 {
		return len(state.Results)
	}
	// title(2) input(3) list border(2) help(1) padding(2) scroll hints(2)
	n := state.Height - 12
	if n < 3 {
		n = 3
	}
	return n
}
