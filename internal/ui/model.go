package ui

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"moviesearch/internal/config"
	"moviesearch/internal/domain"
	"moviesearch/internal/eventbus"
	"moviesearch/internal/search"
	"moviesearch/internal/ui/logic"
	"moviesearch/internal/ui/views"
)

// SearchController is the part of the search controller the UI drives
type SearchController interface {
	Search(input string)
	Flush() bool
	Clear()
	Snapshot() search.State
}

// Model represents the UI state
type Model struct {
	ctrl   SearchController
	bus    eventbus.EventBus
	config *config.Config

	// Derived search state, re-read on every StateChangedMsg
	state search.State

	// UI-specific state
	width         int
	height        int
	keys          keyMap
	input         textinput.Model
	spinner       spinner.Model
	help          help.Model
	showList      bool
	showInfo      bool
	selected      *domain.Movie
	statusMessage string
	inPagerMode   bool // tracks if we're currently in pager mode

	navigator    *logic.Navigator
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	pager        *PagerOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(ctrl SearchController, bus eventbus.EventBus, cfg *config.Config) *Model {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ti := textinput.New()
	ti.Placeholder = "Search"
	ti.Prompt = "🔍 "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	return &Model{
		ctrl:         ctrl,
		bus:          bus,
		config:       cfg,
		state:        ctrl.Snapshot(),
		keys:         newKeyMap(),
		input:        ti,
		spinner:      sp,
		help:         help.New(),
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(cfg.UISettings.ShowRank),
		helpRenderer: NewHelpRenderer(),
		pager:        NewPagerOps(),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// SetInput pre-fills the search input and commits it right away
func (m *Model) SetInput(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
	if value == "" {
		return
	}
	m.ctrl.Search(value)
	m.ctrl.Flush()
	m.showList = true
	m.refresh()
}

// Selected returns the last selected movie, if any
func (m *Model) Selected() (domain.Movie, bool) {
	if m.selected == nil {
		return domain.Movie{}, false
	}
	return *m.selected, true
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 12
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateChangedMsg:
		m.refresh()
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("Help pager failed: %v", msg.err)
			m.bus.Publish(eventbus.ErrorEvent{Message: fmt.Sprintf("Could not open help: %v", msg.err), Err: msg.err})
		}
		return m, nil

	case resultsPagerMsg:
		if msg.err != nil {
			log.Printf("Results pager failed for %q: %v", msg.keyword, msg.err)
			m.bus.Publish(eventbus.ErrorEvent{Message: fmt.Sprintf("Could not open pager: %v", msg.err), Err: msg.err})
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The info popup swallows keys until it is closed
	if m.showInfo {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dismiss), key.Matches(msg, m.keys.Info):
			m.showInfo = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.navigator.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if !m.showList {
			m.showList = true
			return m, nil
		}
		m.navigator.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if m.showList {
			if idx := m.navigator.Highlighted(); idx >= 0 && idx < len(m.state.Results) {
				m.selectMovie(m.state.Results[idx])
				return m, nil
			}
		}
		m.ctrl.Flush()
		m.showList = m.input.Value() != ""
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if m.showList {
			m.showList = false
			m.navigator.Reset()
		}
		return m, nil

	case key.Matches(msg, m.keys.Info):
		if m.showList && m.navigator.Highlighted() >= 0 {
			m.showInfo = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		m.ctrl.Clear()
		m.selected = nil
		m.showList = false
		m.navigator.Reset()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Results):
		if len(m.state.Results) == 0 {
			return m, m.setStatus("No results to show")
		}
		return m, m.showResultsPager(m.state.Keyword, m.state.Results)

	case key.Matches(msg, m.keys.Help):
		return m, m.showHelpPager(m.helpRenderer.RenderHelpContentPlain())
	}

	// Everything else edits the search input
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.ctrl.Search(after)
		m.showList = true
		m.navigator.Reset()
	}
	return m, cmd
}

// selectMovie closes the list, shows the selection and resets the search
func (m *Model) selectMovie(movie domain.Movie) {
	m.selected = &movie
	m.showList = false
	m.input.Reset()
	m.ctrl.Clear()
	m.navigator.Reset()
	m.refresh()
	m.bus.Publish(eventbus.MovieSelectedEvent{Movie: movie})
}

// refresh re-reads the controller state and keeps the highlight in range
func (m *Model) refresh() {
	m.state = m.ctrl.Snapshot()
	m.navigator.SetCount(len(m.state.Results))
}

// handleEvent processes domain events
func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	if e, ok := event.(eventbus.ErrorEvent); ok {
		return m, m.setStatus(e.Message)
	}
	return m, nil
}

func (m *Model) setStatus(message string) tea.Cmd {
	m.statusMessage = message
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// showHelpPager returns a command that shows help using ov pager
func (m *Model) showHelpPager(content string) tea.Cmd {
	return func() tea.Msg {
		return helpPagerMsg{err: m.runPager(content)}
	}
}

// showResultsPager returns a command that shows the result set using ov pager
func (m *Model) showResultsPager(keyword string, movies []domain.Movie) tea.Cmd {
	content := RenderResults(keyword, movies)
	return func() tea.Msg {
		return resultsPagerMsg{keyword: keyword, err: m.runPager(content)}
	}
}

func (m *Model) runPager(content string) error {
	if m.program == nil {
		return fmt.Errorf("program not set")
	}
	// Stop rendering while ov owns the terminal
	m.program.Send(pauseRenderingMsg{})
	defer m.program.Send(resumeRenderingMsg{})
	return m.pager.Show(content)
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Input:         m.input.View(),
		Keyword:       m.state.Keyword,
		Results:       m.state.Results,
		Highlighted:   m.navigator.Highlighted(),
		ShowList:      m.showList,
		IsLoading:     m.state.IsLoading,
		NoResults:     m.state.NoResults,
		Err:           m.state.Err,
		Selected:      m.selected,
		ShowInfo:      m.showInfo,
		Spinner:       m.spinner.View(),
		HelpView:      m.help.View(m.keys),
		StatusMessage: m.statusMessage,
	}
	return m.renderer.Render(state)
}
