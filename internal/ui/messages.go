package ui

import (
	"moviesearch/internal/eventbus"
)

// StateChangedMsg tells the model the search controller changed
type StateChangedMsg struct{}

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// resultsPagerMsg contains the result of a results pager command
type resultsPagerMsg struct {
	keyword string
	err     error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}

// clearStatusMsg clears the status message
type clearStatusMsg struct{}
