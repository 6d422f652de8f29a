package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventKeywordCommitted EventType = "KeywordCommitted"
	EventSearchCleared    EventType = "SearchCleared"
	EventQueryStarted     EventType = "QueryStarted"
	EventQuerySettled     EventType = "QuerySettled"
	EventQueryFailed      EventType = "QueryFailed"
	EventMovieSelected    EventType = "MovieSelected"
	EventError            EventType = "Error"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// KeywordCommittedEvent is emitted when a debounced search fires
type KeywordCommittedEvent struct {
	Keyword string
}

func (e KeywordCommittedEvent) Type() EventType { return EventKeywordCommitted }

// SearchClearedEvent is emitted when the keyword is reset
type SearchClearedEvent struct{}

func (e SearchClearedEvent) Type() EventType { return EventSearchCleared }

// QueryStartedEvent is emitted when a network fetch begins for a keyword
type QueryStartedEvent struct {
	Keyword string
}

func (e QueryStartedEvent) Type() EventType { return EventQueryStarted }

// QuerySettledEvent is emitted when a fetch for a keyword succeeds
type QuerySettledEvent struct {
	Keyword string
	Count   int
}

func (e QuerySettledEvent) Type() EventType { return EventQuerySettled }

// QueryFailedEvent is emitted when a fetch for a keyword fails
type QueryFailedEvent struct {
	Keyword string
	Err     error
}

func (e QueryFailedEvent) Type() EventType { return EventQueryFailed }

// MovieSelectedEvent is emitted when the user picks a movie from the list
type MovieSelectedEvent struct {
	Movie Movie
}

func (e MovieSelectedEvent) Type() EventType { return EventMovieSelected }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
