package tui

import (
	"github.com/rgehrsitz/itax/internal/config"
	"github.com/rgehrsitz/itax/internal/domain"
)

// Message types for the Bubble Tea update cycle

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ProfileLoadedMsg signals a profile file has been loaded into the form
type ProfileLoadedMsg struct {
	Profile *config.Profile
}

// debounceMsg fires DebounceInterval after an edit. Only the tick carrying
// the latest sequence number triggers a computation.
type debounceMsg struct {
	seq int
}

// ResultMsg carries a finished computation
type ResultMsg struct {
	Seq    int
	Result *domain.ComparisonResult
	Err    error
}
