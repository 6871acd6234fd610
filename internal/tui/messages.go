package tui

import (
	"time"

	"github.com/fkgudeta/curio/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// navMode says where a loaded folder goes in the column stack
type navMode int

const (
	navPush    navMode = iota // drill into a new column
	navReplace                // refresh the current column in place
	navReset                  // start over from a new root
)

// FolderLoadedMsg signals that a route produced a folder
type FolderLoadedMsg struct {
	Route  domain.Route
	Folder *domain.Folder
	Mode   navMode
}

// PlaybackResolvedMsg signals that a play route resolved to a stream
type PlaybackResolvedMsg struct {
	Playback *domain.Playback
}

// PlayerLaunchedMsg signals the player process was started
type PlayerLaunchedMsg struct {
	Title string
}

// ActionDoneMsg signals a route that produced no view (login, logout)
type ActionDoneMsg struct {
	Route domain.Route
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}

// TickMsg advances the spinner
type TickMsg time.Time
