package domain

import (
	"fmt"
	"time"
)

// Item is a presentation row: a folder entry or a playable media item
type Item struct {
	Label    string
	Plot     string
	Duration time.Duration
	Year     int
	Thumb    string // empty when the API has no usable image
	Fanart   string
	Route    Route
	Playable bool
}

// FormattedDuration returns the duration in a human-readable format
func (i Item) FormattedDuration() string {
	if i.Duration <= 0 {
		return ""
	}
	h := int(i.Duration.Hours())
	mins := int(i.Duration.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// Folder is a navigable listing
type Folder struct {
	Title  string
	Fanart string
	Items  []Item
}

// Add appends items to the folder
func (f *Folder) Add(items ...Item) {
	f.Items = append(f.Items, items...)
}

// InputStreamHLS is the player hint for adaptive HLS streams
const InputStreamHLS = "hls"

// Playback is a resolved playable item
type Playback struct {
	Item        Item
	URL         string
	Subtitles   []string // local subtitle file paths
	InputStream string
}

// Result is what a dispatched route produces. Exactly one field is set,
// or neither when the route completed without a view (login, logout,
// cancelled prompt).
type Result struct {
	Folder   *Folder
	Playback *Playback
}
