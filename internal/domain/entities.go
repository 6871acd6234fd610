package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an API identifier. The API emits ids as numbers in some payloads
// and strings in others; both decode to the same string form.
type ID string

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Count is an integer the API sometimes sends quoted ("3")
type Count int

// UnmarshalJSON accepts a JSON number or a numeric string
func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid count %s: %w", data, err)
		}
		n = int(f)
	}
	*c = Count(n)
	return nil
}

// Category is a node of the category tree returned by /v1/categories
type Category struct {
	ID            ID         `json:"id"`
	Label         string     `json:"label"`
	Name          string     `json:"name"`
	ImageURL      string     `json:"image_url,omitempty"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// HasChildren reports whether the category has subcategories to browse
func (c Category) HasChildren() bool {
	return len(c.Subcategories) > 0
}

// Encoding is a playable stream variant of a media record
type Encoding struct {
	Type              string `json:"type,omitempty"`
	MasterPlaylistURL string `json:"master_playlist_url"`
}

// Caption is a closed caption track attached to a media record
type Caption struct {
	ID       ID     `json:"id,omitempty"`
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
	File     string `json:"file"`
}

// Media is a media (or collection) record as returned by the API.
// It is a read-only projection of the response.
type Media struct {
	ID               ID         `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Duration         int        `json:"duration,omitempty"` // seconds
	YearProduced     int        `json:"year_produced,omitempty"`
	IsCollection     bool       `json:"is_collection"`
	IsFree           bool       `json:"is_free"`
	IsNumberedSeries bool       `json:"is_numbered_series"`
	IsChildFriendly  bool       `json:"is_child_friendly"`
	IsPublished      *bool      `json:"is_published,omitempty"`
	ImageMedium      string     `json:"image_medium,omitempty"`
	ImageLarge       string     `json:"image_large,omitempty"`
	ImageURL         string     `json:"image_url,omitempty"`
	Encodings        []Encoding `json:"encodings,omitempty"`
	ClosedCaptions   []Caption  `json:"closed_captions,omitempty"`
}

// Published defaults to true when the API omits the flag
func (m Media) Published() bool {
	return m.IsPublished == nil || *m.IsPublished
}

// Collection is a curated grouping of media (/v2/collections/{id})
type Collection struct {
	ID            ID      `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"image_url,omitempty"`
	BackgroundURL string  `json:"background_url,omitempty"`
	Media         []Media `json:"media,omitempty"`
}

// Series is a numbered series of episodes (/v2/series/{id})
type Series struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url,omitempty"`
	ImageLarge  string  `json:"image_large,omitempty"`
	Media       []Media `json:"media,omitempty"`
}

// SectionGroup is one row of a featured section
type SectionGroup struct {
	ID    ID      `json:"id"`
	Label string  `json:"label"`
	Media []Media `json:"media,omitempty"`
}

// Section is a featured section (/v1/sections/{id}/mobile)
type Section struct {
	ID        ID             `json:"id"`
	Label     string         `json:"label"`
	Groups    []SectionGroup `json:"groups,omitempty"`
	Paginator Paginator      `json:"paginator"`
}

// Group returns the group with the given id
func (s Section) Group(id string) (SectionGroup, bool) {
	for _, g := range s.Groups {
		if string(g.ID) == id {
			return g, true
		}
	}
	return SectionGroup{}, false
}

// Paginator is the cursor attached to list responses
type Paginator struct {
	TotalPages  Count `json:"total_pages"`
	CurrentPage Count `json:"current_page"`
}

// Page is one page of a paginated list endpoint
type Page[T any] struct {
	Data      []T       `json:"data"`
	Paginator Paginator `json:"paginator"`
}
