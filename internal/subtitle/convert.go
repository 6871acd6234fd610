// Package subtitle turns the API's closed caption tracks into local SRT
// files a player can load.
package subtitle

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/asticode/go-astisub"
	"github.com/fkgudeta/curio/internal/domain"
)

// Format is a detected subtitle format
type Format string

const (
	FormatWebVTT Format = "webvtt"
	FormatSRT    Format = "srt"
	FormatTTML   Format = "ttml"
	FormatSSA    Format = "ssa"
)

var (
	// ErrUnknownFormat indicates the caption data matched no known format
	ErrUnknownFormat = errors.New("unknown subtitle format")

	// ErrNoCues indicates the caption parsed but contained nothing to show
	ErrNoCues = errors.New("subtitle has no cues")
)

const defaultTrackTimeout = 15 * time.Second

var srtTiming = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}\s+-->\s+\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}`)

// fetcher downloads caption files (consumer-defined interface)
type fetcher interface {
	FetchCaption(ctx context.Context, url string) ([]byte, error)
}

// Converter fetches caption tracks and writes them as SRT files
type Converter struct {
	fetcher      fetcher
	dir          string
	trackTimeout time.Duration
	logger       *slog.Logger
}

// NewConverter creates a converter writing into dir (os.TempDir() if empty)
func NewConverter(f fetcher, dir string, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return &Converter{fetcher: f, dir: dir, trackTimeout: defaultTrackTimeout, logger: logger}
}

// WithTrackTimeout sets the time allowed for each track's download
func (c *Converter) WithTrackTimeout(d time.Duration) *Converter {
	if d > 0 {
		c.trackTimeout = d
	}
	return c
}

// trackContext gives one track its own deadline. The caller's deadline does
// not carry over; only an explicit cancel of ctx stops the track early.
func (c *Converter) trackContext(ctx context.Context) (context.Context, context.CancelFunc) {
	trackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.trackTimeout)
	stop := context.AfterFunc(ctx, func() {
		if errors.Is(ctx.Err(), context.Canceled) {
			cancel()
		}
	})
	return trackCtx, func() {
		stop()
		cancel()
	}
}

// Convert returns the paths of the tracks that converted successfully,
// in track order. A failing track is logged and skipped.
func (c *Converter) Convert(ctx context.Context, captions []domain.Caption) []string {
	if len(captions) == 0 {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		c.logger.Warn("failed to create subtitle directory", "dir", c.dir, "error", err)
		return nil
	}

	var paths []string
	for i, caption := range captions {
		if errors.Is(ctx.Err(), context.Canceled) {
			c.logger.Debug("caption conversion cancelled", "remaining", len(captions)-i)
			break
		}

		trackCtx, cancel := c.trackContext(ctx)
		path, err := c.convertOne(trackCtx, i, caption)
		cancel()
		if err != nil {
			c.logger.Warn("skipping caption track", "index", i, "language", caption.Code, "url", caption.File, "error", err)
			continue
		}
		paths = append(paths, path)
	}

	c.logger.Debug("converted captions", "tracks", len(captions), "written", len(paths))
	return paths
}

func (c *Converter) convertOne(ctx context.Context, index int, caption domain.Caption) (string, error) {
	if caption.File == "" {
		return "", errors.New("caption has no file url")
	}

	data, err := c.fetcher.FetchCaption(ctx, caption.File)
	if err != nil {
		return "", fmt.Errorf("failed to fetch caption: %w", err)
	}

	subs, err := Parse(data)
	if err != nil {
		return "", err
	}

	var out bytes.Buffer
	if err := subs.WriteToSRT(&out); err != nil {
		return "", fmt.Errorf("failed to write srt: %w", err)
	}

	// index + language keep names distinct within one play; the random part
	// keeps them distinct across plays. Players read the language from the
	// second-to-last extension.
	pattern := fmt.Sprintf("curio-*.%d.%s.srt", index, languageTag(caption))
	f, err := os.CreateTemp(c.dir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create subtitle file: %w", err)
	}
	if _, err := f.Write(out.Bytes()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write subtitle file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write subtitle file: %w", err)
	}

	return f.Name(), nil
}

// Parse detects the format of data and parses it
func Parse(data []byte) (*astisub.Subtitles, error) {
	format, err := Detect(data)
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(data)
	var subs *astisub.Subtitles
	switch format {
	case FormatWebVTT:
		subs, err = astisub.ReadFromWebVTT(r)
	case FormatSRT:
		subs, err = astisub.ReadFromSRT(r)
	case FormatTTML:
		subs, err = astisub.ReadFromTTML(r)
	case FormatSSA:
		subs, err = astisub.ReadFromSSA(r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", format, err)
	}
	if subs == nil || len(subs.Items) == 0 {
		return nil, ErrNoCues
	}
	return subs, nil
}

// Detect sniffs the subtitle format from the first meaningful lines
func Detect(data []byte) (Format, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimSpace(data)

	switch {
	case bytes.HasPrefix(trimmed, []byte("WEBVTT")):
		return FormatWebVTT, nil
	case bytes.HasPrefix(trimmed, []byte("[Script Info]")):
		return FormatSSA, nil
	case bytes.HasPrefix(trimmed, []byte("<")) && bytes.Contains(trimmed, []byte("<tt")):
		return FormatTTML, nil
	}

	// SRT: a cue number followed by a timing line
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	var lines []string
	for scanner.Scan() && len(lines) < 2 {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 2 && isDigits(lines[0]) && srtTiming.MatchString(lines[1]) {
		return FormatSRT, nil
	}

	return "", ErrUnknownFormat
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// languageTag returns a filename-safe language code
func languageTag(c domain.Caption) string {
	code := c.Code
	if code == "" {
		code = c.Language
	}
	var b strings.Builder
	for _, r := range strings.ToLower(code) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "und"
	}
	return b.String()
}
