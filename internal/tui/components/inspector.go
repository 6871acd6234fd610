package components

import (
	"fmt"
	"strings"

	"github.com/fkgudeta/curio/internal/domain"
	"github.com/fkgudeta/curio/internal/tui/styles"
)

// Inspector displays details for the selected item
type Inspector struct {
	item   *domain.Item
	width  int
	height int
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetItem sets the item to display; nil clears it
func (i *Inspector) SetItem(item *domain.Item) {
	i.item = item
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder
	frameW, frameH := style.GetFrameSize()

	contentWidth := max(i.width-frameW-1, 10)
	maxLines := max(i.height-frameH, 1)

	lines := []string{styles.AccentStyle.Render("Info"), ""}
	lines = append(lines, i.renderLines(contentWidth)...)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		Render(strings.Join(lines, "\n"))
}

func (i Inspector) renderLines(width int) []string {
	if i.item == nil {
		return []string{styles.DimStyle.Render("No item selected")}
	}
	item := i.item

	var lines []string
	for _, l := range styles.Wrap(item.Label, width) {
		lines = append(lines, styles.TitleStyle.Render(l))
	}

	var meta []string
	if item.Year > 0 {
		meta = append(meta, fmt.Sprintf("%d", item.Year))
	}
	if d := item.FormattedDuration(); d != "" {
		meta = append(meta, d)
	}
	if len(meta) > 0 {
		lines = append(lines, styles.SubtitleStyle.Render(strings.Join(meta, " · ")))
	}

	if item.Plot != "" {
		lines = append(lines, "")
		for _, l := range styles.Wrap(item.Plot, width) {
			lines = append(lines, styles.SubtitleStyle.Render(l))
		}
	}

	lines = append(lines, "")
	if item.Playable {
		lines = append(lines, styles.AccentStyle.Render("enter")+styles.DimStyle.Render(" play"))
	} else {
		lines = append(lines, styles.AccentStyle.Render("enter")+styles.DimStyle.Render(" open"))
	}
	return lines
}
