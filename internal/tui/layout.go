package tui

// Layout proportions
const (
	ParentColumnPercent    = 30
	InspectorColumnPercent = 35
	MinColumnWidth         = 15

	// single footer line
	ChromeHeight = 1
)

// columnLayout holds calculated column widths for the View
type columnLayout struct {
	parentWidth    int // 0 if not shown
	activeWidth    int
	inspectorWidth int // 0 if not shown
}

// calculateColumnLayout computes column widths from stack depth and inspector visibility
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	applyMin := func(width int) int {
		return max(width, MinColumnWidth)
	}

	layout := columnLayout{}
	if m.ShowInspector {
		layout.inspectorWidth = applyMin(availableWidth * InspectorColumnPercent / 100)
	}
	if m.Columns.Parent() != nil {
		layout.parentWidth = applyMin(availableWidth * ParentColumnPercent / 100)
	}
	layout.activeWidth = applyMin(availableWidth - layout.parentWidth - layout.inspectorWidth)
	return layout
}
