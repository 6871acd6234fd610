package tui

import (
	"github.com/fkgudeta/curio/internal/tui/components"
)

// ColumnStack is the back stack of folder columns.
//
//	Root:       [Home | Inspector]
//	Category:   [Home | Categories | Inspector]
//	Leaf:       [Categories | Space | Inspector]
//
// The top column is always focused.
type ColumnStack struct {
	columns     []*components.ListColumn
	cursorStack []int // saved cursor positions for back navigation
}

// NewColumnStack creates a new empty column stack
func NewColumnStack() *ColumnStack {
	return &ColumnStack{}
}

// Len returns the number of columns in the stack
func (cs *ColumnStack) Len() int {
	return len(cs.columns)
}

// Get returns the column at idx (0 = root)
func (cs *ColumnStack) Get(idx int) *components.ListColumn {
	if idx < 0 || idx >= len(cs.columns) {
		return nil
	}
	return cs.columns[idx]
}

// Top returns the focused column
func (cs *ColumnStack) Top() *components.ListColumn {
	if len(cs.columns) == 0 {
		return nil
	}
	return cs.columns[len(cs.columns)-1]
}

// Parent returns the column below the top, or nil at root
func (cs *ColumnStack) Parent() *components.ListColumn {
	if len(cs.columns) < 2 {
		return nil
	}
	return cs.columns[len(cs.columns)-2]
}

// Push adds a column, remembering the cursor of the one it covers
func (cs *ColumnStack) Push(col *components.ListColumn) {
	if top := cs.Top(); top != nil {
		cs.cursorStack = append(cs.cursorStack, top.SelectedIndex())
		top.SetFocused(false)
	}
	col.SetFocused(true)
	cs.columns = append(cs.columns, col)
}

// Pop removes the top column and restores the parent's cursor.
// The root column is never popped.
func (cs *ColumnStack) Pop() *components.ListColumn {
	if len(cs.columns) <= 1 {
		return nil
	}

	popped := cs.columns[len(cs.columns)-1]
	popped.SetFocused(false)
	cs.columns = cs.columns[:len(cs.columns)-1]

	top := cs.Top()
	top.SetFocused(true)
	if n := len(cs.cursorStack); n > 0 {
		top.SetSelectedIndex(cs.cursorStack[n-1])
		cs.cursorStack = cs.cursorStack[:n-1]
	}
	return popped
}

// Replace swaps the top column, keeping its cursor position
func (cs *ColumnStack) Replace(col *components.ListColumn) {
	top := cs.Top()
	if top == nil {
		cs.Push(col)
		return
	}
	col.SetFocused(true)
	col.SetSelectedIndex(top.SelectedIndex())
	cs.columns[len(cs.columns)-1] = col
}

// Reset makes col the only column
func (cs *ColumnStack) Reset(col *components.ListColumn) {
	cs.columns = nil
	cs.cursorStack = nil
	cs.Push(col)
}

// CanGoBack returns true when not at root
func (cs *ColumnStack) CanGoBack() bool {
	return len(cs.columns) > 1
}
