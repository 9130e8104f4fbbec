// Package scroll keeps a reader's place when the log view is re-rendered.
//
// New entries are prepended (newest first). A view resting at the top stays
// pinned there so the newest lines are visible. A view scrolled down is
// shifted by the height the new content added, so the lines under the reader
// do not move.
package scroll

// Anchor is captured before content is replaced.
type Anchor struct {
	AtTop  bool
	Offset int
	Height int // content height before replacement
}

// Capture records the view state before a re-render.
func Capture(offset, height int) Anchor {
	return Anchor{AtTop: offset <= 0, Offset: offset, Height: height}
}

// Reanchor returns the offset to apply once content of newHeight has replaced
// the captured content.
func (a Anchor) Reanchor(newHeight int) int {
	if a.AtTop {
		return 0
	}
	offset := a.Offset
	if delta := newHeight - a.Height; delta > 0 {
		offset += delta
	}
	return offset
}

// Clamp bounds offset to the scrollable range of a view of viewHeight rows
// over contentHeight rows.
func Clamp(offset, contentHeight, viewHeight int) int {
	maxOffset := contentHeight - viewHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	if offset < 0 {
		return 0
	}
	return offset
}
