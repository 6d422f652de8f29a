package logic

// Navigator tracks the highlighted row of the result dropdown.
// A highlight of -1 means nothing is highlighted.
type Navigator struct {
	highlighted int
	count       int
}

// NewNavigator creates a navigator with nothing highlighted
func NewNavigator() *Navigator {
	return &Navigator{highlighted: -1}
}

// Highlighted returns the current highlight index
func (n *Navigator) Highlighted() int {
	return n.highlighted
}

// SetCount updates the number of rows and clamps the highlight into range
func (n *Navigator) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	n.count = count
	if n.highlighted >= count {
		n.highlighted = count - 1
	}
}

// Count returns the number of rows
func (n *Navigator) Count() int {
	return n.count
}

// Reset clears the highlight
func (n *Navigator) Reset() {
	n.highlighted = -1
}

// MoveDown moves the highlight one row down, stopping at the last row
func (n *Navigator) MoveDown() {
	if n.count == 0 {
		return
	}
	if n.highlighted < n.count-1 {
		n.highlighted++
	}
}

// MoveUp moves the highlight one row up. Moving up from the first row clears it.
func (n *Navigator) MoveUp() {
	if n.highlighted >= 0 {
		n.highlighted--
	}
}

// Top highlights the first row
func (n *Navigator) Top() {
	if n.count > 0 {
		n.highlighted = 0
	}
}

// Bottom highlights the last row
func (n *Navigator) Bottom() {
	if n.count > 0 {
		n.highlighted = n.count - 1
	}
}
