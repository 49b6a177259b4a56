// Package lightbox implements full-view navigation over the illustrations of
// one rendered chapter.
package lightbox

import "github.com/briangreenhill/novelreader/content"

// State is a snapshot of the navigator: closed, or open at Index
type State struct {
	Open  bool
	Index int
}

// Navigator tracks the ordered illustrations of the chapter being viewed.
// The zero value is a closed, empty navigator. It is not safe for
// concurrent use; each chapter view owns its own navigator.
type Navigator struct {
	items []content.IllustrationBlock
	index int
	open  bool
}

// New creates a navigator tracking the illustrations found in blocks
func New(blocks []content.Block) *Navigator {
	n := &Navigator{}
	n.Reset(blocks)
	return n
}

// Reset replaces the tracked sequence with the illustrations of a freshly
// rendered chapter and closes the navigator
func (n *Navigator) Reset(blocks []content.Block) {
	n.items = content.Illustrations(blocks)
	n.index = 0
	n.open = false
}

// OpenAt opens the illustration whose block position is ref. Unknown refs
// leave the navigator untouched.
func (n *Navigator) OpenAt(ref int) bool {
	for i, it := range n.items {
		if it.Position == ref {
			n.index = i
			n.open = true
			return true
		}
	}
	return false
}

// Next moves to the following illustration. It stops at the last one.
func (n *Navigator) Next() bool {
	if !n.HasNext() {
		return false
	}
	n.index++
	return true
}

// Prev moves to the preceding illustration. It stops at the first one.
func (n *Navigator) Prev() bool {
	if !n.HasPrev() {
		return false
	}
	n.index--
	return true
}

// Close closes the navigator; Next and Prev are no-ops until reopened
func (n *Navigator) Close() {
	n.open = false
}

// HasPrev reports whether the previous control is enabled
func (n *Navigator) HasPrev() bool {
	return n.open && n.index > 0
}

// HasNext reports whether the next control is enabled
func (n *Navigator) HasNext() bool {
	return n.open && n.index < len(n.items)-1
}

// Current returns the displayed illustration while open
func (n *Navigator) Current() (content.IllustrationBlock, bool) {
	if !n.open {
		return content.IllustrationBlock{}, false
	}
	return n.items[n.index], true
}

// State returns the current state
func (n *Navigator) State() State {
	if !n.open {
		return State{}
	}
	return State{Open: true, Index: n.index}
}

// Len returns the number of tracked illustrations
func (n *Navigator) Len() int {
	return len(n.items)
}

// Items returns the tracked illustrations in reading order
func (n *Navigator) Items() []content.IllustrationBlock {
	return append([]content.IllustrationBlock(nil), n.items...)
}
