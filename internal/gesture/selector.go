package gesture

import (
	"slices"

	"altflow/internal/outline"
)

type direction int

const (
	dirNone direction = iota
	dirUp
	dirDown
)

// RangeSelector grows and shrinks a run of siblings from an anchor node as the pointer
// moves over them.
//
// The selection is always a contiguous run of siblings with the anchor at one end. A
// sibling joins once the pointer crosses its vertical midpoint and leaves once the
// pointer crosses back over it.
type RangeSelector struct {
	anchor    string
	selection []string
}

func (s *RangeSelector) Begin(anchor string) {
	s.anchor = anchor
	s.selection = nil
}

// Active reports whether a range selection gesture is running.
func (s *RangeSelector) Active() bool {
	return s.anchor != ""
}

func (s *RangeSelector) Anchor() string {
	return s.anchor
}

// End stops following the pointer. The selection is kept until Clear.
func (s *RangeSelector) End() {
	s.anchor = ""
}

func (s *RangeSelector) Clear() {
	s.selection = nil
}

// Selection returns a copy of the selected IDs, anchor first.
func (s *RangeSelector) Selection() []string {
	return slices.Clone(s.selection)
}

func (s *RangeSelector) Contains(id string) bool {
	return slices.Contains(s.selection, id)
}

// Update applies one pointer sample and reports whether the selection changed.
func (s *RangeSelector) Update(p Point, t *outline.Tree, geo Geometry) bool {
	if s.anchor == "" || t == nil || geo == nil {
		return false
	}
	ar, ok := geo.Rect(s.anchor)
	if !ok {
		return false
	}
	dir := dirNone
	switch {
	case p.Y > ar.Bottom:
		dir = dirDown
	case p.Y < ar.Top:
		dir = dirUp
	}

	before := slices.Clone(s.selection)
	if len(s.selection) <= 1 {
		if dir == dirNone {
			s.selection = nil
			return len(before) != 0
		}
		s.selection = []string{s.anchor}
	}

	for s.step(p, dir, t, geo) {
	}
	return !slices.Equal(before, s.selection)
}

// step grows or shrinks the run by one node.
func (s *RangeSelector) step(p Point, dir direction, t *outline.Tree, geo Geometry) bool {
	last := s.selection[len(s.selection)-1]
	lastRect, ok := geo.Rect(last)
	if !ok {
		return false
	}

	run := dirNone
	if len(s.selection) > 1 {
		if prev, ok := t.PreviousSibling(last); ok && prev.ID == s.selection[len(s.selection)-2] {
			run = dirDown
		} else {
			run = dirUp
		}
	}

	switch run {
	case dirDown:
		if p.Y < lastRect.Mid() {
			s.selection = s.selection[:len(s.selection)-1]
			return true
		}
	case dirUp:
		if p.Y > lastRect.Mid() {
			s.selection = s.selection[:len(s.selection)-1]
			return true
		}
	}

	if dir == dirNone || (run != dirNone && run != dir) {
		return false
	}
	if dir == dirDown {
		next, ok := t.NextSibling(last)
		if !ok {
			return false
		}
		if r, ok := geo.Rect(next.ID); ok && p.Y > r.Mid() {
			s.selection = append(s.selection, next.ID)
			return true
		}
		return false
	}
	prev, ok := t.PreviousSibling(last)
	if !ok {
		return false
	}
	if r, ok := geo.Rect(prev.ID); ok && p.Y < r.Mid() {
		s.selection = append(s.selection, prev.ID)
		return true
	}
	return false
}
