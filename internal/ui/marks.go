package ui

import "sort"

// Region is a colored column span on one line. StartCol is inclusive and
// EndCol exclusive, both 0-based.
type Region struct {
	StartCol int
	EndCol   int
	Color    string
}

// LineMarkings holds the manual marks attached to one line: an optional
// full-line background and any number of non-overlapping region marks.
type LineMarkings struct {
	FullLineColor string
	Regions       []Region
}

// Empty reports whether the line carries no marks at all.
func (lm *LineMarkings) Empty() bool {
	return lm.FullLineColor == "" && len(lm.Regions) == 0
}

// Marks maps 0-based line numbers to their markings.
type Marks map[int]*LineMarkings

// MarkLine sets a full-line background color.
func (ms Marks) MarkLine(line int, color string) {
	ms.entry(line).FullLineColor = color
}

// MarkRegion adds a region mark, replacing any existing regions it overlaps.
// Regions stay sorted by start column.
func (ms Marks) MarkRegion(line, startCol, endCol int, color string) {
	lm := ms.entry(line)
	kept := lm.Regions[:0]
	for _, r := range lm.Regions {
		if r.EndCol <= startCol || r.StartCol >= endCol {
			kept = append(kept, r)
		}
	}
	lm.Regions = append(kept, Region{StartCol: startCol, EndCol: endCol, Color: color})
	sort.Slice(lm.Regions, func(i, j int) bool {
		return lm.Regions[i].StartCol < lm.Regions[j].StartCol
	})
}

// UnmarkLine removes every mark from a line, reporting whether anything
// was removed.
func (ms Marks) UnmarkLine(line int) bool {
	_, ok := ms[line]
	delete(ms, line)
	return ok
}

// UnmarkRegion removes the region with exactly the given bounds, reporting
// whether it existed. A line left with no marks is dropped entirely.
func (ms Marks) UnmarkRegion(line, startCol, endCol int) bool {
	lm, ok := ms[line]
	if !ok {
		return false
	}
	before := len(lm.Regions)
	kept := lm.Regions[:0]
	for _, r := range lm.Regions {
		if r.StartCol != startCol || r.EndCol != endCol {
			kept = append(kept, r)
		}
	}
	lm.Regions = kept
	if lm.Empty() {
		delete(ms, line)
	}
	return len(lm.Regions) != before
}

// Get returns the markings for a line, or nil when unmarked.
func (ms Marks) Get(line int) *LineMarkings {
	return ms[line]
}

func (ms Marks) entry(line int) *LineMarkings {
	lm, ok := ms[line]
	if !ok {
		lm = &LineMarkings{}
		ms[line] = lm
	}
	return lm
}
