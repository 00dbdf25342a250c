package search

import (
	"regexp"

	"github.com/pmatos/pog/internal/source"
)

// Session is the state machine behind interactive search: the compiled
// pattern, the matches found in the most recently searched window, the
// currently selected match, and the bounds of that window. It starts
// inactive; SetPattern activates it and Clear resets it.
//
// A Session is not safe for concurrent use. The UI owns it and applies
// results arriving from the worker.
type Session struct {
	pattern     *regexp.Regexp
	patternText string

	matches    []Match
	currentIdx int // index into matches, -1 when none

	searchedStart int
	searchedEnd   int
	hasSearched   bool
	active        bool
}

// NewSession returns an inactive session.
func NewSession() *Session {
	return &Session{currentIdx: -1}
}

// Active reports whether a pattern is set.
func (s *Session) Active() bool {
	return s.active
}

// Pattern returns the raw pattern text, empty while inactive.
func (s *Session) Pattern() string {
	return s.patternText
}

// SetPattern compiles the pattern and activates the session, resetting
// matches and the searched range. A pattern that fails to compile leaves
// the session exactly as it was.
func (s *Session) SetPattern(pattern string) error {
	re, err := Compile(pattern)
	if err != nil {
		return err
	}
	s.pattern = re
	s.patternText = pattern
	s.matches = nil
	s.currentIdx = -1
	s.hasSearched = false
	s.active = true
	return nil
}

// Clear resets the session to its initial inactive state.
func (s *Session) Clear() {
	*s = Session{currentIdx: -1}
}

// Matches returns the matches from the last searched window.
func (s *Session) Matches() []Match {
	return s.matches
}

// CurrentMatch returns the selected match, if any.
func (s *Session) CurrentMatch() (Match, bool) {
	if s.currentIdx < 0 || s.currentIdx >= len(s.matches) {
		return Match{}, false
	}
	return s.matches[s.currentIdx], true
}

// CurrentIndex returns the selected match index, -1 when none.
func (s *Session) CurrentIndex() int {
	if s.currentIdx >= len(s.matches) {
		return -1
	}
	return s.currentIdx
}

// SearchedRange returns the bounds of the last searched window.
func (s *Session) SearchedRange() (start, end int, ok bool) {
	return s.searchedStart, s.searchedEnd, s.hasSearched
}

// Update replaces the viewport matches wholesale and records the searched
// range. The selected match is kept when still in bounds; otherwise the
// first match is selected, or none when the window has no matches.
func (s *Session) Update(matches []Match, start, end int) {
	s.matches = matches
	s.searchedStart = start
	s.searchedEnd = end
	s.hasSearched = true

	if len(s.matches) == 0 {
		s.currentIdx = -1
		return
	}
	if s.currentIdx < 0 || s.currentIdx >= len(s.matches) {
		s.currentIdx = 0
	}
}

// SelectLine moves the current match to the first match at or after the
// given line, used after a find-next jump lands inside the window.
func (s *Session) SelectLine(line int) {
	for i, m := range s.matches {
		if m.Line >= line {
			s.currentIdx = i
			return
		}
	}
}

// SearchRange reads [start, end) through the source, runs the pattern over
// each line, and applies the result. A read failure aborts the search and
// leaves the previous matches and range intact.
func (s *Session) SearchRange(src source.Source, start, end int) error {
	if !s.active || s.pattern == nil {
		return nil
	}
	count := end - start
	if count < 0 {
		count = 0
	}
	lines, err := src.Lines(start, count)
	if err != nil {
		return err
	}
	s.Update(FindAll(s.pattern, lines), start, end)
	return nil
}

// NeedsResearch decides whether the searched window must be recomputed for
// the given viewport. An inactive session or one that has never searched
// forces a search. Otherwise the searched window, which the caller sized
// to extend past the viewport, acts as a hysteresis band: scrolling stays
// cheap until the viewport escapes the searched start or drifts within
// half the buffer of the searched end, the common scroll direction.
func (s *Session) NeedsResearch(viewportStart, viewportSize, buffer int) bool {
	if !s.active || !s.hasSearched {
		return true
	}
	return viewportStart < s.searchedStart ||
		viewportStart+viewportSize > s.searchedEnd-buffer/2
}

// FindNext scans outward from the given line using the session's pattern.
// Viewport matches and the searched range are untouched.
func (s *Session) FindNext(src source.Source, from int, dir Direction) (Match, bool, error) {
	if !s.active || s.pattern == nil {
		return Match{}, false, nil
	}
	return FindNext(src, s.pattern, from, dir)
}
