package search

import (
	"fmt"
	"regexp"

	"github.com/pmatos/pog/internal/source"
)

// strideSize is how many lines a find-next scan pulls per step. Large
// enough to amortize remote chunk fetches, small enough to stop soon
// after the first match.
const strideSize = 1000

// Direction selects which way a find-next scan walks the file.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Match locates one pattern occurrence: a 0-based line number and a
// half-open byte column range within that line. A line may contain several
// matches, ordered by position.
type Match struct {
	Line  int
	Start int
	End   int
}

// InvalidPatternError reports a pattern that failed to compile.
type InvalidPatternError struct {
	Message string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern: %s", e.Message)
}

// Compile builds the regex for a user-supplied pattern, converting
// compile failures into InvalidPatternError.
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Message: err.Error()}
	}
	return re, nil
}

// FindAll collects every match of re in the given lines, with byte column
// spans, in line-then-position order.
func FindAll(re *regexp.Regexp, lines []source.NumberedLine) []Match {
	var matches []Match
	for _, line := range lines {
		for _, span := range re.FindAllStringIndex(line.Text, -1) {
			matches = append(matches, Match{Line: line.Num, Start: span[0], End: span[1]})
		}
	}
	return matches
}

// SearchWindow sizes the range a windowed search should cover for a given
// viewport: the visible lines extended by a full buffer on each side,
// clamped to the file. NeedsResearch only demands half that extension as
// its end margin, so the window leaves real slack in both scroll
// directions and small scrolls stay free.
func SearchWindow(viewportStart, viewportSize, buffer, lineCount int) (start, end int) {
	start = max(viewportStart-buffer, 0)
	end = min(viewportStart+viewportSize+buffer, lineCount)
	return start, end
}

// FindNext scans outward from the given line in strideSize steps until it
// finds a match or hits the file boundary. Forward scans start at from+1;
// backward scans end at line 0. The first match in stride order wins.
func FindNext(src source.Source, re *regexp.Regexp, from int, dir Direction) (Match, bool, error) {
	total := src.LineCount()

	if dir == Forward {
		for current := from + 1; current < total; {
			end := min(current+strideSize, total)
			lines, err := src.Lines(current, end-current)
			if err != nil {
				return Match{}, false, err
			}
			for _, line := range lines {
				if span := re.FindStringIndex(line.Text); span != nil {
					return Match{Line: line.Num, Start: span[0], End: span[1]}, true, nil
				}
			}
			current = end
		}
		return Match{}, false, nil
	}

	for currentEnd := from; currentEnd > 0; {
		start := max(currentEnd-strideSize, 0)
		lines, err := src.Lines(start, currentEnd-start)
		if err != nil {
			return Match{}, false, err
		}
		for i := len(lines) - 1; i >= 0; i-- {
			if span := re.FindStringIndex(lines[i].Text); span != nil {
				return Match{Line: lines[i].Num, Start: span[0], End: span[1]}, true, nil
			}
		}
		currentEnd = start
	}
	return Match{}, false, nil
}
