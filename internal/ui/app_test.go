package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatos/pog/internal/search"
	"github.com/pmatos/pog/internal/server"
	"github.com/pmatos/pog/internal/source"
	"github.com/pmatos/pog/internal/worker"
)

// sliceSource serves lines from memory.
type sliceSource struct {
	lines []string
}

func (s *sliceSource) LineCount() int { return len(s.lines) }

func (s *sliceSource) FileSize() (int64, error) { return 0, nil }

func (s *sliceSource) Line(num int) (string, bool, error) {
	if num < 0 || num >= len(s.lines) {
		return "", false, nil
	}
	return s.lines[num], true, nil
}

func (s *sliceSource) Lines(start, count int) ([]source.NumberedLine, error) {
	var out []source.NumberedLine
	for i := start; i < start+count && i < len(s.lines); i++ {
		if i < 0 {
			continue
		}
		out = append(out, source.NumberedLine{Num: i, Text: s.lines[i]})
	}
	return out, nil
}

func (s *sliceSource) DisplayName() string { return "test.log" }

func newTestModel(t *testing.T, lines []string, fileSize int64) *Model {
	t.Helper()

	src := &sliceSource{lines: lines}
	w := worker.New(src)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)

	m := New(Options{
		Source:    src,
		Worker:    w,
		FileSize:  fileSize,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m.width = 80
	m.height = 24
	m.ready = true
	return &m
}

func numberedLines(count int) []string {
	lines := make([]string, count)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return lines
}

func TestCommandLines(t *testing.T) {
	m := newTestModel(t, numberedLines(42), 0)

	resp := m.handleCommand(server.LineCount{})
	assert.Equal(t, "OK 42", resp.String())
}

func TestCommandSize(t *testing.T) {
	m := newTestModel(t, numberedLines(3), 1234)

	resp := m.handleCommand(server.Size{})
	assert.Equal(t, "OK 1234", resp.String())
}

func TestCommandGoto(t *testing.T) {
	m := newTestModel(t, numberedLines(100), 0)

	resp := m.handleCommand(server.Goto{Line: 50})
	assert.Equal(t, "OK", resp.String())
	assert.Equal(t, 49, m.topLine)
}

func TestCommandGotoOutOfRange(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	resp := m.handleCommand(server.Goto{Line: 11})
	assert.Equal(t, "ERROR line out of range: requested 11, file has 10 lines", resp.String())
	assert.Equal(t, 0, m.topLine)
}

func TestCommandTopReportsOneBased(t *testing.T) {
	m := newTestModel(t, numberedLines(100), 0)

	m.handleCommand(server.Goto{Line: 30})
	resp := m.handleCommand(server.Top{})
	assert.Equal(t, "OK 30", resp.String())
}

func TestCommandMarkFullLine(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	resp := m.handleCommand(server.Mark{Line: 3, Color: "red"})
	assert.Equal(t, "OK", resp.String())

	lm := m.marks.Get(2)
	require.NotNil(t, lm)
	assert.Equal(t, "red", lm.FullLineColor)
}

func TestCommandMarkRegion(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	resp := m.handleCommand(server.Mark{Line: 1, Region: &server.Region{Start: 2, End: 5}, Color: "blue"})
	assert.Equal(t, "OK", resp.String())

	lm := m.marks.Get(0)
	require.NotNil(t, lm)
	require.Len(t, lm.Regions, 1)
	assert.Equal(t, Region{StartCol: 1, EndCol: 4, Color: "blue"}, lm.Regions[0])
}

func TestCommandUnmarkUnmarkedLine(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	resp := m.handleCommand(server.Unmark{Line: 5})
	assert.Equal(t, "ERROR line 5 is not marked", resp.String())
}

func TestCommandUnmarkRemovesMark(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	m.handleCommand(server.Mark{Line: 5, Color: "green"})
	resp := m.handleCommand(server.Unmark{Line: 5})
	assert.Equal(t, "OK", resp.String())
	assert.Nil(t, m.marks.Get(4))
}

func TestCommandSearchInvalidPattern(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	resp := m.handleCommand(server.Search{Pattern: "[unclosed"})
	assert.True(t, resp.IsErr)
	assert.False(t, m.session.Active())
}

func TestCommandSearchNextWithoutSearch(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	resp := m.handleCommand(server.SearchNext{})
	assert.Equal(t, "ERROR no active search", resp.String())
}

func TestCommandSearchNextReportsMatch(t *testing.T) {
	lines := numberedLines(20)
	lines[4] = "abc target xyz"
	m := newTestModel(t, lines, 0)

	resp := m.handleCommand(server.Search{Pattern: "target"})
	require.Equal(t, "OK", resp.String())

	// Reply is 1-based: line 5, column 5, match length 6.
	resp = m.handleCommand(server.SearchNext{})
	assert.Equal(t, "OK 5 5 6", resp.String())
}

func TestCommandSearchNextNoMoreMatches(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	require.False(t, m.handleCommand(server.Search{Pattern: "absent"}).IsErr)
	resp := m.handleCommand(server.SearchNext{})
	assert.Equal(t, "ERROR no more matches", resp.String())
}

func TestCommandSearchClear(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	require.False(t, m.handleCommand(server.Search{Pattern: "line"}).IsErr)
	assert.True(t, m.session.Active())

	resp := m.handleCommand(server.SearchClear{})
	assert.Equal(t, "OK", resp.String())
	assert.False(t, m.session.Active())
}

func TestWorkerLinesStaleResponseDropped(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)
	m.latestRequestID = 7

	m.handleWorkerResponse(worker.Lines{
		Lines:     []source.NumberedLine{{Num: 0, Text: "stale"}},
		RequestID: 3,
		Start:     0,
	})
	assert.Empty(t, m.lines, "stale response should be dropped")

	m.handleWorkerResponse(worker.Lines{
		Lines:     []source.NumberedLine{{Num: 2, Text: "fresh"}},
		RequestID: 7,
		Start:     2,
	})
	require.Len(t, m.lines, 1)
	assert.Equal(t, "fresh", m.lines[0].Text)
	assert.Equal(t, 2, m.topLine)
}

func TestWorkerSearchResultsNavigateToFirst(t *testing.T) {
	m := newTestModel(t, numberedLines(500), 0)

	matches := []search.Match{{Line: 300, Start: 0, End: 4}}
	require.NoError(t, m.session.SetPattern("line"))
	m.handleWorkerResponse(worker.SearchResults{
		Matches:         matches,
		SearchedStart:   250,
		SearchedEnd:     400,
		NavigateToFirst: true,
	})

	assert.Equal(t, 300, m.topLine)
	assert.Equal(t, "1 matches", m.searchInfo)
}

func TestWorkerSearchResultsNoNavigateOnResearch(t *testing.T) {
	m := newTestModel(t, numberedLines(500), 0)

	require.NoError(t, m.session.SetPattern("line"))
	m.handleWorkerResponse(worker.SearchResults{
		Matches:         []search.Match{{Line: 300, Start: 0, End: 4}},
		SearchedStart:   250,
		SearchedEnd:     400,
		NavigateToFirst: false,
	})

	assert.Equal(t, 0, m.topLine, "re-search must not move the viewport")
}

func TestWorkerSearchResultsStaleDropped(t *testing.T) {
	m := newTestModel(t, numberedLines(500), 0)

	require.NoError(t, m.session.SetPattern("line"))
	m.latestSearchID = 9

	m.handleWorkerResponse(worker.SearchResults{
		Matches:         []search.Match{{Line: 300, Start: 0, End: 4}},
		RequestID:       4,
		SearchedStart:   250,
		SearchedEnd:     400,
		NavigateToFirst: true,
	})

	assert.Empty(t, m.session.Matches(), "superseded search results should be dropped")
	assert.Equal(t, 0, m.topLine)

	m.handleWorkerResponse(worker.SearchResults{
		Matches:         []search.Match{{Line: 300, Start: 0, End: 4}},
		RequestID:       9,
		SearchedStart:   250,
		SearchedEnd:     400,
		NavigateToFirst: true,
	})
	assert.Equal(t, 300, m.topLine)
}

func TestCommandSearchNextSurvivesResponseBacklog(t *testing.T) {
	lines := numberedLines(200)
	lines[9] = "abc target xyz"
	m := newTestModel(t, lines, 0)

	// Queue more pending work than the worker's response buffer can hold,
	// so the find request sits behind a backlog the worker cannot flush on
	// its own.
	for i := 0; i < 70; i++ {
		m.worker.Submit(worker.GetLines{Start: 0, Count: 1, RequestID: worker.NextRequestID()})
	}

	require.Equal(t, "OK", m.handleCommand(server.Search{Pattern: "target"}).String())
	resp := m.handleCommand(server.SearchNext{})
	assert.Equal(t, "OK 10 5 6", resp.String())
}

func TestWorkerSearchResultsNoMatches(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	require.NoError(t, m.session.SetPattern("absent"))
	m.handleWorkerResponse(worker.SearchResults{NavigateToFirst: true})
	assert.Equal(t, "No matches", m.searchInfo)
}

func TestWorkerFoundMatchScrolls(t *testing.T) {
	m := newTestModel(t, numberedLines(500), 0)

	require.NoError(t, m.session.SetPattern("line"))
	m.handleWorkerResponse(worker.FoundMatch{
		Match: search.Match{Line: 123, Start: 0, End: 4},
		Found: true,
	})

	assert.Equal(t, 123, m.topLine)
	assert.Equal(t, "Match at line 124", m.searchInfo)
}

func TestWorkerFoundMatchNone(t *testing.T) {
	m := newTestModel(t, numberedLines(10), 0)

	m.handleWorkerResponse(worker.FoundMatch{Found: false})
	assert.Equal(t, "No more matches", m.searchInfo)
	assert.Equal(t, 0, m.topLine)
}
