package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmatos/pog/internal/search"
	"github.com/pmatos/pog/internal/source"
)

type memSource struct {
	lines   []string
	failErr error
}

func (s *memSource) LineCount() int           { return len(s.lines) }
func (s *memSource) FileSize() (int64, error) { return 0, nil }
func (s *memSource) DisplayName() string      { return "mem" }

func (s *memSource) Line(num int) (string, bool, error) {
	if num < 0 || num >= len(s.lines) {
		return "", false, nil
	}
	return s.lines[num], true, nil
}

func (s *memSource) Lines(start, count int) ([]source.NumberedLine, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	end := min(start+count, len(s.lines))
	var out []source.NumberedLine
	for i := max(start, 0); i < end; i++ {
		out = append(out, source.NumberedLine{Num: i, Text: s.lines[i]})
	}
	return out, nil
}

func startWorker(t *testing.T, src source.Source) *Worker {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w := New(src)
	w.Start(ctx)
	return w
}

func nextResponse(t *testing.T, w *Worker) any {
	t.Helper()
	select {
	case resp := <-w.Responses():
		return resp
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for worker response")
		return nil
	}
}

func TestNextRequestIDMonotonic(t *testing.T) {
	a := NextRequestID()
	b := NextRequestID()
	assert.Greater(t, b, a)
}

func TestWorkerGetLines(t *testing.T) {
	w := startWorker(t, &memSource{lines: []string{"zero", "one", "two"}})

	id := NextRequestID()
	w.Submit(GetLines{Start: 1, Count: 5, RequestID: id})

	resp := nextResponse(t, w)
	lines, ok := resp.(Lines)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, id, lines.RequestID)
	assert.Equal(t, 1, lines.Start)
	require.Len(t, lines.Lines, 2)
	assert.Equal(t, "one", lines.Lines[0].Text)
}

func TestWorkerGetLinesError(t *testing.T) {
	w := startWorker(t, &memSource{failErr: errors.New("connection reset")})

	w.Submit(GetLines{Start: 0, Count: 1, RequestID: NextRequestID()})

	resp := nextResponse(t, w)
	errResp, ok := resp.(Error)
	require.True(t, ok, "got %T", resp)
	assert.Contains(t, errResp.Message, "connection reset")
}

func TestWorkerSearchRange(t *testing.T) {
	w := startWorker(t, &memSource{lines: []string{"no issue", "error here", "error again"}})

	id := NextRequestID()
	w.Submit(SearchRange{Pattern: "error", StartLine: 0, EndLine: 3, RequestID: id, NavigateToFirst: true})

	resp := nextResponse(t, w)
	results, ok := resp.(SearchResults)
	require.True(t, ok, "got %T", resp)
	assert.Equal(t, id, results.RequestID)
	assert.True(t, results.NavigateToFirst)
	assert.Equal(t, 0, results.SearchedStart)
	assert.Equal(t, 3, results.SearchedEnd)
	require.Len(t, results.Matches, 2)
	assert.Equal(t, 1, results.Matches[0].Line)
	assert.Equal(t, 2, results.Matches[1].Line)
}

func TestWorkerSearchRangeBadPattern(t *testing.T) {
	w := startWorker(t, &memSource{lines: []string{"x"}})

	w.Submit(SearchRange{Pattern: "(", StartLine: 0, EndLine: 1, RequestID: NextRequestID()})

	resp := nextResponse(t, w)
	errResp, ok := resp.(Error)
	require.True(t, ok, "got %T", resp)
	assert.Contains(t, errResp.Message, "invalid pattern")
}

func TestWorkerFindNextWithSyncReply(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	lines[42] = "the needle sits here"
	w := startWorker(t, &memSource{lines: lines})

	reply := make(chan *FindResult, 1)
	w.Submit(FindNextMatch{
		Pattern:   "needle",
		FromLine:  0,
		Direction: search.Forward,
		RequestID: NextRequestID(),
		Reply:     reply,
	})

	result := <-reply
	require.NotNil(t, result)
	assert.Equal(t, 42, result.Line)
	assert.Equal(t, 4, result.Col)
	assert.Equal(t, 6, result.Length)

	resp := nextResponse(t, w)
	found, ok := resp.(FoundMatch)
	require.True(t, ok, "got %T", resp)
	assert.True(t, found.Found)
	assert.Equal(t, 42, found.Match.Line)
}

func TestWorkerFindNextNoMatch(t *testing.T) {
	w := startWorker(t, &memSource{lines: []string{"a", "b"}})

	reply := make(chan *FindResult, 1)
	w.Submit(FindNextMatch{
		Pattern:   "zzz",
		FromLine:  0,
		Direction: search.Forward,
		RequestID: NextRequestID(),
		Reply:     reply,
	})

	assert.Nil(t, <-reply)

	resp := nextResponse(t, w)
	found, ok := resp.(FoundMatch)
	require.True(t, ok, "got %T", resp)
	assert.False(t, found.Found)
}

func TestWorkerProcessesInSubmissionOrder(t *testing.T) {
	w := startWorker(t, &memSource{lines: []string{"only"}})

	var ids []uint64
	for i := 0; i < 5; i++ {
		id := NextRequestID()
		ids = append(ids, id)
		w.Submit(GetLines{Start: 0, Count: 1, RequestID: id})
	}

	for i := 0; i < 5; i++ {
		resp := nextResponse(t, w)
		lines, ok := resp.(Lines)
		require.True(t, ok, "got %T", resp)
		assert.Equal(t, ids[i], lines.RequestID)
	}
}
