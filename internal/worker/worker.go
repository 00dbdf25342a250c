package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pmatos/pog/internal/search"
	"github.com/pmatos/pog/internal/source"
)

// requestCounter feeds NextRequestID. Process-scoped; monotonicity is all
// that matters.
var requestCounter atomic.Uint64

// NextRequestID returns a monotonically increasing identifier used to tag
// responses so callers can discard stale ones.
func NextRequestID() uint64 {
	return requestCounter.Add(1)
}

// GetLines asks for [Start, Start+Count) lines.
type GetLines struct {
	Start     int
	Count     int
	RequestID uint64
}

// SearchRange asks to run Pattern over [StartLine, EndLine).
type SearchRange struct {
	Pattern         string
	StartLine       int
	EndLine         int
	RequestID       uint64
	NavigateToFirst bool
}

// FindNextMatch asks for the first match outward from FromLine. Reply,
// when non-nil, receives the result synchronously in addition to the
// asynchronous FoundMatch response; the control server uses it to answer
// scripted callers directly.
type FindNextMatch struct {
	Pattern   string
	FromLine  int
	Direction search.Direction
	RequestID uint64
	Reply     chan<- *FindResult
}

/// FindResult is the synchronous find-next answer: nil means no match.
type FindResult struct {
	Line   int
	Col    int
	Length int
}

// Lines carries fetched lines back to the caller.
type Lines struct {
	Lines     []source.NumberedLine
	RequestID uint64
	Start     int
}

// Error carries a failure as text; all worker failures are recoverable
// conditions for the caller.
type Error struct {
	Message string
}

// SearchResults carries a windowed search outcome.
type SearchResults struct {
	Matches         []search.Match
	RequestID       uint64
	SearchedStart   int
	SearchedEnd     int
	NavigateToFirst bool
}

// FoundMatch carries a find-next outcome; Found is false when the scan hit
// the file boundary first.
type FoundMatch struct {
	Match     search.Match
	Found     bool
	RequestID uint64
}

// Worker serializes all file access and search work through one goroutine
// consuming a request queue. Nothing here is inherently parallel; the
// serialization is what keeps the remote chunk cache race-free without
// fine-grained locking, at the cost of head-of-line blocking behind a slow
// remote fetch. A request, once submitted, always produces a response.
type Worker struct {
	src       source.Source
	requests  chan any
	responses chan any
}

// New builds a worker over the given source.
func New(src source.Source) *Worker {
	return &Worker{
		src:       src,
		requests:  make(chan any, 64),
		responses: make(chan any, 64),
	}
}

// Start launches the worker goroutine; it drains requests in submission
// order until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case req := <-w.requests:
				w.handle(req)
			}
		}
	}()
}

// Submit queues a request. Blocks only when the queue is full.
func (w *Worker) Submit(req any) {
	w.requests <- req
}

// Responses returns the channel worker responses arrive on.
func (w *Worker) Responses() <-chan any {
	return w.responses
}

func (w *Worker) handle(req any) {
	switch req := req.(type) {
	case GetLines:
		lines, err := w.src.Lines(req.Start, req.Count)
		if err != nil {
			w.responses <- Error{Message: err.Error()}
			return
		}
		w.responses <- Lines{Lines: lines, RequestID: req.RequestID, Start: req.Start}

	case SearchRange:
		re, err := search.Compile(req.Pattern)
		if err != nil {
			w.responses <- Error{Message: err.Error()}
			return
		}
		count := max(req.EndLine-req.StartLine, 0)
		lines, err := w.src.Lines(req.StartLine, count)
		if err != nil {
			w.responses <- Error{Message: err.Error()}
			return
		}
		w.responses <- SearchResults{
			Matches:         search.FindAll(re, lines),
			RequestID:       req.RequestID,
			SearchedStart:   req.StartLine,
			SearchedEnd:     req.EndLine,
			NavigateToFirst: req.NavigateToFirst,
		}

	case FindNextMatch:
		re, err := search.Compile(req.Pattern)
		if err != nil {
			if req.Reply != nil {
				req.Reply <- nil
			}
			w.responses <- Error{Message: err.Error()}
			return
		}
		match, found, err := search.FindNext(w.src, re, req.FromLine, req.Direction)
		if err != nil {
			if req.Reply != nil {
				req.Reply <- nil
			}
			w.responses <- Error{Message: err.Error()}
			return
		}
		if req.Reply != nil {
			if found {
				req.Reply <- &FindResult{
					Line:   match.Line,
					Col:    match.Start,
					Length: match.End - match.Start,
				}
			} else {
				req.Reply <- nil
			}
		}
		w.responses <- FoundMatch{Match: match, Found: found, RequestID: req.RequestID}

	default:
		w.responses <- Error{Message: fmt.Sprintf("unknown request type %T", req)}
	}
}
