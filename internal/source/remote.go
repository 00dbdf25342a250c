package source

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	maxRetries        = 3
	defaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxChunks bounds the remote cache at 20 chunks (10k lines).
	DefaultMaxChunks = 20
)

// Runner executes a single shell command on a remote host and returns the
// command's stdout and stderr. A non-nil error means the command could not
// be run or exited non-zero; stderr is still populated in that case so the
// caller can classify the failure.
type Runner interface {
	Run(host, command string) (stdout, stderr []byte, err error)
}

// sshRunner shells out to the ssh binary so the user's ~/.ssh/config,
// agent, and ControlMaster sessions all apply.
type sshRunner struct{}

func (sshRunner) Run(host, command string) ([]byte, []byte, error) {
	cmd := exec.Command("ssh", host, command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// RemoteOptions tune how a remote file is opened.
type RemoteOptions struct {
	// Runner overrides the transport; nil uses the ssh binary.
	Runner Runner
	// MaxChunks bounds the chunk cache; zero or negative uses
	// DefaultMaxChunks.
	MaxChunks int
	// RetryDelay overrides the fixed inter-attempt delay; zero uses 500ms.
	RetryDelay time.Duration
}

// RemoteFile provides line access to a file reachable only through remote
// command execution. Lines are fetched in ChunkSize groups and kept in a
// bounded LRU cache so that scrolling does not re-issue round trips.
//
// Every remote operation is retried up to 3 times with a fixed delay; the
// failures this absorbs are transient network or ssh hiccups, so there is
// no backoff. Concurrent misses on the same chunk are not deduplicated;
// the single sequential worker makes that a non-issue in practice.
type RemoteFile struct {
	host        string
	path        string
	displayName string
	lineCount   int
	runner      Runner
	retryDelay  time.Duration

	// mu guards cache: shared reads for hits, exclusive for
	// insertion and recency updates.
	mu    sync.RWMutex
	cache *chunkCache
}

var _ Source = (*RemoteFile)(nil)

// OpenRemote probes the remote file's line count and prepares the cache.
// A host that cannot be reached, a missing file, and a permission denial
// are reported as distinct error types.
func OpenRemote(host, path string, opts RemoteOptions) (*RemoteFile, error) {
	runner := opts.Runner
	if runner == nil {
		runner = sshRunner{}
	}
	maxChunks := opts.MaxChunks
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}
	retryDelay := opts.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	f := &RemoteFile{
		host:        host,
		path:        path,
		displayName: host + ":" + path,
		runner:      runner,
		retryDelay:  retryDelay,
		cache:       newChunkCache(maxChunks),
	}

	count, err := f.fetchLineCount()
	if err != nil {
		return nil, err
	}
	f.lineCount = count
	return f, nil
}

func (f *RemoteFile) fetchLineCount() (int, error) {
	return withRetry(f.retryDelay, func() (int, error) {
		command := fmt.Sprintf("wc -l < '%s'", f.path)
		stdout, stderr, err := f.runner.Run(f.host, command)
		if err != nil {
			return 0, f.classifyFailure(stderr, err)
		}

		count, err := strconv.Atoi(strings.TrimSpace(string(stdout)))
		if err != nil {
			return 0, &RemoteError{
				Host:    f.host,
				Message: fmt.Sprintf("invalid line count: %s", strings.TrimSpace(string(stdout))),
			}
		}
		return count, nil
	})
}

// classifyFailure maps well-known remote failure text to typed errors.
func (f *RemoteFile) classifyFailure(stderr []byte, err error) error {
	text := string(stderr)
	if strings.Contains(text, "No such file") {
		return &FileNotFoundError{Path: f.displayName}
	}
	if strings.Contains(text, "Permission denied") {
		return &PermissionError{Path: f.displayName}
	}
	if text == "" {
		text = err.Error()
	}
	return &RemoteError{Host: f.host, Message: text}
}

// fetchChunk pulls exactly the chunk's lines: tail -n +K skips to the
// 1-based start line, head -n N takes the chunk.
func (f *RemoteFile) fetchChunk(chunkStart int) ([]string, error) {
	startLine := chunkStart + 1
	count := min(ChunkSize, f.lineCount-chunkStart)

	return withRetry(f.retryDelay, func() ([]string, error) {
		command := fmt.Sprintf("tail -n +%d '%s' | head -n %d", startLine, f.path, count)
		stdout, stderr, err := f.runner.Run(f.host, command)
		if err != nil {
			text := string(stderr)
			if text == "" {
				text = err.Error()
			}
			return nil, &RemoteError{Host: f.host, Message: text}
		}

		lines := strings.Split(string(stdout), "\n")
		// A trailing newline yields one empty trailing element; drop it.
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		return lines, nil
	})
}

// ensureChunkLoaded fetches the chunk owning chunkStart unless it is
// already cached.
func (f *RemoteFile) ensureChunkLoaded(chunkStart int) error {
	f.mu.RLock()
	loaded := f.cache.ContainsLine(chunkStart)
	f.mu.RUnlock()
	if loaded {
		return nil
	}

	lines, err := f.fetchChunk(chunkStart)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.cache.InsertChunk(chunkStart, lines)
	f.mu.Unlock()
	return nil
}

// LineCount returns the count probed at open time.
func (f *RemoteFile) LineCount() int {
	return f.lineCount
}

// FileSize probes the remote file's byte length.
func (f *RemoteFile) FileSize() (int64, error) {
	return withRetry(f.retryDelay, func() (int64, error) {
		command := fmt.Sprintf("stat -c%%s '%s'", f.path)
		stdout, stderr, err := f.runner.Run(f.host, command)
		if err != nil {
			text := string(stderr)
			if text == "" {
				text = err.Error()
			}
			return 0, &RemoteError{Host: f.host, Message: text}
		}

		size, err := strconv.ParseInt(strings.TrimSpace(string(stdout)), 10, 64)
		if err != nil {
			return 0, &RemoteError{
				Host:    f.host,
				Message: fmt.Sprintf("invalid file size: %s", strings.TrimSpace(string(stdout))),
			}
		}
		return size, nil
	})
}

// Line fetches the owning chunk if needed and answers from cache.
func (f *RemoteFile) Line(num int) (string, bool, error) {
	if num < 0 || num >= f.lineCount {
		return "", false, nil
	}

	if err := f.ensureChunkLoaded(ChunkStart(num)); err != nil {
		return "", false, err
	}

	f.mu.Lock()
	text, ok := f.cache.Line(num)
	f.mu.Unlock()
	return text, ok, nil
}

// Lines loads every chunk spanned by the range, lowest first, then
// assembles the answer purely from cache reads.
func (f *RemoteFile) Lines(start, count int) ([]NumberedLine, error) {
	if start < 0 {
		start = 0
	}
	end := min(start+count, f.lineCount)
	if start >= end {
		return nil, nil
	}

	for chunkStart := ChunkStart(start); chunkStart <= ChunkStart(end - 1); chunkStart += ChunkSize {
		if err := f.ensureChunkLoaded(chunkStart); err != nil {
			return nil, err
		}
	}

	lines := make([]NumberedLine, 0, end-start)
	f.mu.Lock()
	for num := start; num < end; num++ {
		if text, ok := f.cache.Line(num); ok {
			lines = append(lines, NumberedLine{Num: num, Text: text})
		}
	}
	f.mu.Unlock()
	return lines, nil
}

// DisplayName returns "host:path".
func (f *RemoteFile) DisplayName() string {
	return f.displayName
}

// withRetry runs op up to maxRetries times with a fixed delay between
// attempts, surfacing the final failure verbatim.
func withRetry[T any](delay time.Duration, op func() (T, error)) (T, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if attempt < maxRetries-1 {
			time.Sleep(delay)
		}
	}
	var zero T
	if lastErr == nil {
		lastErr = errors.New("remote operation failed")
	}
	return zero, lastErr
}
