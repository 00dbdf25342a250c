package source

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/sys/unix"
)

// LocalFile provides random line access to a memory-mapped local file. The
// whole file is addressable once mapped, so no caching layer sits in
// between: a line read is a couple of slice operations.
//
// The line index is built once at open and never refreshed; a file that
// grows afterwards is shown as it was.
type LocalFile struct {
	path string
	data []byte
	// lineOffsets[i] is the byte offset of line i's first byte. Strictly
	// increasing, lineOffsets[0] == 0.
	lineOffsets []int
}

var _ Source = (*LocalFile)(nil)

// OpenLocal maps the file at path and builds its line index in a single
// scan for newline bytes.
func OpenLocal(path string) (*LocalFile, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FileNotFoundError{Path: path}
		}
		if os.IsPermission(err) {
			return nil, &PermissionError{Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	f := &LocalFile{path: path, lineOffsets: []int{0}}
	if size := info.Size(); size > 0 {
		data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if err != nil {
			return nil, fmt.Errorf("mmap %s: %w", path, err)
		}
		f.data = data
		f.buildLineIndex()
	}
	return f, nil
}

// Close unmaps the file. Line access after Close is invalid.
func (f *LocalFile) Close() error {
	if f.data == nil {
		return nil
	}
	data := f.data
	f.data = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap %s: %w", f.path, err)
	}
	return nil
}

func (f *LocalFile) buildLineIndex() {
	for i, b := range f.data {
		if b == '\n' && i+1 < len(f.data) {
			f.lineOffsets = append(f.lineOffsets, i+1)
		}
	}
}

// LineCount returns the number of lines recorded at open time.
func (f *LocalFile) LineCount() int {
	return len(f.lineOffsets)
}

// FileSize returns the mapped length.
func (f *LocalFile) FileSize() (int64, error) {
	return int64(len(f.data)), nil
}

// Line slices the line out of the mapping. Lines that are not valid UTF-8
// are reported absent rather than failing the request.
func (f *LocalFile) Line(num int) (string, bool, error) {
	if num < 0 || num >= len(f.lineOffsets) {
		return "", false, nil
	}

	start := f.lineOffsets[num]
	end := len(f.data)
	if num+1 < len(f.lineOffsets) {
		end = f.lineOffsets[num+1]
	}

	raw := f.data[start:end]
	if len(raw) > 0 && raw[len(raw)-1] == '\n' {
		raw = raw[:len(raw)-1]
	}
	if len(raw) > 0 && raw[len(raw)-1] == '\r' {
		raw = raw[:len(raw)-1]
	}
	if !utf8.Valid(raw) {
		return "", false, nil
	}
	return string(raw), true, nil
}

// Lines collects the requested range, skipping lines reported absent.
func (f *LocalFile) Lines(start, count int) ([]NumberedLine, error) {
	end := min(start+count, f.LineCount())
	if start < 0 {
		start = 0
	}
	if start >= end {
		return nil, nil
	}

	lines := make([]NumberedLine, 0, end-start)
	for i := start; i < end; i++ {
		text, ok, err := f.Line(i)
		if err != nil {
			return nil, err
		}
		if ok {
			lines = append(lines, NumberedLine{Num: i, Text: text})
		}
	}
	return lines, nil
}

// DisplayName returns the local path.
func (f *LocalFile) DisplayName() string {
	return f.path
}
