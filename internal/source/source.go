package source

// NumberedLine pairs a 0-based line number with its text.
type NumberedLine struct {
	Num  int
	Text string
}

// Source is the uniform line-access contract implemented by both the local
// mmap-backed file and the remote ssh-backed file. Everything above this
// layer (worker, search, UI) consumes lines exclusively through it.
type Source interface {
	// LineCount returns the total number of lines, fixed at open time.
	LineCount() int

	// FileSize returns the byte length of the underlying file.
	FileSize() (int64, error)

	// Line returns the line at the given 0-based number. Out-of-range
	// numbers report absence, not an error; errors are reserved for
	// genuine I/O or remote failures.
	Line(num int) (string, bool, error)

	// Lines returns the intersection of [start, start+count) with
	// [0, LineCount). Near end of file it returns fewer than count
	// entries, possibly none.
	Lines(start, count int) ([]NumberedLine, error)

	// DisplayName returns a stable human-readable identifier for the
	// file: its path, or "host:path" for remote files.
	DisplayName() string
}
