package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openFixture(t *testing.T, content string) *LocalFile {
	t.Helper()
	f, err := OpenLocal(writeFixture(t, content))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestOpenLocalMissingFile(t *testing.T) {
	_, err := OpenLocal(filepath.Join(t.TempDir(), "absent.log"))
	var notFound *FileNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLocalLineCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty file", "", 1},
		{"single line no newline", "only", 1},
		{"single line with newline", "only\n", 1},
		{"two lines", "first\nsecond\n", 2},
		{"trailing blank line", "first\n\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := openFixture(t, tt.content)
			assert.Equal(t, tt.want, f.LineCount())
		})
	}
}

func TestLocalNoTrailingNewline(t *testing.T) {
	// A file of exactly 500 lines without a final newline still indexes
	// all 500, and the last line carries no newline artifact.
	var b strings.Builder
	for i := 0; i < 500; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "line %d", i)
	}
	f := openFixture(t, b.String())

	require.Equal(t, 500, f.LineCount())

	text, ok, err := f.Line(499)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "line 499", text)
}

func TestLocalLine(t *testing.T) {
	f := openFixture(t, "alpha\nbeta\r\ngamma\n")

	tests := []struct {
		num      int
		want     string
		wantLine bool
	}{
		{0, "alpha", true},
		{1, "beta", true}, // CRLF stripped
		{2, "gamma", true},
		{3, "", false},
		{-1, "", false},
	}

	for _, tt := range tests {
		text, ok, err := f.Line(tt.num)
		require.NoError(t, err)
		assert.Equal(t, tt.wantLine, ok, "line %d", tt.num)
		assert.Equal(t, tt.want, text, "line %d", tt.num)
	}
}

func TestLocalInvalidUTF8LineIsAbsent(t *testing.T) {
	f := openFixture(t, "good\n\xff\xfe\nalso good\n")

	_, ok, err := f.Line(1)
	require.NoError(t, err)
	assert.False(t, ok)

	// The surrounding lines are unaffected.
	lines, err := f.Lines(0, 3)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, NumberedLine{Num: 0, Text: "good"}, lines[0])
	assert.Equal(t, NumberedLine{Num: 2, Text: "also good"}, lines[1])
}

func TestLocalLinesNearEOF(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	f := openFixture(t, b.String())

	lines, err := f.Lines(8, 5)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, NumberedLine{Num: 8, Text: "line 8"}, lines[0])
	assert.Equal(t, NumberedLine{Num: 9, Text: "line 9"}, lines[1])

	lines, err = f.Lines(10, 5)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestLocalFileSize(t *testing.T) {
	f := openFixture(t, "0123456789\n")
	size, err := f.FileSize()
	require.NoError(t, err)
	assert.Equal(t, int64(11), size)
}

func TestLocalDisplayName(t *testing.T) {
	path := writeFixture(t, "x\n")
	f, err := OpenLocal(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, path, f.DisplayName())
}
