package source

import "fmt"

// RemoteError reports a failed remote command that matched no more specific
// condition. Message carries the remote stderr verbatim.
type RemoteError struct {
	Host    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote error on %s: %s", e.Host, e.Message)
}

// FileNotFoundError reports a missing file. Path includes the host prefix
// for remote files.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// PermissionError reports a file the remote user may not read.
type PermissionError struct {
	Path string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Path)
}
