package source

import "strings"

// FilePath identifies either a local file or a file on a remote host.
// Exactly one interpretation applies: Host is empty for local paths.
type FilePath struct {
	Host string
	Path string
}

// Remote reports whether the path refers to a file on another host.
func (p FilePath) Remote() bool {
	return p.Host != ""
}

// String renders the path the way the user typed it.
func (p FilePath) String() string {
	if p.Remote() {
		return p.Host + ":" + p.Path
	}
	return p.Path
}

// ParsePath interprets scp-style "host:/abs/path" input as a remote file.
// To qualify, the part before the colon must contain no slash and the part
// after must be absolute; anything else is a local path, so local names
// containing colons keep working.
func ParsePath(input string) FilePath {
	if idx := strings.Index(input, ":"); idx > 0 {
		host, rest := input[:idx], input[idx+1:]
		if strings.HasPrefix(rest, "/") && !strings.Contains(host, "/") {
			return FilePath{Host: host, Path: rest}
		}
	}
	return FilePath{Path: input}
}
