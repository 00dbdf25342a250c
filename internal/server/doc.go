// Package server exposes the viewer to external scripts over a
// line-oriented TCP protocol on localhost.
//
// One command per line, one response per command: "OK", "OK <detail>", or
// "ERROR <message>". Supported commands:
//
//	goto <line>                scroll to a 1-based line
//	lines                      report the total line count
//	top                        scroll to the first line
//	size                       report the file's byte length
//	mark <line> [<a>-<b>] <color>   color a line or a column region
//	unmark <line> [<a>-<b>]    remove a mark
//	search <pattern>           start a regex search
//	search-next                jump to the next match in the file
//	search-prev                jump to the previous match
//	search-clear               deactivate the search
//
// The server binds 127.0.0.1 on the configured port, scanning upward
// through the next hundred ports when it is taken, so several viewers can
// run side by side. Parsed commands travel to the UI goroutine through a
// request channel and are answered synchronously, which keeps the
// protocol trivially scriptable with netcat.
package server
