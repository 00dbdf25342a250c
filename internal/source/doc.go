// Package source turns arbitrarily large line-oriented files into
// constant-time, line-indexed random access, whether the file is on the
// local filesystem or on a host reachable only over ssh.
//
// # Overview
//
// Both backends implement the same Source contract: a fixed line count, a
// byte size, single- and multi-line reads by 0-based line number, and a
// stable display name. Out-of-range reads report absence rather than
// failing, so callers never need to pre-validate ranges against the count.
//
// # Local backend
//
// LocalFile memory-maps the file and records the byte offset of every line
// start in one scan. After that a line read is two slice operations; no
// caching layer is needed because the whole file is already addressable.
// The index is built once at open: subsequent growth or truncation of the
// file is not observed.
//
// # Remote backend
//
// RemoteFile never holds the whole file. Lines travel in fixed 500-line
// chunks fetched with a command equivalent to
//
//	tail -n +K 'path' | head -n N
//
// and land in a bounded LRU chunk cache (default 20 chunks). The line
// count is probed at open with wc -l and the byte size with stat. Each
// remote operation retries up to 3 times with a fixed 500ms pause; the
// failures this is meant to absorb are transient ssh and network hiccups.
//
// Remote execution goes through the Runner interface. The default runner
// shells out to the ssh binary so the user's ssh config, agent, and
// ControlMaster multiplexing keep working; tests substitute an in-memory
// runner.
//
// # Errors
//
// Failure text from the remote side is classified into typed errors:
// "No such file" becomes FileNotFoundError, "Permission denied" becomes
// PermissionError, and anything else a RemoteError carrying the host and
// the raw message. Local failures wrap the underlying I/O error.
//
// # Concurrency
//
// A LocalFile is immutable after open and safe for concurrent reads. A
// RemoteFile guards its chunk cache with a read/write lock so the
// synchronous control-protocol path may share it with the worker
// goroutine. Concurrent misses on the same chunk each trigger their own
// fetch; with a single sequential worker this does not occur.
package source
