// Package app provides the orchestration layer for the pog viewer.
//
// # Overview
//
// This package wires together configuration, the file source, the worker,
// the control server, and the UI. It is the composition root where all
// dependencies are initialized and connected; business logic lives in the
// domain packages.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/pog/config.toml
//  2. Initialize file logging (the TUI owns the terminal)
//  3. Load presentation preferences from ~/.config/pog/prefs.toml
//  4. Open the file: mmap for local paths, ssh for host:/path
//  5. Start the worker goroutine that serializes file access
//  6. Start the TCP control server unless disabled
//  7. Start the TUI and block until the user exits or the context cancels
//
// # Error Handling
//
// Startup failures are fatal and returned from Run: an unreadable config, a
// missing file, or an unreachable remote host. Once the UI is running,
// failures flow through the worker as messages and surface in the status
// bar instead of crashing the viewer.
package app
