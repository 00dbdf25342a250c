// Package config handles loading and parsing pog configuration files.
//
// # Overview
//
// This package reads pog's TOML configuration to discover the control
// server port, remote cache sizing, and log destination. Every field is
// optional; pog works out-of-the-box with no configuration file at all.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/pog/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/pog/config.toml
//   - Control server port: 9876 (scanning upward when taken)
//   - Remote chunk cache: 20 chunks
//   - Log directory: ~/.local/share/pog/logs
//
// # TOML Format
//
// Example config.toml:
//
//	port = 9876
//	no_server = false
//	max_cached_chunks = 20
//	log_dir = "~/.local/share/pog/logs"
//	log_level = "info"
//	log_format = "text"
//
// Tilde expansion is performed automatically on log_dir.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors
// (except os.ErrNotExist, which triggers defaults), and TOML parsing
// errors. A missing config file is NOT an error.
//
// The package is read-only and stateless: configuration is loaded once at
// startup into an immutable Config struct.
package config
