// Package search finds regex matches in line-indexed files without ever
// materializing the whole file.
//
// # Two query patterns
//
// Interactive viewing needs two different searches. The windowed search
// covers the viewport plus a buffer: Session.SearchRange reads an explicit
// line range through the source contract and replaces the previous match
// set wholesale. Session.NeedsResearch decides when scrolling has moved
// the viewport close enough to a searched edge that the window must be
// recomputed; the buffer works as a hysteresis band so a single-line
// scroll does not trigger a search.
//
// The second pattern is the unbounded jump: FindNext scans outward from a
// line in 1000-line strides until the first match or the file boundary,
// independent of viewport state. Strides keep memory bounded and let a
// remote source serve the scan chunk by chunk.
//
// # Columns
//
// Match columns are byte offsets as reported by the regexp engine. The
// presentation layer addresses marking regions by character; on non-ASCII
// lines the two indexings disagree and no reconciliation is attempted
// here (see DESIGN.md).
package search
