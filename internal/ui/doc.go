// Package ui implements the Bubble Tea terminal viewer.
//
// The model owns all presentation state: the viewport position, the search
// session, manual line marks, and the theme. File access never happens on
// the UI goroutine; every read or search is submitted to the worker and the
// result arrives back as a message. Each lines request carries a request ID,
// and the model only renders a response whose ID matches the most recently
// issued one, so a burst of scroll events over a slow remote file settles on
// the final position instead of replaying every intermediate page.
//
// Control-server requests arrive on the same message loop. The model applies
// the command, replies on the request's channel, and re-arms the listener,
// which keeps scripted commands and keyboard input serialized without locks.
package ui
