// Package worker funnels every file-access and search operation through a
// single sequential goroutine.
//
// Requests are processed strictly in submission order. Each carries a
// monotonically increasing identifier from NextRequestID; responses echo
// it so a caller that has since issued a newer request can drop the stale
// answer. This is cooperative staleness suppression, not cancellation: an
// in-flight remote fetch runs to completion, only its result is ignored.
//
// FindNextMatch optionally carries a reply channel that receives the
// result synchronously. The control server uses it so scripted clients
// get an immediate answer instead of an asynchronous event.
package worker
