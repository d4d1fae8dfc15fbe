// Package modulation provides delay-line modulation effects driven by a
// host callback loop.
//
// Engines here process one channel block at a time and share their delay
// buffers across channels through a single deferred write cursor: the host
// calls ProcessChannel for every channel of a block, then commits the
// cursor advances exactly once. Processing is allocation-free. Engines
// are not safe for concurrent use; process and parameter calls belong on
// the same goroutine, typically the host's audio callback.
package modulation
