// Package source feeds bytes from devices and connections into ring buffers.
//
// A Pump plays the role of a receive interrupt: it runs on its own goroutine,
// pushes every byte it reads, and never assumes a push succeeds. Bytes that
// don't fit are dropped and counted.
package source
