// Package critical provides scoped exclusive access to state shared
// between an asynchronous producer and the polling loop.
//
// On a microcontroller the producer is an interrupt handler and the section
// disables interrupt preemption. Here the producer is a goroutine and the
// section is a mutex, but the discipline is the same: every mutation of
// shared state happens inside a section, the section is always released on
// every exit path, and sections are never re-entered.
package critical
