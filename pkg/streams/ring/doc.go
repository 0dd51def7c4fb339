// Package ring provides a fixed-capacity circular byte queue.
//
// The backing storage is allocated once by New and never grows. Writes that
// don't fit are rejected, existing data is never overwritten. Every operation
// runs inside the buffer's critical section, so a producer goroutine may push
// while the polling loop peeks and drops.
package ring
