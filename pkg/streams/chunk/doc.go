// Package chunk stores variable-size payloads as length-prefixed records
// in a ring.Buffer.
//
// A record is one length byte followed by that many payload bytes. Records
// are only visible to readers once fully written and are read back in the
// order they were written.
package chunk
