// Package preview converts uploaded blobs into displayable previews. A
// conversion runs on its own goroutine and posts its result to a Sink when
// done; it never blocks validation, which judges the raw blob. Overlapping
// conversions are not cancelled: the last one to complete wins.
package preview
