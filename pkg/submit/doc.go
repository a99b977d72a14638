// Package submit implements the submission controller: Idle, then
// Validating, then back to Idle either with the sink invoked or with every
// field error surfaced. A second attempt while one is in flight returns
// ErrInProgress and changes nothing.
package submit
