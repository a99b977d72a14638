package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or declined
	// the final confirmation.
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalidImage is reported when an image answer is neither a readable
	// file nor a URL.
	ErrInvalidImage = errors.New("tui: image must be a file path or URL")
)
