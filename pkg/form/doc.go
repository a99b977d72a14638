// Package form holds the form state store and the validation engine. The
// store keeps values, touched/dirty flags, per-field errors, the image
// preview and the submission-in-progress flag behind a single owner. The
// engine decides, per trigger (change, blur, submit) and mode, whether a
// field is revalidated; submit always validates the whole record and makes
// every message visible.
package form
