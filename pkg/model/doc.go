// Package model defines the value types shared by the schema registry, the
// form store, the preview adapter and the submission controller. Field values
// are a tagged variant (Absent, Text, Blob, Reference) so the image field can
// carry either an uploaded binary or an existing reference without runtime
// type inspection. Validation failures are plain data: a FieldValidationError
// names the field, the rule code and the fixed human-readable message, and a
// ValidationResult maps field names to the message currently in force.
package model
