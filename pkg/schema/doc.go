// Package schema is the field schema registry. Each FieldSchema carries an
// ordered list of rules; the first failing rule decides the field's message,
// so an empty string on a required field reports only the required message.
// Registries are built from a declarative YAML definition (the registration
// form ships embedded) and can be projected into an OpenAPI schema object for
// documentation. Rules are pure predicates over model.Value and never return
// errors; violations are data.
package schema
