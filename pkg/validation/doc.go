// Package validation cross-checks the field registry against its OpenAPI
// projection so clients that only see the exported schema reject the same
// text values the registry does.
package validation
