// Package validation holds the per-type validation policies applied to field
// values, plus the issue report used when linting flow definitions.
//
// Policies never return Go errors: a value is either valid or carries an
// error flag and an optional message. The reserved Silent message marks a
// value as invalid without surfacing any text to the user.
package validation
