// Package flowdef loads onboarding flow definitions from JSON or YAML files
// and lints them before a session starts.
package flowdef
