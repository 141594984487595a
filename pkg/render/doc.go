// Package render defines the renderer contracts shared by every backend: the
// tag keyed Registry with its mandatory fallback, the field and page
// renderer interfaces with the views they receive, the host Services, and
// the localization and theme helpers renderers use to resolve display text
// and styling.
package render
