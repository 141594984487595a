// Package html renders onboarding pages as HTML fragments for server-driven
// clients. Templates are pongo2; titles and subtitles may carry limited
// markup and are sanitised with bluemonday. Page renderers never navigate on
// their own: the host posts the client's answer back through Submit and
// applies the returned action.
package html
