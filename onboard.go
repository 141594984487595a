// Package onboard is the entry point for building onboarding flows: it
// wires the orchestrator to one of the bundled backends and loads flow
// definitions from disk.
package onboard

import (
	"io/fs"

	"github.com/goliatone/go-onboard/pkg/flowdef"
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/orchestrator"
	"github.com/goliatone/go-onboard/pkg/renderers/html"
	"github.com/goliatone/go-onboard/pkg/renderers/tui"
	"github.com/goliatone/go-onboard/pkg/validation"
)

// Page aliases model.Page for callers building flows in code.
type Page = model.Page

// Field aliases model.Field.
type Field = model.Field

// Session aliases orchestrator.Session.
type Session = orchestrator.Session

// NewTUISession runs pages in the terminal through survey prompts.
func NewTUISession(pages []Page, tuiOptions []tui.Option, options ...orchestrator.Option) (*Session, error) {
	backend, err := tui.New(tuiOptions...)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(backend, pages, options...)
}

// NewHTMLSession prepares pages for server-side rendering. Hosts render
// Session.View through the returned renderer, apply posted forms with
// html.Submit and advance with Session.Apply.
func NewHTMLSession(pages []Page, htmlOptions []html.Option, options ...orchestrator.Option) (*Session, *html.Renderer, error) {
	backend, err := html.New(htmlOptions...)
	if err != nil {
		return nil, nil, err
	}
	session, err := orchestrator.New(backend, pages, options...)
	if err != nil {
		return nil, nil, err
	}
	return session, backend, nil
}

// LoadFlows reads every JSON or YAML flow definition in fsys.
func LoadFlows(fsys fs.FS) (*flowdef.Store, error) {
	return flowdef.LoadFS(fsys)
}

// Lint checks a definition against the built-in tags plus any host tags.
func Lint(def flowdef.Definition, options ...flowdef.LintOption) *validation.Report {
	return flowdef.Lint(def, options...)
}

// EmbeddedTemplates exposes the built-in HTML templates.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
