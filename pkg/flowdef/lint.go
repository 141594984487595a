package flowdef

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/validation"
)

// LintOption extends the tags a definition may use.
type LintOption func(*linter)

// WithFieldTypes accepts host field tags.
func WithFieldTypes(tags ...string) LintOption {
	return func(l *linter) {
		l.fieldTypes = append(l.fieldTypes, tags...)
	}
}

// WithPageTypes accepts host page tags.
func WithPageTypes(tags ...string) LintOption {
	return func(l *linter) {
		l.pageTypes = append(l.pageTypes, tags...)
	}
}

type linter struct {
	fieldTypes []string
	pageTypes  []string
	report     *validation.Report
	pageIDs    map[string]string
}

// Lint checks a definition for mistakes that would otherwise only show up
// at runtime: unknown tags (which silently fall back), duplicate IDs,
// conditional pages without children and impossible choice bounds.
func Lint(def Definition, options ...LintOption) *validation.Report {
	l := &linter{
		report:  validation.NewReport(),
		pageIDs: make(map[string]string),
	}
	for _, t := range model.FieldTypes() {
		l.fieldTypes = append(l.fieldTypes, string(t))
	}
	for _, t := range model.PageTypes() {
		l.pageTypes = append(l.pageTypes, string(t))
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}

	if len(def.Pages) == 0 {
		l.report.Add("pages", "", "flow has no pages")
		return l.report
	}
	l.pages(def.Pages, "pages")
	return l.report
}

func (l *linter) pages(pages []model.Page, prefix string) {
	for i, p := range pages {
		at := fmt.Sprintf("%s[%d]", prefix, i)
		l.page(p, i, at)
	}
}

func (l *linter) page(p model.Page, index int, at string) {
	if id := strings.TrimSpace(p.ID); id != "" {
		if prev, dup := l.pageIDs[id]; dup {
			l.report.Add(at, "id", "duplicate page id %q (first used at %s)", id, prev)
		} else {
			l.pageIDs[id] = at
		}
	}

	tag := strings.TrimSpace(string(p.Type))
	switch {
	case tag == "":
		l.report.Add(at, "type", "page type is required")
	case !contains(l.pageTypes, tag):
		l.report.Add(at, "type", "unknown page type %q%s", tag, suggestion(tag, l.pageTypes))
	}

	switch {
	case p.Conditional() && len(p.Pages) == 0:
		l.report.Add(at, "pages", "conditional page has no nested pages")
	case !p.Conditional() && len(p.Pages) > 0:
		l.report.Add(at, "pages", "nested pages are only shown by conditional pages")
	}

	if p.Type == model.PageTypeMultipleChoice && len(p.Fields) == 0 {
		switch {
		case len(p.Options) == 0:
			l.report.Add(at, "options", "multiple choice page has no options")
		case p.MaxChoices > 0 && p.MinChoices > p.MaxChoices:
			l.report.Add(at, "minChoices", "minChoices %d exceeds maxChoices %d", p.MinChoices, p.MaxChoices)
		case p.MinChoices > len(p.Options):
			l.report.Add(at, "minChoices", "minChoices %d exceeds the %d options", p.MinChoices, len(p.Options))
		}
	}

	seen := make(map[string]struct{}, len(p.Fields))
	for j, f := range p.Fields {
		fat := fmt.Sprintf("%s.fields[%d]", at, j)
		key := f.Key(j)
		if _, dup := seen[key]; dup {
			l.report.Add(fat, "id", "duplicate field id %q", key)
		}
		seen[key] = struct{}{}

		ftag := strings.TrimSpace(string(f.Type))
		switch {
		case ftag == "":
			l.report.Add(fat, "type", "field type is required")
		case !contains(l.fieldTypes, ftag):
			l.report.Add(fat, "type", "unknown field type %q%s", ftag, suggestion(ftag, l.fieldTypes))
		}
		if f.Type == model.FieldTypeMultiple && len(f.Options) == 0 {
			l.report.Add(fat, "options", "multiple choice field has no options")
		}
	}

	l.pages(p.Pages, at+".pages")
}

func suggestion(tag string, known []string) string {
	if s := render.Closest(tag, known); s != "" {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
