package onboard

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-onboard/pkg/renderers/html"
)

const flowYAML = `
id: welcome
pages:
  - id: name
    type: formEntry
    title: Welcome
    fields:
      - id: firstName
        type: text
        label: First name
        required: true
  - id: done
    type: formEntry
    title: All set
`

func TestLoadFlowsAndLint(t *testing.T) {
	store, err := LoadFlows(fstest.MapFS{
		"flows/welcome.yaml": &fstest.MapFile{Data: []byte(flowYAML)},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def, ok := store.Flow("welcome")
	if !ok {
		t.Fatalf("expected welcome flow, got %v", store.IDs())
	}
	if report := Lint(def); !report.Valid {
		t.Fatalf("expected valid flow, got %v", report.Err())
	}
}

func TestNewHTMLSessionRendersFirstPage(t *testing.T) {
	store, err := LoadFlows(fstest.MapFS{
		"welcome.yaml": &fstest.MapFile{Data: []byte(flowYAML)},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def, _ := store.Flow("welcome")

	session, renderer, err := NewHTMLSession(def.Pages, []html.Option{})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	out, err := renderer.Render(context.Background(), session.View())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Welcome") || !strings.Contains(out, `data-field="firstName"`) {
		t.Fatalf("unexpected markup:\n%s", out)
	}
	if session.Snapshot().TotalPages != 2 {
		t.Fatalf("expected 2 pages, got %d", session.Snapshot().TotalPages)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "page.tpl"); err != nil {
		t.Fatalf("expected page.tpl: %v", err)
	}
}
