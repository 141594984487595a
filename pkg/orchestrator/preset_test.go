package orchestrator

import (
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-onboard/pkg/model"
)

func TestPresetDecoratorPatchesNestedPages(t *testing.T) {
	fsys := fstest.MapFS{
		"preset.json": &fstest.MapFile{Data: []byte(`{
			"pages": {
				"petName": {
					"title": "Your pet",
					"showFooter": false,
					"fields": {"petName": {"label": "Pet name", "required": true}}
				}
			}
		}`)},
	}
	preset, err := NewPresetDecoratorFromFS(fsys, "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}
	pages := onboardingPages()
	if err := preset.Decorate(pages); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	nested := pages[1].Pages[0]
	if nested.Title != "Your pet" || nested.FooterVisible() {
		t.Fatalf("page not patched: %+v", nested)
	}
	if f := nested.Fields[0]; f.Label != "Pet name" || !f.Required {
		t.Fatalf("field not patched: %+v", f)
	}
}

func TestPresetDecoratorUnknownIDs(t *testing.T) {
	cases := map[string]string{
		"page":  `{"pages": {"missing": {"title": "x"}}}`,
		"field": `{"pages": {"name": {"fields": {"missing": {"label": "x"}}}}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			preset, err := NewPresetDecorator([]byte(doc))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if err := preset.Decorate(onboardingPages()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPresetDecoratorRejectsEmpty(t *testing.T) {
	if _, err := NewPresetDecorator([]byte("  ")); err == nil {
		t.Fatal("expected error for empty document")
	}
	var _ model.Decorator = (*PresetDecorator)(nil)
}
