package orchestrator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-onboard/pkg/model"
)

// PresetDecorator applies declarative copy and behaviour overrides loaded
// from JSON. Pages are matched by ID, nested conditional pages included:
//
//	{
//	  "pages": {
//	    "profile": {
//	      "title": "About you",
//	      "primaryButtonTitle": "Next",
//	      "fields": {"firstName": {"label": "Given name", "required": true}}
//	    }
//	  }
//	}
type PresetDecorator struct {
	document presetDocument
}

type presetDocument struct {
	Pages map[string]pagePatch `json:"pages"`
}

type pagePatch struct {
	Title              string                `json:"title"`
	Subtitle           string                `json:"subtitle"`
	PrimaryButtonTitle string                `json:"primaryButtonTitle"`
	ShowHeader         *bool                 `json:"showHeader"`
	ShowFooter         *bool                 `json:"showFooter"`
	Props              map[string]any        `json:"props"`
	Fields             map[string]fieldPatch `json:"fields"`
}

type fieldPatch struct {
	Label       string         `json:"label"`
	Placeholder string         `json:"placeholder"`
	Required    *bool          `json:"required"`
	Prefill     any            `json:"prefill"`
	Props       map[string]any `json:"props"`
}

// NewPresetDecorator parses a preset document.
func NewPresetDecorator(data []byte) (*PresetDecorator, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset decorator: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset decorator: parse document: %w", err)
	}
	return &PresetDecorator{document: document}, nil
}

// NewPresetDecoratorFromFS loads a preset document from fsys.
func NewPresetDecoratorFromFS(fsys fs.FS, path string) (*PresetDecorator, error) {
	if fsys == nil {
		return nil, errors.New("preset decorator: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset decorator: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset decorator: read %s: %w", path, err)
	}
	return NewPresetDecorator(data)
}

// Decorate applies the patches. Unknown page or field IDs are errors so
// stale presets surface early.
func (d *PresetDecorator) Decorate(pages []model.Page) error {
	for pageID, patch := range d.document.Pages {
		p := findPage(pages, pageID)
		if p == nil {
			return fmt.Errorf("preset decorator: page %q not found", pageID)
		}
		if err := applyPagePatch(p, patch); err != nil {
			return fmt.Errorf("preset decorator: page %q: %w", pageID, err)
		}
	}
	return nil
}

func applyPagePatch(p *model.Page, patch pagePatch) error {
	if patch.Title != "" {
		p.Title = patch.Title
	}
	if patch.Subtitle != "" {
		p.Subtitle = patch.Subtitle
	}
	if patch.PrimaryButtonTitle != "" {
		p.PrimaryButtonTitle = patch.PrimaryButtonTitle
	}
	if patch.ShowHeader != nil {
		p.ShowHeader = model.Bool(*patch.ShowHeader)
	}
	if patch.ShowFooter != nil {
		p.ShowFooter = model.Bool(*patch.ShowFooter)
	}
	p.Props = mergeProps(p.Props, patch.Props)

	for fieldID, fp := range patch.Fields {
		f := findField(p.Fields, fieldID)
		if f == nil {
			return fmt.Errorf("field %q not found", fieldID)
		}
		if fp.Label != "" {
			f.Label = fp.Label
		}
		if fp.Placeholder != "" {
			f.Placeholder = fp.Placeholder
		}
		if fp.Required != nil {
			f.Required = *fp.Required
		}
		if fp.Prefill != nil {
			f.Prefill = fp.Prefill
		}
		f.Props = mergeProps(f.Props, fp.Props)
	}
	return nil
}

func findPage(pages []model.Page, id string) *model.Page {
	for i := range pages {
		p := &pages[i]
		if model.PageID(*p, i) == id {
			return p
		}
		if nested := findPage(p.Pages, id); nested != nil {
			return nested
		}
	}
	return nil
}

func findField(fields []model.Field, id string) *model.Field {
	for i := range fields {
		if fields[i].ID == id {
			return &fields[i]
		}
	}
	return nil
}

func mergeProps(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
