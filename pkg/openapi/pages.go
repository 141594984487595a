package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-onboard/pkg/model"
)

// Schema extensions read by PageFromSchema.
const (
	// ExtensionField forces a field type, e.g. "avatar" or "handle".
	ExtensionField = "x-onboard-field"
	// ExtensionOrder lists property names in display order on an object
	// schema. Unlisted properties follow alphabetically.
	ExtensionOrder = "x-onboard-order"
	// ExtensionSkip hides a property from the page.
	ExtensionSkip = "x-onboard-skip"
)

// ErrSchemaNotFound is returned when a component schema does not exist.
var ErrSchemaNotFound = errors.New("openapi: schema not found")

// PageFromSchema turns components.schemas[name] into a form entry page.
// Each supported property becomes a field; properties whose type has no
// field equivalent are skipped.
func PageFromSchema(doc *openapi3.T, name string) (model.Page, error) {
	if doc == nil || doc.Components == nil {
		return model.Page{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return model.Page{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, name)
	}
	return pageFrom(name, ref.Value)
}

// PageFromOperation builds a page from the JSON request body of the
// operation with the given operationId.
func PageFromOperation(doc *openapi3.T, operationID string) (model.Page, error) {
	if doc == nil || doc.Paths == nil {
		return model.Page{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}
	for _, item := range doc.Paths.Map() {
		for _, op := range item.Operations() {
			if op == nil || op.OperationID != operationID {
				continue
			}
			if op.RequestBody == nil || op.RequestBody.Value == nil {
				return model.Page{}, fmt.Errorf("openapi: operation %q has no request body", operationID)
			}
			media := op.RequestBody.Value.Content.Get("application/json")
			if media == nil || media.Schema == nil || media.Schema.Value == nil {
				return model.Page{}, fmt.Errorf("openapi: operation %q has no JSON schema", operationID)
			}
			page, err := pageFrom(operationID, media.Schema.Value)
			if err != nil {
				return model.Page{}, err
			}
			if page.Title == model.DefaultLabel(operationID) && op.Summary != "" {
				page.Title = op.Summary
			}
			return page, nil
		}
	}
	return model.Page{}, fmt.Errorf("openapi: operation %q not found", operationID)
}

func pageFrom(id string, schema *openapi3.Schema) (model.Page, error) {
	if !schema.Type.Is(openapi3.TypeObject) && len(schema.Properties) == 0 {
		return model.Page{}, fmt.Errorf("openapi: schema %q is not an object", id)
	}

	title := schema.Title
	if title == "" {
		title = model.DefaultLabel(id)
	}
	page := model.Page{
		ID:       id,
		Type:     model.PageTypeFormEntry,
		Title:    title,
		Subtitle: schema.Description,
	}

	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	for _, name := range propertyOrder(schema) {
		prop := schema.Properties[name]
		if prop == nil || prop.Value == nil || boolExtension(prop.Value, ExtensionSkip) {
			continue
		}
		f, ok := fieldFrom(name, prop.Value)
		if !ok {
			continue
		}
		_, f.Required = required[name]
		page.Fields = append(page.Fields, f)
	}
	return page, nil
}

func fieldFrom(name string, s *openapi3.Schema) (model.Field, bool) {
	f := model.Field{
		ID:          name,
		Label:       s.Title,
		Placeholder: s.Description,
		Prefill:     s.Default,
	}
	if f.Label == "" {
		f.Label = model.DefaultLabel(name)
	}

	if forced := stringExtension(s, ExtensionField); forced != "" {
		f.Type = model.FieldType(forced)
		f.Options = enumOptions(s)
		if f.Type == model.FieldTypeMultiple && s.Items != nil && s.Items.Value != nil {
			f.Options = enumOptions(s.Items.Value)
		}
		return f, true
	}

	switch {
	case s.Type.Is(openapi3.TypeString):
		if len(s.Enum) > 0 {
			f.Type = model.FieldTypeGender
			f.Options = enumOptions(s)
			return f, true
		}
		f.Type = stringFieldType(s)
		if s.MaxLength != nil && *s.MaxLength > 255 {
			f.Type = model.FieldTypeTextArea
		}
	case s.Type.Is(openapi3.TypeInteger), s.Type.Is(openapi3.TypeNumber):
		f.Type = model.FieldTypeNumber
	case s.Type.Is(openapi3.TypeArray):
		if s.Items == nil || s.Items.Value == nil || len(s.Items.Value.Enum) == 0 {
			return model.Field{}, false
		}
		f.Type = model.FieldTypeMultiple
		f.Options = enumOptions(s.Items.Value)
	default:
		return model.Field{}, false
	}
	return f, true
}

func stringFieldType(s *openapi3.Schema) model.FieldType {
	switch strings.ToLower(s.Format) {
	case "email":
		return model.FieldTypeEmail
	case "password":
		return model.FieldTypePassword
	case "date", "date-time":
		return model.FieldTypeDate
	case "phone", "tel":
		return model.FieldTypePhone
	}
	return model.FieldTypeText
}

func enumOptions(s *openapi3.Schema) []model.Option {
	if len(s.Enum) == 0 {
		return nil
	}
	opts := make([]model.Option, 0, len(s.Enum))
	for _, v := range s.Enum {
		opts = append(opts, model.Option{Value: fmt.Sprint(v)})
	}
	return opts
}

func propertyOrder(s *openapi3.Schema) []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	explicit := stringsExtension(s, ExtensionOrder)
	if len(explicit) == 0 {
		return names
	}
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range explicit {
		if _, ok := s.Properties[name]; ok {
			if _, dup := seen[name]; !dup {
				out = append(out, name)
				seen[name] = struct{}{}
			}
		}
	}
	for _, name := range names {
		if _, ok := seen[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func stringExtension(s *openapi3.Schema, key string) string {
	v, _ := s.Extensions[key].(string)
	return strings.TrimSpace(v)
}

func boolExtension(s *openapi3.Schema, key string) bool {
	v, _ := s.Extensions[key].(bool)
	return v
}

func stringsExtension(s *openapi3.Schema, key string) []string {
	raw, ok := s.Extensions[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
