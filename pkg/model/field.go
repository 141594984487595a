package model

import (
	"strconv"
	"strings"
)

// Field describes a single input hosted by a page. Fields are immutable once
// the flow starts.
type Field struct {
	ID             string         `json:"id,omitempty" yaml:"id,omitempty"`
	Type           FieldType      `json:"type" yaml:"type"`
	Label          string         `json:"label,omitempty" yaml:"label,omitempty"`
	LabelKey       string         `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	Placeholder    string         `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	PlaceholderKey string         `json:"placeholderKey,omitempty" yaml:"placeholderKey,omitempty"`
	Required       bool           `json:"required,omitempty" yaml:"required,omitempty"`
	Prefill        any            `json:"prefill,omitempty" yaml:"prefill,omitempty"`
	Options        []Option       `json:"options,omitempty" yaml:"options,omitempty"`
	Props          map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
	Validator      ValidatorFunc  `json:"-" yaml:"-"`
}

// Key identifies the field within its page: the configured ID, or the
// positional index when the ID is blank.
func (f Field) Key(index int) string {
	if id := strings.TrimSpace(f.ID); id != "" {
		return id
	}
	return strconv.Itoa(index)
}

// Prop returns a string prop or the fallback.
func (f Field) Prop(name, fallback string) string {
	if f.Props == nil {
		return fallback
	}
	if v, ok := f.Props[name].(string); ok && v != "" {
		return v
	}
	return fallback
}

// BoolProp returns a boolean prop or the fallback.
func (f Field) BoolProp(name string, fallback bool) bool {
	if f.Props == nil {
		return fallback
	}
	if v, ok := f.Props[name].(bool); ok {
		return v
	}
	return fallback
}

// FloatProp returns a numeric prop or the fallback. YAML and JSON decoders
// disagree on number types so both ints and floats are accepted.
func (f Field) FloatProp(name string, fallback float64) float64 {
	if f.Props == nil {
		return fallback
	}
	switch v := f.Props[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// IsTextual reports whether the field is edited through a text input.
func (f Field) IsTextual() bool {
	switch f.Type {
	case FieldTypeText, FieldTypeTextArea, FieldTypeNumber, FieldTypeEmail,
		FieldTypePassword, FieldTypeHandle, FieldTypePhone, FieldTypeCode:
		return true
	}
	return false
}
