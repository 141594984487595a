package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-onboard/pkg/model"
)

// ErrMissingTranslator is reported to MissingTranslationHandler when a key
// is configured but no translator was supplied.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a localized string.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the string used when a translation is
// missing. params carries {"default": fallback} as its first element.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

func missingTranslationDefault(_ string, key string, params []any, _ error) string {
	if len(params) > 0 {
		if m, ok := params[0].(map[string]any); ok {
			if fallback, ok := m["default"].(string); ok && strings.TrimSpace(fallback) != "" {
				return fallback
			}
		}
	}
	return key
}

// Localizer resolves `*Key` hints on pages and fields.
type Localizer struct {
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// Text translates key, falling back to fallback.
func (l Localizer) Text(key, fallback string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	onMissing := l.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	params := []any{map[string]any{"default": fallback}}

	if l.Translator == nil {
		return onMissing(l.Locale, key, params, ErrMissingTranslator)
	}
	result, err := l.Translator.Translate(l.Locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(l.Locale, key, params, err)
}

// Page returns the localized title and subtitle of p.
func (l Localizer) Page(p model.Page) (title, subtitle string) {
	return l.Text(p.TitleKey, p.Title), l.Text(p.SubtitleKey, p.Subtitle)
}

// Field returns the localized label and placeholder of f. Fields without a
// label fall back to a label derived from the ID.
func (l Localizer) Field(f model.Field) (label, placeholder string) {
	label = f.Label
	if strings.TrimSpace(label) == "" {
		label = model.DefaultLabel(f.ID)
	}
	return l.Text(f.LabelKey, label), l.Text(f.PlaceholderKey, f.Placeholder)
}

// LocalizePages rewrites titles, subtitles, labels and placeholders in place,
// recursing into nested conditional pages. It satisfies model.Decorator via
// LocalizeDecorator.
func LocalizePages(pages []model.Page, l Localizer) {
	for i := range pages {
		p := &pages[i]
		p.Title, p.Subtitle = l.Page(*p)
		for j := range p.Fields {
			f := &p.Fields[j]
			f.Label, f.Placeholder = l.Field(*f)
		}
		LocalizePages(p.Pages, l)
	}
}

// LocalizeDecorator wraps LocalizePages as a model.Decorator.
func LocalizeDecorator(l Localizer) model.Decorator {
	return model.DecoratorFunc(func(pages []model.Page) error {
		LocalizePages(pages, l)
		return nil
	})
}
