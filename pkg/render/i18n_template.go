package render

import (
	"fmt"
	"reflect"
	"strings"
)

// TemplateI18nConfig configures the template translation helpers.
type TemplateI18nConfig struct {
	// LocaleKey names the entry holding the locale when templates pass a map
	// or struct instead of a locale string. Defaults to "locale".
	LocaleKey string
	// FuncName overrides the helper name. Defaults to "translate".
	FuncName  string
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns helpers for the HTML preview templates (see
// html.WithTemplateFuncs):
//
//	translate(localeSrc, key, ...args) string
//	current_locale(localeSrc) string
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	localeKey := strings.TrimSpace(cfg.LocaleKey)
	if localeKey == "" {
		localeKey = "locale"
	}
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	return map[string]any{
		name: func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale := localeFrom(localeSrc, localeKey)
			if t == nil {
				return onMissing(locale, key, params, ErrMissingTranslator)
			}
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, params, err)
			}
			return msg
		},
		"current_locale": func(localeSrc any) string {
			return localeFrom(localeSrc, localeKey)
		},
	}
}

func localeFrom(src any, key string) string {
	switch v := src.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]string:
		return v[key]
	case map[string]any:
		if raw, ok := v[key]; ok && raw != nil {
			return strings.TrimSpace(fmt.Sprint(raw))
		}
		return ""
	}

	value := reflect.Indirect(reflect.ValueOf(src))
	if value.Kind() != reflect.Struct {
		return ""
	}
	f := value.FieldByNameFunc(func(name string) bool {
		return strings.EqualFold(name, key)
	})
	if f.IsValid() && f.Kind() == reflect.String {
		return f.String()
	}
	return ""
}
