package render

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemePartials maps renderer partial names to the built-in HTML
// preview templates.
func DefaultThemePartials() map[string]string {
	return map[string]string{
		"onboard.page":        "page",
		"onboard.field":       "field",
		"onboard.conditional": "conditional",
		"onboard.choices":     "choices",
	}
}

// ResolveTheme selects a theme through selector and flattens it into a
// renderer configuration. fallbacks fill partials the theme does not
// override. A nil selector yields a nil config.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q: %w", name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, fmt.Errorf("render: theme %q has no manifest", name)
	}

	manifest := selection.Manifest
	partials := mergeStrings(fallbacks, manifest.Templates)
	tokens := mergeStrings(nil, manifest.Tokens)
	files := mergeStrings(nil, manifest.Assets.Files)
	prefix := manifest.Assets.Prefix

	if v, ok := manifest.Variants[selection.Variant]; ok {
		partials = mergeStrings(partials, v.Templates)
		tokens = mergeStrings(tokens, v.Tokens)
		files = mergeStrings(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for k, v := range tokens {
		cssVars["--"+strings.TrimPrefix(k, "--")] = v
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				file = key
			}
			if prefix == "" {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}, nil
}

// ManifestSelector is a theme.ThemeSelector over a fixed set of manifests,
// for hosts that configure themes inline rather than through a provider.
type ManifestSelector struct {
	Manifests      map[string]*theme.Manifest
	DefaultTheme   string
	DefaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// Select implements theme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if strings.TrimSpace(name) == "" {
		name = s.DefaultTheme
	}
	if strings.TrimSpace(variant) == "" {
		variant = s.DefaultVariant
	}
	manifest, ok := s.Manifests[name]
	if !ok || manifest == nil {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

func mergeStrings(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
