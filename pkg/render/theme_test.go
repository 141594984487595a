package render_test

import (
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-onboard/pkg/render"
)

func TestResolveTheme_MergesVariant(t *testing.T) {
	selector := &render.ManifestSelector{
		DefaultTheme: "acme",
		Manifests: map[string]*theme.Manifest{
			"acme": {
				Name:      "acme",
				Version:   "1.0.0",
				Tokens:    map[string]string{"brand": "#123456", "radius": "8px"},
				Templates: map[string]string{"onboard.page": "acme/page"},
				Assets: theme.Assets{
					Prefix: "/assets/acme",
					Files:  map[string]string{"stylesheet": "theme.css"},
				},
				Variants: map[string]theme.Variant{
					"dark": {Tokens: map[string]string{"brand": "#654321"}},
				},
			},
		},
	}

	cfg, err := render.ResolveTheme(selector, "", "dark", render.DefaultThemePartials())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.CSSVars["--radius"] != "8px" {
		t.Fatalf("tokens not merged: %v", cfg.Tokens)
	}
	if cfg.Partials["onboard.page"] != "acme/page" || cfg.Partials["onboard.field"] != "field" {
		t.Fatalf("partials not merged with fallbacks: %v", cfg.Partials)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/acme/theme.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
}

func TestResolveTheme_NilSelector(t *testing.T) {
	cfg, err := render.ResolveTheme(nil, "acme", "", nil)
	if err != nil || cfg != nil {
		t.Fatalf("nil selector should yield nil config, got %v %v", cfg, err)
	}
	if _, err := render.ResolveTheme(&render.ManifestSelector{}, "missing", "", nil); err == nil {
		t.Fatalf("expected unknown theme error")
	}
}
