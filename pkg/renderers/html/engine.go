package html

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplate "github.com/goliatone/go-template"
)

// EngineOption configures the template engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	templates  []fs.FS
	extension  string
	funcs      map[string]any
	globalData map[string]any
}

// WithTemplatesFS adds a template source consulted before the built-in
// templates, so hosts can override any of them by name.
func WithTemplatesFS(files fs.FS) EngineOption {
	return func(cfg *engineConfig) {
		if files != nil {
			cfg.templates = append(cfg.templates, files)
		}
	}
}

// WithExtension overrides the template file extension (".tpl").
func WithExtension(ext string) EngineOption {
	return func(cfg *engineConfig) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithTemplateFuncs exposes helpers to every template, for example
// render.TemplateI18nFuncs.
func WithTemplateFuncs(funcs map[string]any) EngineOption {
	return func(cfg *engineConfig) {
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.funcs[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds values visible to every template.
func WithGlobalData(data map[string]any) EngineOption {
	return func(cfg *engineConfig) {
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithGoTemplateOptions accepts go-template engine options so hosts sharing
// configuration with go-template based services can pass them unchanged.
// The pongo2 set used here has no equivalent knobs; they are ignored.
func WithGoTemplateOptions(_ ...gotemplate.Option) EngineOption {
	return func(*engineConfig) {}
}

// Engine renders named templates from a pongo2 template set.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
}

// NewEngine builds an engine over the built-in templates plus any host
// sources.
func NewEngine(options ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{extension: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	builtin, err := fs.Sub(builtinTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("html: open built-in templates: %w", err)
	}
	loaders := make([]pongo2.TemplateLoader, 0, len(cfg.templates)+1)
	for _, files := range cfg.templates {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}
	loaders = append(loaders, pongo2.NewFSLoader(builtin))

	e := &Engine{
		set:       pongo2.NewSet("onboard", loaders...),
		templates: make(map[string]*pongo2.Template),
		ext:       cfg.extension,
	}
	if err := e.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("html: apply global data: %w", err)
	}
	for name, fn := range cfg.funcs {
		if err := e.registerFunc(name, fn); err != nil {
			return nil, fmt.Errorf("html: register template func %q: %w", name, err)
		}
	}
	return e, nil
}

// RenderTemplate executes the named template.
func (e *Engine) RenderTemplate(name string, data any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("html: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, data, path)
}

// RenderString executes an inline template.
func (e *Engine) RenderString(content string, data any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("html: engine is nil")
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("html: parse template string: %w", err)
	}
	return e.execute(tmpl, data, "inline")
}

// GlobalContext merges data into the values visible to every template.
func (e *Engine) GlobalContext(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	ctx, err := toContext(data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(ctx)
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, name string) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("html: convert data: %w", err)
	}
	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("html: execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

func (e *Engine) registerFunc(name string, fn any) error {
	if name == "" || fn == nil {
		return nil
	}
	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(name) {
			return nil
		}
		return pongo2.RegisterFilter(name, filter)
	}
	if reflect.ValueOf(fn).Kind() != reflect.Func {
		return fmt.Errorf("not a function: %T", fn)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals[name] = fn
	return nil
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

// toContext turns view data into plain maps and slices. Functions pass
// through untouched; everything else is normalised through JSON so
// templates see the same shape a client would.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return toContext(map[string]any(v))
	case map[string]any:
		out := make(pongo2.Context, len(v))
		for key, value := range v {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if value != nil && reflect.ValueOf(value).Kind() == reflect.Func {
				out[key] = value
				continue
			}
			converted, err := normalize(value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out[key] = converted
		}
		return out, nil
	default:
		converted, err := normalize(v)
		if err != nil {
			return nil, err
		}
		m, ok := converted.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("template data must be an object, got %T", data)
		}
		return pongo2.Context(m), nil
	}
}

func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
