package html

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-onboard/pkg/field"
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/validation"
)

//go:embed templates/*.tpl
var builtinTemplates embed.FS

// Partial keys looked up in the theme's partial map.
const (
	PartialPage        = "onboard.page"
	PartialField       = "onboard.field"
	PartialConditional = "onboard.conditional"
	PartialChoices     = "onboard.choices"
)

// TemplatesFS exposes the built-in templates so hosts can copy or extend
// them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(builtinTemplates, "templates")
	if err != nil {
		return builtinTemplates
	}
	return sub
}

// ErrNoPageInProgress is returned by Emit outside a page render.
var ErrNoPageInProgress = errors.New("html: no page render in progress")

// Option configures the HTML renderer.
type Option func(*Renderer)

// WithOutput sets where page renderers write their HTML. Defaults to
// io.Discard; Render returns the markup regardless.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.out = w
		}
	}
}

// WithPolicy replaces the sanitising policy applied to titles and
// subtitles.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if policy != nil {
			r.policy = policy
		}
	}
}

// WithEngineOptions configures the template engine.
func WithEngineOptions(options ...EngineOption) Option {
	return func(r *Renderer) {
		r.engineOptions = append(r.engineOptions, options...)
	}
}

// Renderer is the HTML backend.
type Renderer struct {
	engine        *Engine
	engineOptions []EngineOption
	policy        *bluemonday.Policy
	out           io.Writer
	mu            sync.Mutex

	partials *render.Registry[string]
	fields   *render.Registry[render.FieldRenderer]
	pages    *render.Registry[render.PageRenderer]
}

// New constructs the HTML renderer.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		policy: bluemonday.UGCPolicy(),
		out:    io.Discard,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	engine, err := NewEngine(r.engineOptions...)
	if err != nil {
		return nil, err
	}
	r.engine = engine

	r.partials = render.NewRegistry[string]("partial", PartialPage)
	r.partials.MustRegister(string(model.PageTypeConditional), PartialConditional)
	r.partials.MustRegister(string(model.PageTypeMultipleChoice), PartialChoices)

	r.fields = render.NewRegistry[render.FieldRenderer]("field", render.FieldRendererFunc(r.renderField))
	r.pages = render.NewRegistry[render.PageRenderer]("page", render.PageRendererFunc(r.renderPage))
	r.pages.MustRegister(string(model.PageTypeCustom), render.PageRendererFunc(skipPage))
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// Fields returns the field registry. Every built-in tag is served by the
// fallback, which picks the widget from the field type.
func (r *Renderer) Fields() *render.Registry[render.FieldRenderer] {
	return r.fields
}

// Pages returns the page registry.
func (r *Renderer) Pages() *render.Registry[render.PageRenderer] {
	return r.pages
}

// Partials maps page types to theme partial keys.
func (r *Renderer) Partials() *render.Registry[string] {
	return r.partials
}

// Engine exposes the template engine.
func (r *Renderer) Engine() *Engine {
	return r.engine
}

// Render returns the markup of a page. Custom pages render nothing.
func (r *Renderer) Render(ctx context.Context, view render.PageView) (string, error) {
	if view.Page.Page.Type == model.PageTypeCustom {
		return "", nil
	}
	collector := &fragments{}
	ctx = context.WithValue(ctx, fragmentsKey{}, collector)
	if err := view.RenderFields(ctx); err != nil {
		return "", err
	}

	p := view.Page.Page
	data := map[string]any{
		"page": map[string]any{
			"id":           view.Page.ID,
			"key":          view.Page.Key,
			"type":         string(p.Type),
			"title":        r.policy.Sanitize(view.Title),
			"subtitle":     r.policy.Sanitize(view.Subtitle),
			"step":         fmt.Sprintf("%d / %d", view.Index+1, view.Total),
			"first":        view.IsFirst(),
			"last":         view.IsLast(),
			"can_continue": view.CanContinue(),
			"primary":      view.PrimaryButton,
			"affirm":       model.ConditionalAffirm,
			"decline":      model.ConditionalDecline,
			"show_header":  p.HeaderVisible(),
			"show_footer":  p.FooterVisible(),
			"hint":         choiceHint(p),
		},
		"fields": collector.items,
		"style":  style(view),
	}
	name := partial(view, r.partials.Resolve(string(p.Type)))
	out, err := r.engine.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("html: page %q: %w", view.Page.ID, err)
	}
	return out, nil
}

func (r *Renderer) renderPage(ctx context.Context, view render.PageView) (render.Action, error) {
	out, err := r.Render(ctx, view)
	if err != nil {
		return render.ActionStay, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := io.WriteString(r.out, out); err != nil {
		return render.ActionStay, fmt.Errorf("html: write page: %w", err)
	}
	return render.ActionStay, nil
}

func skipPage(context.Context, render.PageView) (render.Action, error) {
	return render.ActionNext, nil
}

func (r *Renderer) renderField(ctx context.Context, view render.FieldView) error {
	data := map[string]any{"field": fieldData(view)}
	out, err := r.engine.RenderTemplate(partialFor(view.Theme, PartialField), data)
	if err != nil {
		return err
	}
	return Emit(ctx, out)
}

type fragmentsKey struct{}

type fragments struct {
	items []string
}

// Emit appends an HTML fragment to the page being rendered. Host field
// renderers registered on this backend call it to contribute markup.
func Emit(ctx context.Context, fragment string) error {
	collector, ok := ctx.Value(fragmentsKey{}).(*fragments)
	if !ok {
		return ErrNoPageInProgress
	}
	collector.items = append(collector.items, fragment)
	return nil
}

func fieldData(view render.FieldView) map[string]any {
	state := view.State
	spec := state.Spec()
	data := map[string]any{
		"key":         state.Key(),
		"id":          spec.ID,
		"type":        string(spec.Type),
		"label":       view.Label,
		"placeholder": view.Placeholder,
		"required":    spec.Required,
		"has_error":   state.HasError() && state.Touched(),
		"message":     state.Message(),
		"busy":        state.Busy(),
		"control":     "input",
		"input_type":  "text",
	}

	switch spec.Type {
	case model.FieldTypeTextArea:
		data["control"] = "textarea"
		data["value"] = state.String()
	case model.FieldTypeGender, model.FieldTypeMultiple:
		opts := spec.Options
		if len(opts) == 0 && spec.Type == model.FieldTypeGender {
			opts = model.DefaultGenderOptions()
		}
		selected := selectedSet(state.Value())
		items := make([]map[string]any, len(opts))
		for i, opt := range opts {
			_, on := selected[opt.Value]
			items[i] = map[string]any{"value": opt.Value, "label": opt.Text(), "selected": on}
		}
		data["control"] = "options"
		data["options"] = items
		data["input_type"] = "radio"
		if spec.Type == model.FieldTypeMultiple {
			data["input_type"] = "checkbox"
		}
	case model.FieldTypeAvatar:
		data["control"] = "avatar"
		data["url"] = view.Services.Media.PublicURL(state.String())
	case model.FieldTypeImageGrid:
		slots, _ := state.Value().([]string)
		urls := make([]string, len(slots))
		for i, s := range slots {
			urls[i] = view.Services.Media.PublicURL(s)
		}
		data["control"] = "grid"
		data["slots"] = urls
	case model.FieldTypeDate:
		data["input_type"] = "date"
		if t, ok := field.DateValue(state.Value()); ok {
			data["value"] = field.FormatDate(t)
		}
		if view.Services.Now != nil {
			data["max"] = field.FormatDate(view.Services.Now())
		}
	case model.FieldTypePassword:
		data["input_type"] = "password"
	default:
		data["input_type"] = inputType(spec.Type)
		data["value"] = state.String()
	}
	return data
}

func inputType(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypePassword:
		return "password"
	case model.FieldTypeNumber:
		return "number"
	case model.FieldTypePhone:
		return "tel"
	}
	return "text"
}

func selectedSet(value any) map[string]struct{} {
	out := make(map[string]struct{})
	switch v := value.(type) {
	case []string:
		for _, s := range v {
			out[s] = struct{}{}
		}
	case []any:
		for _, s := range v {
			out[validation.Text(s)] = struct{}{}
		}
	case string:
		if v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

func choiceHint(p model.Page) string {
	if p.Type != model.PageTypeMultipleChoice {
		return ""
	}
	switch {
	case p.MinChoices > 0 && p.MaxChoices > 0:
		return fmt.Sprintf("Select %d to %d", p.MinChoices, p.MaxChoices)
	case p.MinChoices > 0:
		return fmt.Sprintf("Select at least %d", p.MinChoices)
	case p.MaxChoices > 0:
		return fmt.Sprintf("Select up to %d", p.MaxChoices)
	}
	return ""
}

func partial(view render.PageView, key string) string {
	return partialFor(view.Theme, key)
}

// partialFor resolves the template name for a partial key through the
// theme, falling back to the built-in templates.
func partialFor(cfg *theme.RendererConfig, key string) string {
	if cfg != nil {
		if name := strings.TrimSpace(cfg.Partials[key]); name != "" {
			return name
		}
	}
	if name, ok := render.DefaultThemePartials()[key]; ok {
		return name
	}
	return "page"
}

func style(view render.PageView) string {
	if view.Theme == nil || len(view.Theme.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(view.Theme.CSSVars))
	for k := range view.Theme.CSSVars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+view.Theme.CSSVars[k])
	}
	return strings.Join(parts, "; ")
}
