package html

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-onboard/pkg/field"
	"github.com/goliatone/go-onboard/pkg/flow"
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/page"
	"github.com/goliatone/go-onboard/pkg/render"
)

func newRenderer(t *testing.T, options ...Option) *Renderer {
	t.Helper()
	r, err := New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func buildView(r *Renderer, p model.Page, index, total int) render.PageView {
	agg := page.NewAggregator(nil)
	agg.SetActive(true)
	inst := flow.Instance{Key: "p" + strconv.Itoa(index), ID: model.PageID(p, index), Page: p}
	services := render.Services{Now: func() time.Time {
		return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	}}.Normalize()

	var fields []render.FieldView
	for i, spec := range p.EffectiveFields() {
		state := field.New(spec, i, field.WithErrorListener(agg.Report))
		state.Mount()
		label := spec.Label
		if label == "" {
			label = model.DefaultLabel(spec.ID)
		}
		fields = append(fields, render.FieldView{Page: inst, Index: i, State: state, Label: label, Services: services})
	}
	return render.PageView{
		Page:          inst,
		Index:         index,
		Total:         total,
		Title:         p.Title,
		Subtitle:      p.Subtitle,
		PrimaryButton: p.PrimaryButton(index == total-1),
		Fields:        fields,
		Aggregator:    agg,
		Registry:      r.Fields(),
		Services:      services,
	}
}

func mustRender(t *testing.T, r *Renderer, view render.PageView) string {
	t.Helper()
	out, err := r.Render(context.Background(), view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

func assertContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, f := range fragments {
		if !strings.Contains(out, f) {
			t.Fatalf("expected %q in output:\n%s", f, out)
		}
	}
}

func TestRenderFormEntryPage(t *testing.T) {
	r := newRenderer(t)
	p := model.Page{
		ID:    "profile",
		Type:  model.PageTypeFormEntry,
		Title: "About <em>you</em><script>alert(1)</script>",
		Fields: []model.Field{
			{ID: "firstName", Type: model.FieldTypeText, Required: true},
			{ID: "email", Type: model.FieldTypeEmail, Prefill: "ada@example.com"},
		},
	}
	out := mustRender(t, r, buildView(r, p, 1, 3))

	assertContains(t, out,
		`data-page="profile"`,
		`<h1>About <em>you</em></h1>`,
		`<label for="firstName">First Name</label>`,
		`type="email" name="email" value="ada@example.com"`,
		`value="back">Back</button>`,
		`value="next" aria-disabled="true">Continue</button>`,
		`2 / 3`,
	)
	if strings.Contains(out, "<script>") {
		t.Fatalf("title was not sanitised:\n%s", out)
	}
}

func TestRenderConditionalPage(t *testing.T) {
	r := newRenderer(t)
	p := model.Page{ID: "pets", Type: model.PageTypeConditional, Title: "Do you have pets?"}
	out := mustRender(t, r, buildView(r, p, 0, 2))

	assertContains(t, out, `value="affirm">Yes</button>`, `value="decline">No</button>`)
	if strings.Contains(out, `value="back"`) {
		t.Fatalf("first page must not offer back:\n%s", out)
	}
}

func TestRenderChoicesAndGender(t *testing.T) {
	r := newRenderer(t)
	p := model.Page{
		ID:         "interests",
		Type:       model.PageTypeMultipleChoice,
		Title:      "Interests",
		Options:    []model.Option{{Value: "music", Label: "Music"}, {Value: "film"}},
		MinChoices: 1,
	}
	out := mustRender(t, r, buildView(r, p, 0, 2))
	assertContains(t, out, `type="checkbox" name="choices" value="music"`, `Select at least 1`, `> film</label>`)

	g := model.Page{ID: "g", Type: model.PageTypeFormEntry, Fields: []model.Field{{ID: "gender", Type: model.FieldTypeGender, Prefill: "Female"}}}
	out = mustRender(t, r, buildView(r, g, 0, 1))
	assertContains(t, out, `type="radio" name="gender" value="Female" checked`, `Get started`)
}

func TestRenderDateAndGrid(t *testing.T) {
	r := newRenderer(t)
	p := model.Page{ID: "more", Type: model.PageTypeFormEntry, Fields: []model.Field{
		{ID: "birthday", Type: model.FieldTypeDate},
		{ID: "photos", Type: model.FieldTypeImageGrid, Prefill: []string{"/images/a.jpg"}},
	}}
	out := mustRender(t, r, buildView(r, p, 0, 1))
	assertContains(t, out, `type="date"`, `max="2024-05-01"`, `<img src="/images/a.jpg" alt="">`)
	if got := strings.Count(out, "<li>"); got != 6 {
		t.Fatalf("grid slots = %d, want 6", got)
	}
}

func TestRenderDatePrefillAndPassword(t *testing.T) {
	r := newRenderer(t)
	p := model.Page{ID: "account", Type: model.PageTypeFormEntry, Fields: []model.Field{
		{ID: "birthday", Type: model.FieldTypeDate, Prefill: "1990-01-01"},
		{ID: "secret", Type: model.FieldTypePassword, Prefill: "hunter2"},
	}}
	view := buildView(r, p, 0, 1)
	out := mustRender(t, r, view)
	assertContains(t, out,
		`type="date" name="birthday" value="1990-01-01"`,
		`type="password" name="secret" value=""`,
	)

	if _, err := Submit(view, url.Values{"secret": {"s3cret-pass"}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	out = mustRender(t, r, view)
	if strings.Contains(out, "hunter2") || strings.Contains(out, "s3cret-pass") {
		t.Fatalf("password echoed back:\n%s", out)
	}
}

func TestSubmitFieldsWithoutID(t *testing.T) {
	r := newRenderer(t)
	p := model.Page{ID: "anon", Type: model.PageTypeFormEntry, Fields: []model.Field{
		{Type: model.FieldTypeText},
		{Type: model.FieldTypeText},
	}}
	view := buildView(r, p, 0, 1)
	out := mustRender(t, r, view)
	assertContains(t, out, `name="0"`, `name="1"`)

	if _, err := Submit(view, url.Values{"0": {"first"}, "1": {"second"}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := view.Fields[0].State.Value(); got != "first" {
		t.Fatalf("field 0 = %#v", got)
	}
	if got := view.Fields[1].State.Value(); got != "second" {
		t.Fatalf("field 1 = %#v", got)
	}
}

func TestCustomPageRendersNothing(t *testing.T) {
	r := newRenderer(t)
	view := buildView(r, model.Page{Type: model.PageTypeCustom}, 0, 2)
	action, err := r.Pages().Resolve(string(model.PageTypeCustom)).RenderPage(context.Background(), view)
	if err != nil || action != render.ActionNext {
		t.Fatalf("action = %s, err = %v", action, err)
	}
}

func TestPageRendererWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	r := newRenderer(t, WithOutput(&buf))
	view := buildView(r, model.Page{ID: "intro", Type: model.PageTypeFormEntry, Title: "Hi"}, 0, 1)

	action, err := r.Pages().Resolve(string(model.PageTypeFormEntry)).RenderPage(context.Background(), view)
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	if action != render.ActionStay {
		t.Fatalf("action = %s, want stay", action)
	}
	assertContains(t, buf.String(), `<h1>Hi</h1>`)
}

func TestHostFieldRendererEmits(t *testing.T) {
	r := newRenderer(t)
	r.Fields().Override("rating", render.FieldRendererFunc(func(ctx context.Context, view render.FieldView) error {
		return Emit(ctx, `<div class="stars" data-field="`+view.State.Key()+`"></div>`)
	}))
	p := model.Page{ID: "rate", Type: model.PageTypeFormEntry, Fields: []model.Field{{ID: "stars", Type: "rating"}}}
	out := mustRender(t, r, buildView(r, p, 0, 1))
	assertContains(t, out, `<div class="stars" data-field="stars"></div>`)

	if err := Emit(context.Background(), "x"); err != ErrNoPageInProgress {
		t.Fatalf("err = %v, want ErrNoPageInProgress", err)
	}
}

func TestThemeOverridesTemplatesAndStyle(t *testing.T) {
	files := fstest.MapFS{
		"brand-page.tpl": &fstest.MapFile{Data: []byte(`<main data-theme="brand">{{ page.title }}</main>`)},
	}
	r := newRenderer(t, WithEngineOptions(WithTemplatesFS(files)))
	view := buildView(r, model.Page{ID: "intro", Type: model.PageTypeFormEntry, Title: "Hello"}, 0, 1)
	view.Theme = &theme.RendererConfig{
		Partials: map[string]string{PartialPage: "brand-page"},
		CSSVars:  map[string]string{"--accent": "#f60"},
	}
	out := mustRender(t, r, view)
	assertContains(t, out, `<main data-theme="brand">Hello</main>`)

	view.Theme.Partials = nil
	out = mustRender(t, r, view)
	assertContains(t, out, `style="--accent: #f60"`)
}

func TestTemplateFuncs(t *testing.T) {
	translator := render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		return locale + ":" + key, nil
	})
	r := newRenderer(t, WithEngineOptions(
		WithTemplateFuncs(render.TemplateI18nFuncs(translator, render.TemplateI18nConfig{})),
		WithGlobalData(map[string]any{"locale": "es"}),
		WithGoTemplateOptions(),
	))
	out, err := r.Engine().RenderString(`{{ translate(locale, "hello") }}`, nil)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "es:hello" {
		t.Fatalf("out = %q", out)
	}
}

func TestSubmitAppliesValues(t *testing.T) {
	r := newRenderer(t)
	p := model.Page{ID: "profile", Type: model.PageTypeFormEntry, Fields: []model.Field{
		{ID: "email", Type: model.FieldTypeEmail, Required: true},
		{ID: "age", Type: model.FieldTypeNumber},
		{ID: "birthday", Type: model.FieldTypeDate},
		{ID: "bio", Type: model.FieldTypeTextArea},
	}}
	view := buildView(r, p, 0, 1)

	action, err := Submit(view, url.Values{
		"email":     {"nope"},
		"age":       {"36"},
		"birthday":  {"1990-12-10"},
		ActionParam: {"next"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if action != render.ActionNext {
		t.Fatalf("action = %s", action)
	}
	email := view.Fields[0].State
	if !email.HasError() || email.Message() != "Invalid e-mail address" {
		t.Fatalf("email state: err=%v msg=%q", email.HasError(), email.Message())
	}
	if got := view.Fields[1].State.Value(); got != 36.0 {
		t.Fatalf("age = %#v", got)
	}
	if got := view.Fields[2].State.Value(); got != "1990-12-10" {
		t.Fatalf("birthday = %#v", got)
	}
	if view.Fields[3].State.Touched() {
		t.Fatal("absent fields must stay untouched")
	}
	if view.CanContinue() {
		t.Fatal("invalid email should block the page")
	}

	out := mustRender(t, r, view)
	assertContains(t, out, `has-error`, `Invalid e-mail address`)
}

func TestSubmitBadDate(t *testing.T) {
	r := newRenderer(t)
	p := model.Page{ID: "d", Type: model.PageTypeFormEntry, Fields: []model.Field{{ID: "birthday", Type: model.FieldTypeDate}}}
	if _, err := Submit(buildView(r, p, 0, 1), url.Values{"birthday": {"12/10/1990"}}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseAction(t *testing.T) {
	cases := map[string]render.Action{
		"next":    render.ActionNext,
		"back":    render.ActionBack,
		"affirm":  render.ActionAffirm,
		"decline": render.ActionDecline,
		"":        render.ActionStay,
		"other":   render.ActionStay,
	}
	for in, want := range cases {
		if got := ParseAction(in); got != want {
			t.Fatalf("ParseAction(%q) = %s, want %s", in, got, want)
		}
	}
}
