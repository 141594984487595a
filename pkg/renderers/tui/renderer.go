package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
)

const (
	backOption        = "Back"
	messageIncomplete = "Please complete this page to continue"
)

// Renderer drives a flow in the terminal. It owns the built-in field and
// page registries; hosts merge their own renderers on top.
type Renderer struct {
	driver   PromptDriver
	theme    Theme
	progress bool

	fields *render.Registry[render.FieldRenderer]
	pages  *render.Registry[render.PageRenderer]
}

// New constructs a TUI renderer with the survey driver and built-in
// renderers for every stock field and page type.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		theme:    DefaultTheme(),
		progress: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(os.Stdout)
	}

	r.fields = render.NewRegistry[render.FieldRenderer]("field", render.FieldRendererFunc(r.textField))
	r.pages = render.NewRegistry[render.PageRenderer]("page", render.PageRendererFunc(r.formPage))
	if err := r.registerBuiltins(); err != nil {
		return nil, err
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Fields returns the built-in field registry.
func (r *Renderer) Fields() *render.Registry[render.FieldRenderer] {
	return r.fields
}

// Pages returns the built-in page registry.
func (r *Renderer) Pages() *render.Registry[render.PageRenderer] {
	return r.pages
}

// Driver returns the prompt driver in use.
func (r *Renderer) Driver() PromptDriver {
	return r.driver
}

func (r *Renderer) registerBuiltins() error {
	text := render.FieldRendererFunc(r.textField)
	fields := map[model.FieldType]render.FieldRenderer{
		model.FieldTypeText:      text,
		model.FieldTypeTextArea:  text,
		model.FieldTypeNumber:    text,
		model.FieldTypeEmail:     text,
		model.FieldTypePassword:  text,
		model.FieldTypeHandle:    text,
		model.FieldTypePhone:     text,
		model.FieldTypeCode:      text,
		model.FieldTypeDate:      render.FieldRendererFunc(r.dateField),
		model.FieldTypeGender:    render.FieldRendererFunc(r.genderField),
		model.FieldTypeMultiple:  render.FieldRendererFunc(r.multipleField),
		model.FieldTypeAvatar:    render.FieldRendererFunc(r.avatarField),
		model.FieldTypeImageGrid: render.FieldRendererFunc(r.imageGridField),
	}
	for tag, fr := range fields {
		if err := r.fields.Register(string(tag), fr); err != nil {
			return err
		}
	}

	form := render.PageRendererFunc(r.formPage)
	pages := map[model.PageType]render.PageRenderer{
		model.PageTypeFormEntry:         form,
		model.PageTypeMultipleChoice:    form,
		model.PageTypeTurnOnLocation:    form,
		model.PageTypeConditional:       render.PageRendererFunc(r.conditionalPage),
		model.PageTypePhoneEntry:        render.PageRendererFunc(r.phoneEntryPage),
		model.PageTypePhoneVerification: render.PageRendererFunc(r.phoneVerificationPage),
		model.PageTypeCustom:            render.PageRendererFunc(skipPage),
	}
	for tag, pr := range pages {
		if err := r.pages.Register(string(tag), pr); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}
