package render

import (
	"context"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-onboard/pkg/field"
	"github.com/goliatone/go-onboard/pkg/flow"
	"github.com/goliatone/go-onboard/pkg/page"
)

// Action is the user's response to a rendered page.
type Action int

const (
	// ActionNext requests forward navigation through the primary button.
	ActionNext Action = iota
	// ActionBack requests backward navigation.
	ActionBack
	// ActionAffirm answers "yes" on a conditional page.
	ActionAffirm
	// ActionDecline answers "no" on a conditional page.
	ActionDecline
	// ActionStay re-renders the same page, for example after a failed
	// upload.
	ActionStay
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionBack:
		return "back"
	case ActionAffirm:
		return "affirm"
	case ActionDecline:
		return "decline"
	case ActionStay:
		return "stay"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// FieldRenderer renders a single field and feeds user input into its state.
type FieldRenderer interface {
	RenderField(ctx context.Context, view FieldView) error
}

// FieldRendererFunc adapts a function into a FieldRenderer.
type FieldRendererFunc func(ctx context.Context, view FieldView) error

// RenderField calls the underlying function.
func (fn FieldRendererFunc) RenderField(ctx context.Context, view FieldView) error {
	return fn(ctx, view)
}

// PageRenderer renders a page and reports the navigation action the user
// chose.
type PageRenderer interface {
	RenderPage(ctx context.Context, view PageView) (Action, error)
}

// PageRendererFunc adapts a function into a PageRenderer.
type PageRendererFunc func(ctx context.Context, view PageView) (Action, error)

// RenderPage calls the underlying function.
func (fn PageRendererFunc) RenderPage(ctx context.Context, view PageView) (Action, error) {
	return fn(ctx, view)
}

// FieldView is everything a field renderer needs.
type FieldView struct {
	Page        flow.Instance
	Index       int
	State       *field.State
	Label       string
	Placeholder string
	Services    Services
	Theme       *theme.RendererConfig
	// Report forwards asynchronous pipeline failures to the flow observer.
	Report func(err error)
}

// PageView is everything a page renderer needs.
type PageView struct {
	Page          flow.Instance
	Index         int
	Total         int
	Title         string
	Subtitle      string
	PrimaryButton string
	Fields        []FieldView
	Aggregator    *page.Aggregator
	Registry      *Registry[FieldRenderer]
	Services      Services
	Theme         *theme.RendererConfig
	// Lookup finds the latest value recorded for a field ID on any page.
	Lookup func(fieldID string) (any, bool)
	// Report forwards page level service failures to the flow observer.
	Report func(err error)
}

// IsFirst reports whether the page is the first of the flow.
func (v PageView) IsFirst() bool {
	return v.Index == 0
}

// IsLast reports whether the page is the last of the flow.
func (v PageView) IsLast() bool {
	return v.Index == v.Total-1
}

// CanContinue reports the page's continue signal.
func (v PageView) CanContinue() bool {
	return v.Aggregator.CanContinue()
}

// RenderFields renders every field through the field registry, in order.
func (v PageView) RenderFields(ctx context.Context) error {
	for _, fv := range v.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		renderer := v.Registry.Resolve(string(fv.State.Spec().Type))
		if err := renderer.RenderField(ctx, fv); err != nil {
			return fmt.Errorf("render: field %q: %w", fv.State.Key(), err)
		}
	}
	return nil
}
