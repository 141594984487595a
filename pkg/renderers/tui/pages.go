package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/validation"
)

// ErrNoPhoneVerifier is returned by the phone pages when the host did not
// provide a verifier.
var ErrNoPhoneVerifier = errors.New("tui: phone verifier not configured")

const (
	messageCodeRejected = "That code did not match, try again"
	messageCodeFailed   = "We could not verify the code"
	messageSendFailed   = "We could not send a code to that number"
)

func (r *Renderer) formPage(ctx context.Context, view render.PageView) (render.Action, error) {
	if err := r.header(ctx, view); err != nil {
		return render.ActionStay, err
	}
	if err := view.RenderFields(ctx); err != nil {
		return render.ActionStay, err
	}
	return r.footer(ctx, view)
}

func (r *Renderer) conditionalPage(ctx context.Context, view render.PageView) (render.Action, error) {
	if err := r.header(ctx, view); err != nil {
		return render.ActionStay, err
	}
	if err := view.RenderFields(ctx); err != nil {
		return render.ActionStay, err
	}

	options := []string{model.ConditionalAffirm, model.ConditionalDecline}
	if !view.IsFirst() {
		options = append(options, backOption)
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: view.Title, Options: options})
	if err != nil {
		return render.ActionStay, err
	}
	if idx < 0 || idx >= len(options) {
		return render.ActionStay, fmt.Errorf("tui: selection %d out of range", idx)
	}
	if options[idx] == backOption {
		return render.ActionBack, nil
	}
	if !view.CanContinue() {
		return render.ActionStay, r.errorf(ctx, "%s", messageIncomplete)
	}
	if options[idx] == model.ConditionalAffirm {
		return render.ActionAffirm, nil
	}
	return render.ActionDecline, nil
}

func (r *Renderer) phoneEntryPage(ctx context.Context, view render.PageView) (render.Action, error) {
	action, err := r.formPage(ctx, view)
	if err != nil || action != render.ActionNext {
		return action, err
	}
	if view.Services.Phone == nil {
		return render.ActionStay, ErrNoPhoneVerifier
	}
	phone, _ := lookupText(view, model.PhoneNumberFieldID)
	if err := view.Services.Phone.SendCode(ctx, phone); err != nil {
		report(view, fmt.Errorf("tui: send code: %w", err))
		return render.ActionStay, r.errorf(ctx, "%s", messageSendFailed)
	}
	return render.ActionNext, nil
}

func (r *Renderer) phoneVerificationPage(ctx context.Context, view render.PageView) (render.Action, error) {
	action, err := r.formPage(ctx, view)
	if err != nil || action != render.ActionNext {
		return action, err
	}
	if view.Services.Phone == nil {
		return render.ActionStay, ErrNoPhoneVerifier
	}
	phone, _ := lookupText(view, model.PhoneNumberFieldID)
	code, _ := lookupText(view, model.VerificationFieldID)
	ok, err := view.Services.Phone.VerifyCode(ctx, phone, code)
	if err != nil {
		report(view, fmt.Errorf("tui: verify code: %w", err))
		return render.ActionStay, r.errorf(ctx, "%s", messageCodeFailed)
	}
	if !ok {
		return render.ActionStay, r.errorf(ctx, "%s", messageCodeRejected)
	}
	return render.ActionNext, nil
}

func skipPage(context.Context, render.PageView) (render.Action, error) {
	return render.ActionNext, nil
}

func (r *Renderer) header(ctx context.Context, view render.PageView) error {
	if !view.Page.Page.HeaderVisible() {
		return nil
	}
	if view.Title != "" {
		if err := r.driver.Info(ctx, r.theme.TitlePrefix+view.Title); err != nil {
			return err
		}
	}
	if err := r.info(ctx, view.Subtitle); err != nil {
		return err
	}
	if r.progress && view.Total > 0 {
		return r.info(ctx, fmt.Sprintf("Step %d of %d", view.Index+1, view.Total))
	}
	return nil
}

// footer asks for the primary action. Pages that hide their footer advance
// as soon as the fields are filled in.
func (r *Renderer) footer(ctx context.Context, view render.PageView) (render.Action, error) {
	if !view.Page.Page.FooterVisible() {
		if !view.CanContinue() {
			return render.ActionStay, r.errorf(ctx, "%s", messageIncomplete)
		}
		return render.ActionNext, nil
	}

	options := []string{view.PrimaryButton}
	if !view.IsFirst() {
		options = append(options, backOption)
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: " ", Options: options})
	if err != nil {
		return render.ActionStay, err
	}
	if idx < 0 || idx >= len(options) {
		return render.ActionStay, fmt.Errorf("tui: selection %d out of range", idx)
	}
	if idx == 1 {
		return render.ActionBack, nil
	}
	if !view.CanContinue() {
		return render.ActionStay, r.errorf(ctx, "%s", messageIncomplete)
	}
	return render.ActionNext, nil
}

func lookupText(view render.PageView, fieldID string) (string, bool) {
	if view.Lookup == nil {
		return "", false
	}
	v, ok := view.Lookup(fieldID)
	return validation.Text(v), ok
}

func report(view render.PageView, err error) {
	if view.Report != nil {
		view.Report(err)
	}
}
