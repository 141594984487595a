package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-onboard/pkg/field"
	"github.com/goliatone/go-onboard/pkg/media"
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
)

const (
	gridAdd    = "Add photo"
	gridRemove = "Remove photo"
	gridDone   = "Done"
)

func (r *Renderer) textField(ctx context.Context, view render.FieldView) error {
	state := view.State
	spec := state.Spec()
	for {
		cfg := InputConfig{
			Message: view.Label,
			Default: state.String(),
			Help:    view.Placeholder,
		}
		if spec.Type == model.FieldTypeNumber {
			cfg.Validator = numeric
		}

		var (
			answer string
			err    error
		)
		switch spec.Type {
		case model.FieldTypePassword:
			answer, err = r.driver.Password(ctx, cfg)
		case model.FieldTypeTextArea:
			answer, err = r.driver.TextArea(ctx, TextAreaConfig{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help})
		default:
			answer, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}

		state.Set(textValue(spec.Type, answer))
		if done, err := r.settle(ctx, state); done || err != nil {
			return err
		}
	}
}

func (r *Renderer) dateField(ctx context.Context, view render.FieldView) error {
	state := view.State
	now := view.Services.Now()
	def := field.FormatDate(now)
	if t, ok := field.DateValue(state.Value()); ok {
		def = field.FormatDate(t)
	}
	for {
		answer, err := r.driver.Input(ctx, InputConfig{
			Message: view.Label,
			Default: def,
			Help:    "YYYY-MM-DD",
			Validator: func(s string) error {
				t, err := time.Parse(field.DateLayout, strings.TrimSpace(s))
				if err != nil {
					return fmt.Errorf("use the %s format", field.DateLayout)
				}
				if t.After(now) {
					return errors.New("date cannot be in the future")
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		t, err := time.Parse(field.DateLayout, strings.TrimSpace(answer))
		if err != nil {
			return fmt.Errorf("tui: parse date %q: %w", answer, err)
		}
		state.Set(field.FormatDate(t))
		if done, err := r.settle(ctx, state); done || err != nil {
			return err
		}
	}
}

func (r *Renderer) genderField(ctx context.Context, view render.FieldView) error {
	state := view.State
	opts := state.Spec().Options
	if len(opts) == 0 {
		opts = model.DefaultGenderOptions()
	}
	labels := optionLabels(opts)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      view.Label,
		Options:      labels,
		DefaultIndex: optionIndex(opts, state.String()),
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(opts) {
		return fmt.Errorf("tui: selection %d out of range", idx)
	}
	state.Set(opts[idx].Value)
	_, err = r.settle(ctx, state)
	return err
}

func (r *Renderer) multipleField(ctx context.Context, view render.FieldView) error {
	state := view.State
	opts := state.Spec().Options
	if len(opts) == 0 {
		return r.info(ctx, view.Label)
	}
	selected := selectedValues(state.Value())
	for {
		var defaults []int
		for i, opt := range opts {
			for _, v := range selected {
				if opt.Value == v {
					defaults = append(defaults, i)
				}
			}
		}
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  view.Label,
			Options:  optionLabels(opts),
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		selected = selected[:0]
		for _, i := range indices {
			if i >= 0 && i < len(opts) {
				selected = append(selected, opts[i].Value)
			}
		}
		state.Set(append([]string(nil), selected...))
		if done, err := r.settle(ctx, state); done || err != nil {
			return err
		}
	}
}

func (r *Renderer) avatarField(ctx context.Context, view render.FieldView) error {
	state := view.State
	spec := state.Spec()
	msg := fmt.Sprintf("%s: choose a photo?", view.Label)
	if current := state.String(); current != "" {
		msg = fmt.Sprintf("%s (%s): replace photo?", view.Label, view.Services.Media.PublicURL(current))
	}
	ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: msg, Default: state.Value() == nil})
	if err != nil || !ok {
		return err
	}

	opts := media.DefaultAvatarOptions()
	opts.FaceDetectionRequired = spec.BoolProp("faceDetectionRequired", opts.FaceDetectionRequired)
	r.runPipeline(ctx, view, func(ctx context.Context) (any, error) {
		return view.Services.Media.Avatar(ctx, opts)
	})
	return nil
}

func (r *Renderer) imageGridField(ctx context.Context, view render.FieldView) error {
	state := view.State
	spec := state.Spec()
	opts := media.DefaultGridOptions()
	opts.Aspect = spec.FloatProp("aspectRatio", opts.Aspect)

	for {
		slots := gridSlots(state)
		filled := 0
		for _, s := range slots {
			if s != "" {
				filled++
			}
		}
		if err := r.info(ctx, fmt.Sprintf("%s: %d of %d photos", view.Label, filled, len(slots))); err != nil {
			return err
		}

		var actions []string
		if filled < len(slots) {
			actions = append(actions, gridAdd)
		}
		if filled > 0 {
			actions = append(actions, gridRemove)
		}
		actions = append(actions, gridDone)

		idx, err := r.driver.Select(ctx, SelectConfig{Message: view.Label, Options: actions})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			return fmt.Errorf("tui: selection %d out of range", idx)
		}

		switch actions[idx] {
		case gridAdd:
			slot := indexOf(slots, "")
			r.runPipeline(ctx, view, func(ctx context.Context) (any, error) {
				path, err := view.Services.Media.GridImage(ctx, opts)
				if err != nil {
					return nil, err
				}
				next := append([]string(nil), slots...)
				next[slot] = path
				return next, nil
			})
		case gridRemove:
			if err := r.removeGridImage(ctx, view, slots); err != nil {
				return err
			}
		default:
			_, err := r.settle(ctx, state)
			return err
		}
	}
}

func (r *Renderer) removeGridImage(ctx context.Context, view render.FieldView, slots []string) error {
	var labels []string
	var positions []int
	for i, s := range slots {
		if s == "" {
			continue
		}
		labels = append(labels, fmt.Sprintf("Photo %d", i+1))
		positions = append(positions, i)
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: "Remove which photo?", Options: labels})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(positions) {
		return fmt.Errorf("tui: selection %d out of range", idx)
	}
	slot := positions[idx]
	r.runPipeline(ctx, view, func(ctx context.Context) (any, error) {
		if err := view.Services.Media.Remove(ctx, slots[slot]); err != nil {
			return nil, err
		}
		next := append([]string(nil), slots...)
		next[slot] = ""
		return next, nil
	})
	return nil
}

// runPipeline wraps an asynchronous media step in the field's busy state.
// Failures are reported and printed but never abort the page.
func (r *Renderer) runPipeline(ctx context.Context, view render.FieldView, run func(context.Context) (any, error)) {
	state := view.State
	if err := state.BeginPipeline(); err != nil {
		_ = r.errorf(ctx, "%s", err)
		return
	}
	value, err := run(ctx)
	state.EndPipeline(value, err)
	if err == nil {
		return
	}
	if view.Report != nil {
		view.Report(err)
	}
	if errors.Is(err, media.ErrCanceled) || errors.Is(err, media.ErrCropCanceled) {
		return
	}
	_ = r.errorf(ctx, "%s", state.Message())
}

// settle blurs the field and prints any visible message. It reports true
// when the prompt should not be repeated.
func (r *Renderer) settle(ctx context.Context, state *field.State) (bool, error) {
	res := state.Blur()
	msg := res.Visible()
	if msg == "" {
		return true, nil
	}
	return false, r.errorf(ctx, "%s", msg)
}

func textValue(t model.FieldType, answer string) any {
	if t == model.FieldTypeNumber {
		if n, err := strconv.ParseFloat(strings.TrimSpace(answer), 64); err == nil {
			return n
		}
	}
	return answer
}

func numeric(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

func optionLabels(opts []model.Option) []string {
	labels := make([]string, len(opts))
	for i, opt := range opts {
		labels[i] = opt.Text()
	}
	return labels
}

func optionIndex(opts []model.Option, value string) int {
	for i, opt := range opts {
		if opt.Value == value {
			return i
		}
	}
	return 0
}

func selectedValues(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}

func gridSlots(state *field.State) []string {
	if slots, ok := state.Value().([]string); ok {
		return slots
	}
	return make([]string, field.GridSlots(state.Spec()))
}
