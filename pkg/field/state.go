// Package field tracks the runtime state of a single rendered field: its
// current value, validation flag and message, and the busy flag guarding
// asynchronous pipelines such as image uploads.
package field

import (
	"errors"

	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/validation"
)

// MessageFailure is shown when an asynchronous pipeline fails.
const MessageFailure = "Sorry, something went wrong"

// ErrBusy is returned when a pipeline is started while another one is still
// running for the same field.
var ErrBusy = errors.New("field: pipeline already running")

// ErrorListener receives the field's error flag after every validation run.
type ErrorListener func(key string, hasError bool)

// ChangeListener receives every committed value.
type ChangeListener func(key string, value any)

// Option configures a State.
type Option func(*State)

// WithErrorListener wires the error flag to a page aggregator.
func WithErrorListener(fn ErrorListener) Option {
	return func(s *State) {
		if fn != nil {
			s.onError = fn
		}
	}
}

// WithChangeListener wires committed values to a data sink.
func WithChangeListener(fn ChangeListener) Option {
	return func(s *State) {
		if fn != nil {
			s.onChange = fn
		}
	}
}

// State is the mutable runtime companion of a model.Field. It is not safe
// for concurrent use.
type State struct {
	spec     model.Field
	key      string
	value    any
	hasError bool
	message  string
	failed   bool
	busy     bool
	touched  bool
	mounted  bool

	onError  ErrorListener
	onChange ChangeListener
}

// New creates the runtime state for spec rendered at position index. The
// initial value is the field's prefill.
func New(spec model.Field, index int, options ...Option) *State {
	s := &State{
		spec:     spec,
		key:      spec.Key(index),
		value:    initialValue(spec),
		onError:  func(string, bool) {},
		onChange: func(string, any) {},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Mount validates the initial value and reports the result. Required fields
// are fail-closed: an empty initial value leaves them in error. Optional
// fields always start clean.
func (s *State) Mount() {
	if s == nil || s.mounted {
		return
	}
	s.mounted = true
	if s.spec.Required {
		res := validation.Validate(s.spec, s.value)
		s.hasError = res.HasError
	}
	s.onError(s.key, s.hasError)
}

// Set commits a new value. Validation runs silently when the field is
// required, carries a custom validator or is already in error; messages
// surface on Blur.
func (s *State) Set(value any) {
	if s == nil {
		return
	}
	s.value = value
	s.touched = true
	s.onChange(s.key, value)

	if s.spec.Required || s.spec.Validator != nil || s.hasError {
		res := validation.Validate(s.spec, value)
		s.hasError = res.HasError
		if !res.HasError {
			s.message = ""
		} else if s.spec.Validator != nil {
			s.message = res.Visible()
		}
		s.onError(s.key, s.hasError)
	}
}

// Blur validates the current value and surfaces the message.
func (s *State) Blur() validation.Result {
	if s == nil {
		return validation.Result{}
	}
	res := validation.Validate(s.spec, s.value)
	s.hasError = res.HasError
	s.message = res.Visible()
	s.onError(s.key, s.hasError)
	return res
}

// BeginPipeline marks the field busy. It fails with ErrBusy when a pipeline
// is already running.
func (s *State) BeginPipeline() error {
	if s == nil {
		return errors.New("field: state is nil")
	}
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	s.failed = false
	return nil
}

// EndPipeline clears the busy flag. On success the produced value is
// committed through Set; on failure the value stays untouched and the
// generic failure message is shown.
func (s *State) EndPipeline(value any, err error) {
	if s == nil {
		return
	}
	s.busy = false
	if err != nil {
		s.failed = true
		return
	}
	s.Set(value)
}

func (s *State) Key() string { return s.key }
func (s *State) Spec() model.Field { return s.spec }
func (s *State) Value() any { return s.value }
func (s *State) HasError() bool { return s.hasError }
func (s *State) Busy() bool { return s.busy }
func (s *State) Touched() bool { return s.touched }
func (s *State) PipelineFailed() bool { return s.failed }

// Message returns the text to display under the field.
func (s *State) Message() string {
	if s.failed {
		return MessageFailure
	}
	return s.message
}

// String returns the value as text for input widgets.
func (s *State) String() string {
	return validation.Text(s.value)
}

func initialValue(spec model.Field) any {
	if spec.Prefill == nil {
		switch spec.Type {
		case model.FieldTypeImageGrid:
			return make([]string, GridSlots(spec))
		case model.FieldTypeAvatar, model.FieldTypeDate, model.FieldTypeMultiple:
			return nil
		}
		return ""
	}
	switch spec.Type {
	case model.FieldTypeImageGrid:
		return gridFromPrefill(spec)
	case model.FieldTypeDate:
		return datePrefill(spec.Prefill)
	}
	if spec.IsTextual() {
		return validation.Text(spec.Prefill)
	}
	return spec.Prefill
}

// GridSlots returns the number of image slots for an image grid field.
func GridSlots(spec model.Field) int {
	if n := int(spec.FloatProp("slots", 0)); n > 0 {
		return n
	}
	return 6
}

func gridFromPrefill(spec model.Field) []string {
	slots := make([]string, GridSlots(spec))
	var items []string
	switch v := spec.Prefill.(type) {
	case []string:
		items = v
	case []any:
		for _, item := range v {
			items = append(items, validation.Text(item))
		}
	}
	copy(slots, items)
	return slots
}
