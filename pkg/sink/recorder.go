// Package sink collects field values as the user fills in a flow and
// forwards every emission to the host.
package sink

import (
	"github.com/goliatone/go-onboard/pkg/model"
)

// Callback receives each field emission along with the page identifier.
type Callback func(resp model.StepResponse, pageID string)

// Tee fans an emission out to several callbacks, skipping nil entries.
func Tee(callbacks ...Callback) Callback {
	var active []Callback
	for _, cb := range callbacks {
		if cb != nil {
			active = append(active, cb)
		}
	}
	return func(resp model.StepResponse, pageID string) {
		for _, cb := range active {
			cb(resp, pageID)
		}
	}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithCallback forwards every emission to cb.
func WithCallback(cb Callback) Option {
	return func(r *Recorder) {
		if cb != nil {
			r.callback = cb
		}
	}
}

// Recorder merges field values into a per page map and forwards each
// emission to the host callback. Emissions are not deduplicated. It is not
// safe for concurrent use.
type Recorder struct {
	data     map[string]map[string]any
	log      []model.Record
	callback Callback
}

// New returns an empty recorder.
func New(options ...Option) *Recorder {
	r := &Recorder{
		data:     make(map[string]map[string]any),
		callback: func(model.StepResponse, string) {},
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// RecordFieldValue merges value under pageID/fieldID and notifies the host.
func (r *Recorder) RecordFieldValue(page model.Page, pageID, fieldID string, value any) {
	if r == nil {
		return
	}
	fields, ok := r.data[pageID]
	if !ok {
		fields = make(map[string]any)
		r.data[pageID] = fields
	}
	fields[fieldID] = value
	r.log = append(r.log, model.Record{PageID: pageID, FieldID: fieldID, Value: value})

	r.callback(model.StepResponse{
		Data:   model.FieldValue{ID: fieldID, Value: value},
		Source: page,
	}, pageID)
}

// Value returns the latest value recorded for a field.
func (r *Recorder) Value(pageID, fieldID string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.data[pageID][fieldID]
	return v, ok
}

// Snapshot returns a copy of the merged data keyed by page then field.
func (r *Recorder) Snapshot() map[string]map[string]any {
	out := make(map[string]map[string]any, len(r.data))
	for pageID, fields := range r.data {
		copied := make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		out[pageID] = copied
	}
	return out
}

// Records returns every emission in order.
func (r *Recorder) Records() []model.Record {
	out := make([]model.Record, len(r.log))
	copy(out, r.log)
	return out
}
