package html

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-onboard/pkg/field"
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/render"
)

// ActionParam is the form key carrying the pressed button.
const ActionParam = "_action"

// ParseAction maps a posted button value to a page action. Unknown values
// keep the client on the page.
func ParseAction(value string) render.Action {
	switch strings.TrimSpace(value) {
	case "next":
		return render.ActionNext
	case "back":
		return render.ActionBack
	case "affirm":
		return render.ActionAffirm
	case "decline":
		return render.ActionDecline
	}
	return render.ActionStay
}

// Submit applies posted form values to the page's fields and returns the
// requested action. Values are keyed by field key. Only fields present in
// values are touched; each one is blurred so its message surfaces on the
// next render. Image fields are driven by the media pipeline and ignored
// here.
func Submit(view render.PageView, values url.Values) (render.Action, error) {
	for _, fv := range view.Fields {
		state := fv.State
		spec := state.Spec()
		raw, ok := values[state.Key()]
		if !ok {
			if spec.Type == model.FieldTypeMultiple && values.Has(ActionParam) {
				raw = []string{}
			} else {
				continue
			}
		}

		switch spec.Type {
		case model.FieldTypeAvatar, model.FieldTypeImageGrid:
			continue
		case model.FieldTypeMultiple:
			state.Set(append([]string(nil), raw...))
		case model.FieldTypeNumber:
			text := first(raw)
			if n, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
				state.Set(n)
			} else {
				state.Set(text)
			}
		case model.FieldTypeDate:
			text := strings.TrimSpace(first(raw))
			if text == "" {
				state.Set(nil)
				break
			}
			t, err := time.Parse(field.DateLayout, text)
			if err != nil {
				return render.ActionStay, fmt.Errorf("html: field %q: parse date: %w", state.Key(), err)
			}
			state.Set(field.FormatDate(t))
		default:
			state.Set(first(raw))
		}
		state.Blur()
	}
	return ParseAction(values.Get(ActionParam)), nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
