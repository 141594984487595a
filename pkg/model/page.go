package model

import (
	"strconv"
	"strings"
)

const (
	// PrimaryButtonDefault labels the primary action on intermediate pages.
	PrimaryButtonDefault = "Continue"
	// PrimaryButtonLast labels the primary action on the final page.
	PrimaryButtonLast = "Get started"
	// ConditionalDecline labels the negative answer on conditional pages.
	ConditionalDecline = "No"
	// ConditionalAffirm labels the affirmative answer on conditional pages.
	ConditionalAffirm = "Yes"
)

// Page is one step of the onboarding flow.
type Page struct {
	ID                 string         `json:"id,omitempty" yaml:"id,omitempty"`
	Type               PageType       `json:"type" yaml:"type"`
	Title              string         `json:"title,omitempty" yaml:"title,omitempty"`
	TitleKey           string         `json:"titleKey,omitempty" yaml:"titleKey,omitempty"`
	Subtitle           string         `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	SubtitleKey        string         `json:"subtitleKey,omitempty" yaml:"subtitleKey,omitempty"`
	IsConditional      bool           `json:"isConditional,omitempty" yaml:"isConditional,omitempty"`
	Pages              []Page         `json:"pages,omitempty" yaml:"pages,omitempty"`
	Fields             []Field        `json:"fields,omitempty" yaml:"fields,omitempty"`
	Options            []Option       `json:"options,omitempty" yaml:"options,omitempty"`
	MinChoices         int            `json:"minChoices,omitempty" yaml:"minChoices,omitempty"`
	MaxChoices         int            `json:"maxChoices,omitempty" yaml:"maxChoices,omitempty"`
	ShowHeader         *bool          `json:"showHeader,omitempty" yaml:"showHeader,omitempty"`
	ShowFooter         *bool          `json:"showFooter,omitempty" yaml:"showFooter,omitempty"`
	PrimaryButtonTitle string         `json:"primaryButtonTitle,omitempty" yaml:"primaryButtonTitle,omitempty"`
	Props              map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
}

// PageID returns the page's stable identifier, or its positional index when
// no ID was configured.
func PageID(p Page, index int) string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return id
	}
	return strconv.Itoa(index)
}

// HeaderVisible reports whether the header should render. Defaults to true.
func (p Page) HeaderVisible() bool {
	return p.ShowHeader == nil || *p.ShowHeader
}

// FooterVisible reports whether the footer should render. Defaults to true.
func (p Page) FooterVisible() bool {
	return p.ShowFooter == nil || *p.ShowFooter
}

// Conditional reports whether the page branches into nested pages.
func (p Page) Conditional() bool {
	return p.IsConditional || p.Type == PageTypeConditional
}

// PrimaryButton resolves the primary action label for the page at the given
// position.
func (p Page) PrimaryButton(isLast bool) string {
	if title := strings.TrimSpace(p.PrimaryButtonTitle); title != "" {
		return title
	}
	if isLast {
		return PrimaryButtonLast
	}
	return PrimaryButtonDefault
}

// Clone returns a deep copy of the page so spliced instances never share
// mutable slices with the configuration.
func (p Page) Clone() Page {
	out := p
	if p.Pages != nil {
		out.Pages = make([]Page, len(p.Pages))
		for i := range p.Pages {
			out.Pages[i] = p.Pages[i].Clone()
		}
	}
	if p.Fields != nil {
		out.Fields = make([]Field, len(p.Fields))
		for i, f := range p.Fields {
			out.Fields[i] = f.clone()
		}
	}
	if p.Options != nil {
		out.Options = append([]Option(nil), p.Options...)
	}
	out.Props = cloneProps(p.Props)
	if p.ShowHeader != nil {
		v := *p.ShowHeader
		out.ShowHeader = &v
	}
	if p.ShowFooter != nil {
		v := *p.ShowFooter
		out.ShowFooter = &v
	}
	return out
}

func (f Field) clone() Field {
	out := f
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	out.Props = cloneProps(f.Props)
	return out
}

func cloneProps(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Bool returns a pointer to v, for populating ShowHeader/ShowFooter.
func Bool(v bool) *bool {
	return &v
}
