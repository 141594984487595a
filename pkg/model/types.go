package model

// FieldType tags the kind of input a field renders.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeTextArea  FieldType = "textarea"
	FieldTypeDate      FieldType = "date"
	FieldTypeNumber    FieldType = "number"
	FieldTypeEmail     FieldType = "email"
	FieldTypePassword  FieldType = "password"
	FieldTypeHandle    FieldType = "handle"
	FieldTypePhone     FieldType = "phone"
	FieldTypeCode      FieldType = "code"
	FieldTypeAvatar    FieldType = "avatar"
	FieldTypeImageGrid FieldType = "imageGrid"
	FieldTypeGender    FieldType = "gender"
	FieldTypeMultiple  FieldType = "multipleChoice"
)

// PageType tags the layout a page renders with.
type PageType string

const (
	PageTypeFormEntry         PageType = "formEntry"
	PageTypeConditional       PageType = "conditionalPage"
	PageTypeMultipleChoice    PageType = "multipleChoice"
	PageTypePhoneEntry        PageType = "phoneNumberEntry"
	PageTypePhoneVerification PageType = "phoneNumberVerification"
	PageTypeTurnOnLocation    PageType = "turnOnLocation"
	// PageTypeCustom pages are skipped by the built-in renderers.
	PageTypeCustom PageType = "custom"
)

// FieldTypes lists the built-in field tags.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText, FieldTypeTextArea, FieldTypeDate, FieldTypeNumber,
		FieldTypeEmail, FieldTypePassword, FieldTypeHandle, FieldTypePhone,
		FieldTypeCode, FieldTypeAvatar, FieldTypeImageGrid, FieldTypeGender,
		FieldTypeMultiple,
	}
}

// PageTypes lists the built-in page tags.
func PageTypes() []PageType {
	return []PageType{
		PageTypeFormEntry, PageTypeConditional, PageTypeMultipleChoice,
		PageTypePhoneEntry, PageTypePhoneVerification, PageTypeTurnOnLocation,
		PageTypeCustom,
	}
}

// SilentFailure is the reserved validator result meaning "invalid, but show
// no message".
const SilentFailure = "failedSilently"

// ValidatorFunc is a host supplied validation hook. It returns an empty
// string when value is valid, SilentFailure to fail without a message, or
// the message to display.
type ValidatorFunc func(value any) string

// Option is a selectable choice for gender and multiple choice inputs.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Text returns the label, falling back to the value.
func (o Option) Text() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// DefaultGenderOptions mirrors the stock gender selector.
func DefaultGenderOptions() []Option {
	return []Option{
		{Value: "Male", Label: "Male"},
		{Value: "Female", Label: "Female"},
	}
}
