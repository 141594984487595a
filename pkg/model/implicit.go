package model

import "fmt"

// Field IDs used by pages that carry a single implicit input.
const (
	ChoicesFieldID      = "choices"
	PhoneNumberFieldID  = "phoneNumber"
	VerificationFieldID = "verificationCode"
)

// EffectiveFields returns the fields a page renders. Multiple choice and
// phone pages without explicit fields get the single input their layout
// implies.
func (p Page) EffectiveFields() []Field {
	if len(p.Fields) > 0 {
		return p.Fields
	}
	switch p.Type {
	case PageTypeMultipleChoice:
		if len(p.Options) == 0 {
			return nil
		}
		return []Field{p.choiceField()}
	case PageTypePhoneEntry:
		return []Field{{ID: PhoneNumberFieldID, Type: FieldTypePhone, Label: "Phone number", Required: true}}
	case PageTypePhoneVerification:
		return []Field{{ID: VerificationFieldID, Type: FieldTypeCode, Label: "Verification code", Required: true}}
	}
	return nil
}

// FieldByKey finds the effective field rendered under key.
func (p Page) FieldByKey(key string) (Field, bool) {
	for i, f := range p.EffectiveFields() {
		if f.Key(i) == key {
			return f, true
		}
	}
	return Field{}, false
}

func (p Page) choiceField() Field {
	lo, hi := p.MinChoices, p.MaxChoices
	f := Field{
		ID:       ChoicesFieldID,
		Type:     FieldTypeMultiple,
		Label:    p.Title,
		Required: lo > 0,
		Options:  p.Options,
		Props:    map[string]any{"minChoices": lo, "maxChoices": hi},
	}
	if lo > 0 || hi > 0 {
		f.Validator = func(value any) string {
			n := countChoices(value)
			switch {
			case lo > 0 && n < lo:
				return fmt.Sprintf("Select at least %d", lo)
			case hi > 0 && n > hi:
				return fmt.Sprintf("Select at most %d", hi)
			}
			return ""
		}
	}
	return f
}

func countChoices(value any) int {
	switch v := value.(type) {
	case []string:
		return len(v)
	case []any:
		return len(v)
	case string:
		if v == "" {
			return 0
		}
		return 1
	}
	return 0
}
