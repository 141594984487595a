package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/goliatone/go-onboard/pkg/model"
)

// Silent marks a failed validation whose message must not be displayed.
const Silent = model.SilentFailure

const (
	MessageEmail    = "Invalid e-mail address"
	MessagePassword = "Your password must be 8 to 32 characters and include a number, a lowercase and an uppercase letter"
	MessageHandle   = "Invalid handle"
	MessagePhone    = "Invalid phone number"
	MessageCode     = "Enter the 6 digit code"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	phonePattern  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	codePattern   = regexp.MustCompile(`^[0-9]{6}$`)
	phoneNoise    = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Result is the outcome of a single validation run.
type Result struct {
	HasError bool
	Message  string
}

// Visible returns the message to display, hiding the Silent sentinel.
func (r Result) Visible() string {
	if !r.HasError || r.Message == Silent {
		return ""
	}
	return r.Message
}

// Validate applies the field's policy to value. A host validator takes
// precedence over the built-in type policy. Optional fields accept empty
// values.
func Validate(f model.Field, value any) Result {
	if f.Validator != nil {
		msg := f.Validator(value)
		return Result{HasError: msg != "", Message: msg}
	}
	if !f.Required && IsEmpty(value) {
		return Result{}
	}
	return ForType(f.Type, value)
}

// ForType runs the built-in policy for the given field type.
func ForType(t model.FieldType, value any) Result {
	switch t {
	case model.FieldTypeText, model.FieldTypeTextArea, model.FieldTypeNumber:
		return check(strings.TrimSpace(Text(value)) != "", Silent)
	case model.FieldTypeEmail:
		return check(Email(Text(value)), MessageEmail)
	case model.FieldTypePassword:
		return check(Password(Text(value)), MessagePassword)
	case model.FieldTypeHandle:
		return check(Handle(Text(value)), MessageHandle)
	case model.FieldTypePhone:
		return check(Phone(Text(value)), MessagePhone)
	case model.FieldTypeCode:
		return check(Code(Text(value)), MessageCode)
	default:
		return check(!IsEmpty(value), Silent)
	}
}

func check(ok bool, message string) Result {
	if ok {
		return Result{}
	}
	return Result{HasError: true, Message: message}
}

// Email reports whether s looks like local@domain.tld.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Password requires 8 to 32 characters with at least one digit, one
// lowercase and one uppercase letter.
func Password(s string) bool {
	n := len([]rune(s))
	if n < 8 || n > 32 {
		return false
	}
	var digit, lower, upper bool
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return digit && lower && upper
}

// Handle accepts letters, digits, underscores and dots, at least two long.
func Handle(s string) bool {
	return len(s) >= 2 && handlePattern.MatchString(s)
}

// Phone accepts an optional leading plus and 7 to 15 digits. Spaces, dashes
// and parentheses are ignored.
func Phone(s string) bool {
	return phonePattern.MatchString(phoneNoise.Replace(strings.TrimSpace(s)))
}

// Code accepts a six digit verification code.
func Code(s string) bool {
	return codePattern.MatchString(strings.TrimSpace(s))
}

// IsEmpty reports whether a field value counts as unset.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				return false
			}
		}
		return true
	case []any:
		for _, item := range v {
			if !IsEmpty(item) {
				return false
			}
		}
		return true
	case time.Time:
		return v.IsZero()
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// Text renders value as the string a text policy inspects.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
