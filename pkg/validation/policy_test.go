package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-onboard/pkg/model"
)

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"a@b.co":          true,
		"jane@example.io": true,
		"not-an-email":    false,
		"a@b.c":           false,
		"a b@c.de":        false,
		"":                false,
	}
	for input, want := range cases {
		if got := Email(input); got != want {
			t.Fatalf("Email(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestHandle(t *testing.T) {
	cases := map[string]bool{
		"ab":        true,
		"jane.doe_": true,
		"a":         false,
		"a b":       false,
		"hé":        false,
	}
	for input, want := range cases {
		if got := Handle(input); got != want {
			t.Fatalf("Handle(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestPassword(t *testing.T) {
	cases := map[string]bool{
		"Secret123":  true,
		"secret123":  false,
		"SECRET123":  false,
		"SecretPass": false,
		"Se1":        false,
	}
	cases["Aa1"+strings.Repeat("x", 30)] = false
	for input, want := range cases {
		if got := Password(input); got != want {
			t.Fatalf("Password(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestPhoneAndCode(t *testing.T) {
	if !Phone("+1 (555) 010-9999") {
		t.Fatalf("expected formatted phone number to pass")
	}
	if Phone("12") {
		t.Fatalf("expected short phone number to fail")
	}
	if !Code("123456") || Code("12345") || Code("12a456") {
		t.Fatalf("code policy mismatch")
	}
}

func TestValidate_RequiredTextIsSilent(t *testing.T) {
	res := Validate(model.Field{Type: model.FieldTypeText, Required: true}, "   ")
	if !res.HasError {
		t.Fatalf("expected blank required text to fail")
	}
	if res.Visible() != "" {
		t.Fatalf("expected silent failure, got %q", res.Visible())
	}
}

func TestValidate_OptionalEmptyPasses(t *testing.T) {
	res := Validate(model.Field{Type: model.FieldTypeEmail}, "")
	if res.HasError {
		t.Fatalf("optional empty email should pass, got %+v", res)
	}
	res = Validate(model.Field{Type: model.FieldTypeEmail}, "nope")
	if !res.HasError || res.Visible() != MessageEmail {
		t.Fatalf("expected email message, got %+v", res)
	}
}

func TestValidate_CustomValidatorWins(t *testing.T) {
	field := model.Field{
		Type:     model.FieldTypeEmail,
		Required: true,
		Validator: func(value any) string {
			if value == "blocked@example.com" {
				return "Address not allowed"
			}
			return ""
		},
	}
	if res := Validate(field, "not-an-email"); res.HasError {
		t.Fatalf("custom validator should override the type policy")
	}
	if res := Validate(field, "blocked@example.com"); res.Visible() != "Address not allowed" {
		t.Fatalf("unexpected result %+v", res)
	}

	field.Validator = func(any) string { return Silent }
	res := Validate(field, "x")
	if !res.HasError || res.Visible() != "" {
		t.Fatalf("silent sentinel should fail without message, got %+v", res)
	}
}

func TestValidate_NonTextRequired(t *testing.T) {
	cases := []struct {
		name  string
		field model.Field
		value any
		fail  bool
	}{
		{name: "gender empty", field: model.Field{Type: model.FieldTypeGender, Required: true}, value: "", fail: true},
		{name: "gender set", field: model.Field{Type: model.FieldTypeGender, Required: true}, value: "Female"},
		{name: "grid empty", field: model.Field{Type: model.FieldTypeImageGrid, Required: true}, value: []string{"", ""}, fail: true},
		{name: "grid one", field: model.Field{Type: model.FieldTypeImageGrid, Required: true}, value: []string{"", "/images/a.jpg"}},
		{name: "date zero", field: model.Field{Type: model.FieldTypeDate, Required: true}, value: time.Time{}, fail: true},
		{name: "avatar optional", field: model.Field{Type: model.FieldTypeAvatar}, value: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Validate(tc.field, tc.value).HasError; got != tc.fail {
				t.Fatalf("HasError = %v, want %v", got, tc.fail)
			}
		})
	}
}

func TestReport(t *testing.T) {
	report := NewReport()
	if report.Err() != nil {
		t.Fatalf("empty report should be valid")
	}
	report.Add("pages[0]", "type", "unknown page type %q", "fromEntry")
	if report.Valid {
		t.Fatalf("report should be invalid after Add")
	}
	err := report.Err()
	if err == nil || !strings.Contains(err.Error(), `pages[0]: unknown page type "fromEntry"`) {
		t.Fatalf("unexpected error %v", err)
	}
}
