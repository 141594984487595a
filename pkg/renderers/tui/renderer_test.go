package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-onboard/pkg/field"
	"github.com/goliatone/go-onboard/pkg/flow"
	"github.com/goliatone/go-onboard/pkg/media"
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/page"
	"github.com/goliatone/go-onboard/pkg/render"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	defaults     []string
	inputPos     int
	passPos      int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.defaults = append(s.defaults, cfg.Default)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) printed(msg string) bool {
	for _, m := range s.infoMessages {
		if strings.Contains(m, msg) {
			return true
		}
	}
	return false
}

type stubPhone struct {
	sent   []string
	accept string
}

func (p *stubPhone) SendCode(_ context.Context, phone string) error {
	p.sent = append(p.sent, phone)
	return nil
}

func (p *stubPhone) VerifyCode(_ context.Context, _ string, code string) (bool, error) {
	return code == p.accept, nil
}

func newRenderer(t *testing.T, driver *stubDriver) *Renderer {
	t.Helper()
	r, err := New(WithPromptDriver(driver), WithProgress(false))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func buildView(r *Renderer, p model.Page, index, total int, services render.Services) render.PageView {
	agg := page.NewAggregator(nil)
	agg.SetActive(true)
	inst := flow.Instance{Key: "p" + strconv.Itoa(index), ID: model.PageID(p, index), Page: p}
	services = services.Normalize()

	var fields []render.FieldView
	for i, spec := range p.EffectiveFields() {
		state := field.New(spec, i, field.WithErrorListener(agg.Report))
		state.Mount()
		fields = append(fields, render.FieldView{
			Page:     inst,
			Index:    i,
			State:    state,
			Label:    spec.Label,
			Services: services,
		})
	}
	return render.PageView{
		Page:          inst,
		Index:         index,
		Total:         total,
		Title:         p.Title,
		PrimaryButton: p.PrimaryButton(index == total-1),
		Fields:        fields,
		Aggregator:    agg,
		Registry:      r.Fields(),
		Services:      services,
		Lookup: func(id string) (any, bool) {
			for _, fv := range fields {
				if fv.State.Spec().ID == id {
					return fv.State.Value(), true
				}
			}
			return nil, false
		},
	}
}

func renderPage(t *testing.T, r *Renderer, view render.PageView) render.Action {
	t.Helper()
	action, err := r.Pages().Resolve(string(view.Page.Page.Type)).RenderPage(context.Background(), view)
	if err != nil {
		t.Fatalf("render page: %v", err)
	}
	return action
}

func TestFormPageRepromptsOnVisibleMessage(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"not-an-email", "ada@example.com"},
		selectIdx: []int{0},
	}
	r := newRenderer(t, driver)
	p := model.Page{
		Type:   model.PageTypeFormEntry,
		Title:  "Contact",
		Fields: []model.Field{{ID: "email", Type: model.FieldTypeEmail, Label: "E-mail", Required: true}},
	}
	view := buildView(r, p, 0, 2, render.Services{})

	if got := renderPage(t, r, view); got != render.ActionNext {
		t.Fatalf("action = %s, want next", got)
	}
	if got := view.Fields[0].State.Value(); got != "ada@example.com" {
		t.Fatalf("value = %v", got)
	}
	if !driver.printed("! Invalid e-mail address") {
		t.Fatalf("expected validation message, got %v", driver.infoMessages)
	}
	if !driver.printed("== Contact") {
		t.Fatalf("expected title, got %v", driver.infoMessages)
	}
}

func TestFormPageBlocksWhileFieldsFail(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{""},
		selectIdx: []int{0},
	}
	r := newRenderer(t, driver)
	p := model.Page{
		Type:   model.PageTypeFormEntry,
		Fields: []model.Field{{ID: "firstName", Type: model.FieldTypeText, Label: "First name", Required: true}},
	}
	view := buildView(r, p, 0, 1, render.Services{})

	if got := renderPage(t, r, view); got != render.ActionStay {
		t.Fatalf("action = %s, want stay", got)
	}
	if !driver.printed(messageIncomplete) {
		t.Fatalf("expected incomplete message, got %v", driver.infoMessages)
	}
}

func TestDateFieldCommitsDayString(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"1990-01-02"},
		selectIdx: []int{0},
	}
	r := newRenderer(t, driver)
	p := model.Page{
		Type:   model.PageTypeFormEntry,
		Fields: []model.Field{{ID: "birthday", Type: model.FieldTypeDate, Label: "Birthday", Required: true, Prefill: "1990-01-01"}},
	}
	services := render.Services{Now: func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }}
	view := buildView(r, p, 0, 1, services)

	if got := renderPage(t, r, view); got != render.ActionNext {
		t.Fatalf("action = %s, want next", got)
	}
	if diff := cmp.Diff([]string{"1990-01-01"}, driver.defaults); diff != "" {
		t.Fatalf("prompt defaults mismatch (-want +got):\n%s", diff)
	}
	if got := view.Fields[0].State.Value(); got != "1990-01-02" {
		t.Fatalf("value = %#v, want \"1990-01-02\"", got)
	}
}

func TestFormPageBackButton(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada"},
		selectIdx: []int{1},
	}
	r := newRenderer(t, driver)
	p := model.Page{
		Type:   model.PageTypeFormEntry,
		Fields: []model.Field{{ID: "firstName", Type: model.FieldTypeText}},
	}
	view := buildView(r, p, 1, 3, render.Services{})

	if got := renderPage(t, r, view); got != render.ActionBack {
		t.Fatalf("action = %s, want back", got)
	}
}

func TestHiddenFooterAdvances(t *testing.T) {
	driver := &stubDriver{inputs: []string{"42"}}
	r := newRenderer(t, driver)
	p := model.Page{
		Type:       model.PageTypeFormEntry,
		ShowFooter: model.Bool(false),
		Fields:     []model.Field{{ID: "age", Type: model.FieldTypeNumber, Required: true}},
	}
	view := buildView(r, p, 0, 2, render.Services{})

	if got := renderPage(t, r, view); got != render.ActionNext {
		t.Fatalf("action = %s, want next", got)
	}
	if got := view.Fields[0].State.Value(); got != 42.0 {
		t.Fatalf("value = %#v, want 42", got)
	}
}

func TestConditionalPageActions(t *testing.T) {
	cases := []struct {
		name   string
		index  int
		choice int
		want   render.Action
	}{
		{name: "affirm", index: 0, choice: 0, want: render.ActionAffirm},
		{name: "decline", index: 0, choice: 1, want: render.ActionDecline},
		{name: "back", index: 1, choice: 2, want: render.ActionBack},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			driver := &stubDriver{selectIdx: []int{tc.choice}}
			r := newRenderer(t, driver)
			p := model.Page{Type: model.PageTypeConditional, Title: "Do you have pets?"}
			view := buildView(r, p, tc.index, 3, render.Services{})
			if got := renderPage(t, r, view); got != tc.want {
				t.Fatalf("action = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestMultipleChoiceEnforcesMinimum(t *testing.T) {
	driver := &stubDriver{
		multiIdx:  [][]int{{0}, {0, 2}},
		selectIdx: []int{0},
	}
	r := newRenderer(t, driver)
	p := model.Page{
		Type:       model.PageTypeMultipleChoice,
		Title:      "Interests",
		Options:    []model.Option{{Value: "music"}, {Value: "film"}, {Value: "food"}},
		MinChoices: 2,
	}
	view := buildView(r, p, 0, 2, render.Services{})

	if got := renderPage(t, r, view); got != render.ActionNext {
		t.Fatalf("action = %s, want next", got)
	}
	if diff := cmp.Diff([]string{"music", "food"}, view.Fields[0].State.Value()); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	if !driver.printed("! Select at least 2") {
		t.Fatalf("expected minimum message, got %v", driver.infoMessages)
	}
}

func TestGenderDefaultsToStockOptions(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1, 0}}
	r := newRenderer(t, driver)
	p := model.Page{
		Type:   model.PageTypeFormEntry,
		Fields: []model.Field{{ID: "gender", Type: model.FieldTypeGender, Required: true}},
	}
	view := buildView(r, p, 0, 1, render.Services{})

	if got := renderPage(t, r, view); got != render.ActionNext {
		t.Fatalf("action = %s, want next", got)
	}
	if got := view.Fields[0].State.Value(); got != "Female" {
		t.Fatalf("value = %v, want Female", got)
	}
}

func TestPhonePagesSendAndVerify(t *testing.T) {
	phone := &stubPhone{accept: "123456"}
	services := render.Services{Phone: phone}

	driver := &stubDriver{inputs: []string{"+15551234567"}, selectIdx: []int{0}}
	r := newRenderer(t, driver)
	entry := buildView(r, model.Page{Type: model.PageTypePhoneEntry}, 0, 2, services)
	if got := renderPage(t, r, entry); got != render.ActionNext {
		t.Fatalf("entry action = %s, want next", got)
	}
	if diff := cmp.Diff([]string{"+15551234567"}, phone.sent); diff != "" {
		t.Fatalf("sent mismatch (-want +got):\n%s", diff)
	}

	driver = &stubDriver{inputs: []string{"000000"}, selectIdx: []int{0}}
	r = newRenderer(t, driver)
	verify := buildView(r, model.Page{Type: model.PageTypePhoneVerification}, 1, 2, services)
	if got := renderPage(t, r, verify); got != render.ActionStay {
		t.Fatalf("verify action = %s, want stay", got)
	}
	if !driver.printed(messageCodeRejected) {
		t.Fatalf("expected rejection, got %v", driver.infoMessages)
	}
}

func TestPhonePageWithoutVerifier(t *testing.T) {
	driver := &stubDriver{inputs: []string{"+15551234567"}, selectIdx: []int{0}}
	r := newRenderer(t, driver)
	view := buildView(r, model.Page{Type: model.PageTypePhoneEntry}, 0, 2, render.Services{})

	_, err := r.Pages().Resolve(string(model.PageTypePhoneEntry)).RenderPage(context.Background(), view)
	if !errors.Is(err, ErrNoPhoneVerifier) {
		t.Fatalf("err = %v, want ErrNoPhoneVerifier", err)
	}
}

func TestAvatarPipelineFailureKeepsGate(t *testing.T) {
	pickErr := errors.New("camera roll unavailable")
	services := render.Services{
		Media: media.NewPipeline(media.Services{
			Picker: media.PickerFunc(func(context.Context) (media.Image, error) {
				return media.Image{}, pickErr
			}),
		}),
	}
	driver := &stubDriver{confirm: []bool{true}, selectIdx: []int{0}}
	r := newRenderer(t, driver)
	p := model.Page{
		Type:   model.PageTypeFormEntry,
		Fields: []model.Field{{ID: "photo", Type: model.FieldTypeAvatar, Required: true}},
	}
	view := buildView(r, p, 0, 1, services)
	var reported []error
	view.Fields[0].Report = func(err error) { reported = append(reported, err) }

	if got := renderPage(t, r, view); got != render.ActionStay {
		t.Fatalf("action = %s, want stay", got)
	}
	state := view.Fields[0].State
	if !state.PipelineFailed() || state.Busy() {
		t.Fatalf("failed = %v busy = %v", state.PipelineFailed(), state.Busy())
	}
	if !state.HasError() {
		t.Fatal("required avatar should stay in error")
	}
	if len(reported) != 1 || !errors.Is(reported[0], pickErr) {
		t.Fatalf("reported = %v", reported)
	}
	if !driver.printed(field.MessageFailure) {
		t.Fatalf("expected failure message, got %v", driver.infoMessages)
	}
}

func TestCustomPageIsSkipped(t *testing.T) {
	driver := &stubDriver{}
	r := newRenderer(t, driver)
	view := buildView(r, model.Page{Type: model.PageTypeCustom}, 0, 2, render.Services{})

	if got := renderPage(t, r, view); got != render.ActionNext {
		t.Fatalf("action = %s, want next", got)
	}
	if len(driver.infoMessages) != 0 {
		t.Fatalf("custom page printed %v", driver.infoMessages)
	}
}

func TestSerializeFormats(t *testing.T) {
	data := map[string]map[string]any{
		"profile": {"firstName": "Ada", "photos": []string{"a.jpg", ""}},
	}

	pretty, err := Serialize(OutputFormatPrettyText, data)
	if err != nil {
		t.Fatalf("pretty: %v", err)
	}
	want := "profile.firstName=Ada\nprofile.photos[0]=a.jpg\nprofile.photos[1]=\n"
	if diff := cmp.Diff(want, string(pretty)); diff != "" {
		t.Fatalf("pretty mismatch (-want +got):\n%s", diff)
	}

	if _, err := Serialize("xml", data); err == nil {
		t.Fatal("expected unknown format error")
	}
}
