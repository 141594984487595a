package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-onboard/internal/ctxlog"
	"github.com/goliatone/go-onboard/pkg/field"
	"github.com/goliatone/go-onboard/pkg/flow"
	"github.com/goliatone/go-onboard/pkg/model"
	"github.com/goliatone/go-onboard/pkg/page"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/sink"
)

// ErrNoBackend is returned when a session is built without renderers.
var ErrNoBackend = errors.New("orchestrator: backend is required")

// Backend supplies the built-in renderers of a rendering backend.
type Backend interface {
	Fields() *render.Registry[render.FieldRenderer]
	Pages() *render.Registry[render.PageRenderer]
}

// Option customises a Session.
type Option func(*Session)

// WithFieldRenderers merges host field renderers over the backend's
// built-ins. Host entries win on collision.
func WithFieldRenderers(renderers map[string]render.FieldRenderer) Option {
	return func(s *Session) {
		s.fieldOverrides = renderers
	}
}

// WithPageRenderers merges host page renderers over the backend's
// built-ins. Host entries win on collision.
func WithPageRenderers(renderers map[string]render.PageRenderer) Option {
	return func(s *Session) {
		s.pageOverrides = renderers
	}
}

// WithServices supplies the host collaborators.
func WithServices(services render.Services) Option {
	return func(s *Session) {
		s.services = services
	}
}

// WithHooks installs navigation callbacks.
func WithHooks(hooks flow.Hooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithOnSaveData receives every field emission.
func WithOnSaveData(cb sink.Callback) Option {
	return func(s *Session) {
		s.onSave = cb
	}
}

// WithObserver publishes flow lifecycle events. It may be passed more than
// once.
func WithObserver(obs flow.Observer) Option {
	return func(s *Session) {
		if obs != nil {
			s.observers = append(s.observers, obs)
		}
	}
}

// WithLogger adds a structured logging observer.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
			s.observers = append(s.observers, flow.NewLoggingObserver(logger))
		}
	}
}

// WithDecorators runs decorators against the page list before the flow
// starts.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(s *Session) {
		s.decorators = append(s.decorators, decorators...)
	}
}

// WithLocalizer resolves title, label and placeholder keys.
func WithLocalizer(l render.Localizer) Option {
	return func(s *Session) {
		s.localizer = l
		s.localize = true
	}
}

// WithTheme passes a resolved theme through to renderers.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Session) {
		s.theme = cfg
	}
}

// WithThemeSelector resolves the theme when the session is built.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(s *Session) {
		s.themeSelector = selector
		s.themeName = name
		s.themeVariant = variant
	}
}

// WithInitialIndex starts on a page other than the first.
func WithInitialIndex(index int) Option {
	return func(s *Session) {
		s.flowOptions = append(s.flowOptions, flow.WithInitialIndex(index))
	}
}

// WithIndexBinding hands ownership of the page index to the host.
func WithIndexBinding(binding flow.IndexBinding) Option {
	return func(s *Session) {
		s.flowOptions = append(s.flowOptions, flow.WithIndexBinding(binding))
	}
}

// WithContinueBinding hands ownership of the continue signal to the host.
func WithContinueBinding(binding flow.ContinueBinding) Option {
	return func(s *Session) {
		s.flowOptions = append(s.flowOptions, flow.WithContinueBinding(binding))
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// Session is a running onboarding flow. It is not safe for concurrent use.
type Session struct {
	id         string
	controller *flow.Controller
	recorder   *sink.Recorder
	fields     *render.Registry[render.FieldRenderer]
	pages      *render.Registry[render.PageRenderer]
	services   render.Services
	observer   flow.Observer
	logger     *slog.Logger
	localizer  render.Localizer
	localize   bool
	theme      *theme.RendererConfig
	runtimes   map[string]*pageRuntime
	active     *pageRuntime
	started    bool

	fieldOverrides map[string]render.FieldRenderer
	pageOverrides  map[string]render.PageRenderer
	hooks          flow.Hooks
	onSave         sink.Callback
	observers      []flow.Observer
	decorators     []model.Decorator
	themeSelector  theme.ThemeSelector
	themeName      string
	themeVariant   string
	flowOptions    []flow.Option
}

type pageRuntime struct {
	instance   flow.Instance
	aggregator *page.Aggregator
	fields     []*field.State
}

// New builds a session over pages rendered by backend.
func New(backend Backend, pages []model.Page, options ...Option) (*Session, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	s := &Session{runtimes: make(map[string]*pageRuntime)}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}

	s.fields = backend.Fields().Merge(s.fieldOverrides)
	s.pages = backend.Pages().Merge(s.pageOverrides)
	s.services = s.services.Normalize()
	s.observer = flow.NewCompositeObserver(s.observers...)
	s.recorder = sink.New(sink.WithCallback(s.onSave))

	if s.themeSelector != nil && s.theme == nil {
		cfg, err := render.ResolveTheme(s.themeSelector, s.themeName, s.themeVariant, render.DefaultThemePartials())
		if err != nil {
			return nil, fmt.Errorf("orchestrator: resolve theme: %w", err)
		}
		s.theme = cfg
	}

	working := make([]model.Page, len(pages))
	for i, p := range pages {
		working[i] = p.Clone()
	}
	decorators := s.decorators
	if s.localize {
		decorators = append([]model.Decorator{render.LocalizeDecorator(s.localizer)}, decorators...)
	}
	for _, d := range decorators {
		if d == nil {
			continue
		}
		if err := d.Decorate(working); err != nil {
			return nil, fmt.Errorf("orchestrator: decorate pages: %w", err)
		}
	}

	hooks := s.hooks
	enter := hooks.OnPageEnter
	hooks.OnPageEnter = func(index int, inst flow.Instance) {
		s.activate(inst)
		if enter != nil {
			enter(index, inst)
		}
	}

	opts := append([]flow.Option{flow.WithHooks(hooks), flow.WithObserver(s.observer)}, s.flowOptions...)
	controller, err := flow.New(working, opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	s.controller = controller
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Controller exposes the navigation state machine for programmatic
// navigation.
func (s *Session) Controller() *flow.Controller {
	return s.controller
}

// Recorder exposes the data sink.
func (s *Session) Recorder() *sink.Recorder {
	return s.recorder
}

// Theme returns the resolved theme, if any.
func (s *Session) Theme() *theme.RendererConfig {
	return s.theme
}

// Start activates the initial page. Run calls it implicitly.
func (s *Session) Start() {
	if s.started {
		return
	}
	s.started = true
	s.controller.Start()
}

// Run renders the active page until the flow completes, the context is
// cancelled or a renderer fails.
func (s *Session) Run(ctx context.Context) error {
	logger := s.logger
	if logger == nil {
		logger = ctxlog.FromContext(ctx)
	}
	s.Start()
	for !s.controller.Completed() {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := s.View()
		renderer := s.pages.Resolve(string(view.Page.Page.Type))
		action, err := renderer.RenderPage(ctx, view)
		if err != nil {
			return fmt.Errorf("orchestrator: page %q: %w", view.Page.ID, err)
		}
		logger.Debug("page action", "session", s.id, "page", view.Page.ID, "action", action.String())
		if err := s.Apply(action); err != nil && !errors.Is(err, flow.ErrBlocked) {
			return err
		}
	}
	return nil
}

// Apply performs a page action against the controller.
func (s *Session) Apply(action render.Action) error {
	switch action {
	case render.ActionNext:
		return s.controller.GoToNext()
	case render.ActionAffirm:
		return s.controller.Affirm()
	case render.ActionDecline:
		return s.controller.Decline()
	case render.ActionBack:
		s.controller.GoToPrevious()
	}
	return nil
}

// View assembles the render view of the active page.
func (s *Session) View() render.PageView {
	s.Start()
	inst := s.controller.Current()
	rt := s.runtime(inst)
	index := s.controller.Index()

	fields := make([]render.FieldView, len(rt.fields))
	for i, state := range rt.fields {
		label, placeholder := s.localizer.Field(state.Spec())
		fieldID := state.Key()
		fields[i] = render.FieldView{
			Page:        inst,
			Index:       i,
			State:       state,
			Label:       label,
			Placeholder: placeholder,
			Services:    s.services,
			Theme:       s.theme,
			Report: func(err error) {
				s.observer.OnFieldFailure(inst.ID, fieldID, err)
			},
		}
	}

	return render.PageView{
		Page:          inst,
		Index:         index,
		Total:         s.controller.Total(),
		Title:         inst.Page.Title,
		Subtitle:      inst.Page.Subtitle,
		PrimaryButton: inst.Page.PrimaryButton(s.controller.IsLast()),
		Fields:        fields,
		Aggregator:    rt.aggregator,
		Registry:      s.fields,
		Services:      s.services,
		Theme:         s.theme,
		Lookup:        s.lookup,
		Report: func(err error) {
			s.observer.OnFieldFailure(inst.ID, "", err)
		},
	}
}

// Snapshot is the observable state of a session.
type Snapshot struct {
	SessionID string `json:"sessionId"`
	flow.State
	Data map[string]map[string]any `json:"data"`
}

// Snapshot returns the navigation state and a copy of the collected data.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID: s.id,
		State:     s.controller.State(),
		Data:      s.recorder.Snapshot(),
	}
}

func (s *Session) activate(inst flow.Instance) {
	rt := s.runtime(inst)
	if s.active != nil && s.active != rt {
		s.active.aggregator.SetActive(false)
	}
	s.active = rt
	rt.aggregator.SetActive(true)
}

// runtime returns the page runtime of inst, building it on first use.
// Fields mount once; prefilled values are emitted to the sink at mount.
func (s *Session) runtime(inst flow.Instance) *pageRuntime {
	if rt, ok := s.runtimes[inst.Key]; ok {
		return rt
	}
	rt := &pageRuntime{
		instance:   inst,
		aggregator: page.NewAggregator(s.controller.SetCanContinue),
	}
	for i, spec := range inst.Page.EffectiveFields() {
		state := field.New(spec, i,
			field.WithErrorListener(rt.aggregator.Report),
			field.WithChangeListener(func(key string, value any) {
				s.recorder.RecordFieldValue(inst.Page, inst.ID, key, value)
			}),
		)
		state.Mount()
		if spec.Prefill != nil {
			s.recorder.RecordFieldValue(inst.Page, inst.ID, state.Key(), state.Value())
		}
		rt.fields = append(rt.fields, state)
	}
	s.runtimes[inst.Key] = rt
	return rt
}

func (s *Session) lookup(fieldID string) (any, bool) {
	records := s.recorder.Records()
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].FieldID == fieldID {
			return records[i].Value, true
		}
	}
	return nil, false
}
