package flow

// Hooks are the optional host callbacks fired on navigation.
type Hooks struct {
	OnNext      func()
	OnBack      func()
	OnDone      func()
	OnPageEnter func(index int, page Instance)
}

func (h Hooks) normalize() Hooks {
	if h.OnNext == nil {
		h.OnNext = func() {}
	}
	if h.OnBack == nil {
		h.OnBack = func() {}
	}
	if h.OnDone == nil {
		h.OnDone = func() {}
	}
	if h.OnPageEnter == nil {
		h.OnPageEnter = func(int, Instance) {}
	}
	return h
}

// IndexBinding lets the host own the current page index.
type IndexBinding interface {
	Index() int
	SetIndex(int)
}

// ContinueBinding lets the host own the continue signal.
type ContinueBinding interface {
	CanContinue() bool
	SetCanContinue(bool)
}

// Option configures a Controller.
type Option func(*Controller)

// WithHooks installs host callbacks.
func WithHooks(hooks Hooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithObserver publishes lifecycle events to obs.
func WithObserver(obs Observer) Option {
	return func(c *Controller) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// WithInitialIndex starts the flow on a page other than the first one.
// Out of range values are ignored.
func WithInitialIndex(index int) Option {
	return func(c *Controller) {
		c.initial = index
	}
}

// WithIndexBinding hands ownership of the index to the host.
func WithIndexBinding(binding IndexBinding) Option {
	return func(c *Controller) {
		c.indexBinding = binding
	}
}

// WithContinueBinding hands ownership of the continue signal to the host.
func WithContinueBinding(binding ContinueBinding) Option {
	return func(c *Controller) {
		c.continueBinding = binding
	}
}
