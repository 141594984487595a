package flow

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-onboard/pkg/model"
)

// Instance is a page placed in the flow sequence. Key identifies the
// placement itself and is what conditional expansion is tracked against;
// ID is the page identifier reported to the host.
type Instance struct {
	Key  string
	ID   string
	Page model.Page
}

// State is a snapshot of the navigation state.
type State struct {
	CurrentPageIndex int  `json:"currentPageIndex"`
	TotalPages       int  `json:"totalPages"`
	CanContinue      bool `json:"canContinue"`
	Completed        bool `json:"completed"`
}

// Controller is the navigation state machine. It is not safe for
// concurrent use.
type Controller struct {
	pages       []Instance
	index       int
	canContinue bool
	completed   bool
	expanded    map[string]struct{}
	seq         int
	initial     int

	hooks           Hooks
	observer        Observer
	indexBinding    IndexBinding
	continueBinding ContinueBinding
}

// New builds a controller over pages. The pages are cloned so later
// mutations by the caller do not leak into the running flow.
func New(pages []model.Page, options ...Option) (*Controller, error) {
	if len(pages) == 0 {
		return nil, ErrNoPages
	}

	c := &Controller{
		canContinue: true,
		expanded:    make(map[string]struct{}),
		observer:    NoopObserver{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.hooks = c.hooks.normalize()

	c.pages = make([]Instance, 0, len(pages))
	for i, p := range pages {
		c.pages = append(c.pages, c.instance(p, i))
	}

	start := c.initial
	if c.indexBinding != nil {
		start = c.indexBinding.Index()
	}
	if start < 0 || start >= len(c.pages) {
		start = 0
	}
	c.index = start
	if c.indexBinding != nil && c.indexBinding.Index() != start {
		c.indexBinding.SetIndex(start)
	}
	return c, nil
}

func (c *Controller) instance(p model.Page, position int) Instance {
	c.seq++
	return Instance{
		Key:  "p" + strconv.Itoa(c.seq),
		ID:   model.PageID(p, position),
		Page: p.Clone(),
	}
}

// Start announces the initial page. It is separate from New so callers can
// wire page runtimes before the first enter event fires.
func (c *Controller) Start() {
	c.enter(c.index)
}

// Index returns the active page index.
func (c *Controller) Index() int {
	return c.index
}

// Total returns the current number of pages.
func (c *Controller) Total() int {
	return len(c.pages)
}

// Completed reports whether the flow reached its terminal state.
func (c *Controller) Completed() bool {
	return c.completed
}

// Current returns the active page.
func (c *Controller) Current() Instance {
	return c.pages[c.index]
}

// Page returns the page at index i.
func (c *Controller) Page(i int) (Instance, bool) {
	if i < 0 || i >= len(c.pages) {
		return Instance{}, false
	}
	return c.pages[i], true
}

// Pages returns a copy of the page sequence.
func (c *Controller) Pages() []Instance {
	out := make([]Instance, len(c.pages))
	copy(out, c.pages)
	return out
}

// IsLast reports whether the active page is the final one.
func (c *Controller) IsLast() bool {
	return c.index == len(c.pages)-1
}

// CanContinue reports the active page's continue signal.
func (c *Controller) CanContinue() bool {
	if c.continueBinding != nil {
		return c.continueBinding.CanContinue()
	}
	return c.canContinue
}

// SetCanContinue updates the continue signal. Page aggregators call this
// for the active page.
func (c *Controller) SetCanContinue(v bool) {
	if c.continueBinding != nil {
		c.continueBinding.SetCanContinue(v)
		return
	}
	c.canContinue = v
}

// State returns a snapshot of the navigation state.
func (c *Controller) State() State {
	return State{
		CurrentPageIndex: c.index,
		TotalPages:       len(c.pages),
		CanContinue:      c.CanContinue(),
		Completed:        c.completed,
	}
}

// GoToNext advances to the next page, or completes the flow from the last
// page. It fails with ErrBlocked while the active page cannot continue.
func (c *Controller) GoToNext() error {
	if c.completed {
		return ErrCompleted
	}
	if !c.CanContinue() {
		c.observer.OnBlocked(c.index, c.pages[c.index])
		return ErrBlocked
	}
	c.advance()
	return nil
}

// Affirm answers "yes" on a conditional page: its nested pages are spliced
// in right after it, once per page instance, and the flow advances.
func (c *Controller) Affirm() error {
	if c.completed {
		return ErrCompleted
	}
	current := c.pages[c.index]
	if !current.Page.Conditional() {
		return fmt.Errorf("%w: %s", ErrNotConditional, current.ID)
	}
	if !c.CanContinue() {
		c.observer.OnBlocked(c.index, current)
		return ErrBlocked
	}
	c.expand(c.index)
	c.advance()
	return nil
}

// Decline answers "no" on a conditional page and advances without
// splicing.
func (c *Controller) Decline() error {
	if c.completed {
		return ErrCompleted
	}
	current := c.pages[c.index]
	if !current.Page.Conditional() {
		return fmt.Errorf("%w: %s", ErrNotConditional, current.ID)
	}
	return c.GoToNext()
}

// GoToPrevious moves back one page. It is a no-op on the first page and
// after completion; the return value reports whether the index moved.
func (c *Controller) GoToPrevious() bool {
	if c.completed || c.index == 0 {
		return false
	}
	c.enter(c.index - 1)
	c.hooks.OnBack()
	return true
}

// SetIndex handles an index change coming from outside the controller, such
// as a swipe gesture. Out of range values are ignored. OnNext or OnBack
// fire according to the direction of travel.
func (c *Controller) SetIndex(i int) bool {
	if c.completed || i < 0 || i >= len(c.pages) || i == c.index {
		return false
	}
	forward := i > c.index
	c.enter(i)
	if forward {
		c.hooks.OnNext()
	} else {
		c.hooks.OnBack()
	}
	return true
}

// Sync pulls the index from the host binding and applies it as an external
// index change.
func (c *Controller) Sync() bool {
	if c.indexBinding == nil {
		return false
	}
	return c.SetIndex(c.indexBinding.Index())
}

func (c *Controller) advance() {
	if c.IsLast() {
		c.completed = true
		c.observer.OnComplete(len(c.pages))
		c.hooks.OnDone()
		return
	}
	c.enter(c.index + 1)
	c.hooks.OnNext()
}

func (c *Controller) enter(i int) {
	c.index = i
	if c.indexBinding != nil && c.indexBinding.Index() != i {
		c.indexBinding.SetIndex(i)
	}
	inst := c.pages[i]
	c.observer.OnPageEnter(i, inst)
	c.hooks.OnPageEnter(i, inst)
}

func (c *Controller) expand(at int) {
	parent := c.pages[at]
	if _, done := c.expanded[parent.Key]; done {
		return
	}
	c.expanded[parent.Key] = struct{}{}
	if len(parent.Page.Pages) == 0 {
		return
	}

	nested := make([]Instance, 0, len(parent.Page.Pages))
	for j, p := range parent.Page.Pages {
		nested = append(nested, c.instance(p, at+1+j))
	}

	out := make([]Instance, 0, len(c.pages)+len(nested))
	out = append(out, c.pages[:at+1]...)
	out = append(out, nested...)
	out = append(out, c.pages[at+1:]...)
	c.pages = out

	c.observer.OnExpand(parent, len(nested))
}

// Expanded reports whether the page instance with the given key already
// spliced its nested pages.
func (c *Controller) Expanded(key string) bool {
	_, ok := c.expanded[key]
	return ok
}
