// Package page aggregates per-field error flags into the single continue
// signal a page reports to the flow controller.
package page

import "sort"

// ContinueFunc receives the recomputed continue signal.
type ContinueFunc func(canContinue bool)

// Aggregator tracks which fields of a page are currently in error. The page
// may continue iff no field is in error. It is not safe for concurrent use.
type Aggregator struct {
	errors   map[string]struct{}
	active   bool
	notify   ContinueFunc
	lastSent *bool
}

// NewAggregator returns an aggregator that pushes its signal to notify while
// the page is active.
func NewAggregator(notify ContinueFunc) *Aggregator {
	if notify == nil {
		notify = func(bool) {}
	}
	return &Aggregator{
		errors: make(map[string]struct{}),
		notify: notify,
	}
}

// Report records the error flag of a field.
func (a *Aggregator) Report(key string, hasError bool) {
	if a == nil {
		return
	}
	if hasError {
		a.errors[key] = struct{}{}
	} else {
		delete(a.errors, key)
	}
	a.push()
}

// Remove drops a field from the set, for fields that unmount.
func (a *Aggregator) Remove(key string) {
	if a == nil {
		return
	}
	delete(a.errors, key)
	a.push()
}

// CanContinue reports whether no field is in error.
func (a *Aggregator) CanContinue() bool {
	if a == nil {
		return true
	}
	return len(a.errors) == 0
}

// Failing lists the keys in error, sorted.
func (a *Aggregator) Failing() []string {
	if a == nil {
		return nil
	}
	keys := make([]string, 0, len(a.errors))
	for key := range a.errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SetActive marks whether this page is the one on screen. Activating the
// page pushes the current signal immediately.
func (a *Aggregator) SetActive(active bool) {
	if a == nil {
		return
	}
	a.active = active
	a.lastSent = nil
	a.push()
}

// Active reports whether the page is on screen.
func (a *Aggregator) Active() bool {
	return a != nil && a.active
}

func (a *Aggregator) push() {
	if !a.active {
		return
	}
	value := a.CanContinue()
	if a.lastSent != nil && *a.lastSent == value {
		return
	}
	a.lastSent = &value
	a.notify(value)
}
