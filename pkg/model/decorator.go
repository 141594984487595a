package model

// Decorator adjusts the page list before a flow starts, for example to
// localize titles or inject host-specific pages.
type Decorator interface {
	Decorate([]Page) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func([]Page) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(pages []Page) error {
	return fn(pages)
}
