package tui

// Theme captures optional prefixes applied to printed messages.
type Theme struct {
	TitlePrefix string
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme is used when no theme is configured.
func DefaultTheme() Theme {
	return Theme{TitlePrefix: "== ", InfoPrefix: "", ErrorPrefix: "! "}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithProgress toggles the "step i of n" line under page titles.
func WithProgress(enabled bool) Option {
	return func(r *Renderer) {
		r.progress = enabled
	}
}
