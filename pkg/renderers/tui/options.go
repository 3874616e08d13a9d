package tui

// OutputFormat controls how the edited form is serialized.
type OutputFormat string

const (
	// OutputFormatQuery emits the canonical search string ("?cuadricula&...").
	OutputFormatQuery OutputFormat = "query"
	// OutputFormatJSON emits the form state as JSON.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits one "key: value" line per entry.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes applied to info messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
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

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
