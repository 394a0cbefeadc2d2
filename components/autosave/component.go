package autosave

import "net/http"

// Component is a small, extraction-friendly wrapper around the autosave
// script handler, its configuration, and routing helpers.
type Component struct {
	opts Options
}

// New constructs a new component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	return &Component{opts: opts}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns a net/http handler serving the browser script.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// Script returns the browser script rendered with the component options.
func (c *Component) Script() string {
	if c == nil {
		return Script()
	}
	return ScriptWithOptions(c.opts)
}

// FormAttrs returns the form-tag attribute fragment for endpoint using the
// component options.
func (c *Component) FormAttrs(endpoint string) string {
	if c == nil {
		return FormAttrs(endpoint)
	}
	opts := c.opts
	return FormAttrs(endpoint, func(o *Options) { *o = opts })
}

// MountPath returns where the script route lives under basePath, honoring
// the component's configured route path.
func (c *Component) MountPath(basePath string) string {
	if c == nil {
		return MountPath(basePath)
	}
	return mountPath(basePath, c.opts.RoutePath)
}

// IsBackgroundSave reports whether r carries this component's configured
// background-save marker header.
func (c *Component) IsBackgroundSave(r *http.Request) bool {
	if c == nil {
		return IsBackgroundSave(r)
	}
	if r == nil {
		return false
	}
	return r.Header.Get(c.opts.HeaderName) == c.opts.HeaderValue
}

// RegisterRoutes registers the script handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
