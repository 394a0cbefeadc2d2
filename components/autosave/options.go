package autosave

import (
	"net/http"
	"time"
)

// DefaultQuietPeriod is the inactivity window that must elapse after the
// last qualifying event before a save fires.
const DefaultQuietPeriod = 800 * time.Millisecond

type Options struct {
	// RoutePath is where the browser script is mounted.
	RoutePath string
	// MarkerAttr selects the forms the script attaches to.
	MarkerAttr string
	// EndpointAttr declares the save endpoint on a form. A form without it
	// is left alone entirely.
	EndpointAttr string
	// HeaderName/HeaderValue mark a request as a background save.
	HeaderName  string
	HeaderValue string
	// QuietPeriod is the debounce delay.
	QuietPeriod time.Duration
	// Client is used by Trigger for outgoing saves.
	Client *http.Client
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    "/assets/autosave.js",
		MarkerAttr:   "data-autosave",
		EndpointAttr: "data-save-endpoint",
		HeaderName:   "X-Requested-With",
		HeaderValue:  "autosave",
		QuietPeriod:  DefaultQuietPeriod,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/assets/autosave.js"
	}
	if opts.MarkerAttr == "" {
		opts.MarkerAttr = "data-autosave"
	}
	if opts.EndpointAttr == "" {
		opts.EndpointAttr = "data-save-endpoint"
	}
	if opts.HeaderName == "" {
		opts.HeaderName = "X-Requested-With"
	}
	if opts.HeaderValue == "" {
		opts.HeaderValue = "autosave"
	}
	if opts.QuietPeriod <= 0 {
		opts.QuietPeriod = DefaultQuietPeriod
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithMarkerAttr(attr string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MarkerAttr = attr
	}
}

func WithEndpointAttr(attr string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EndpointAttr = attr
	}
}

func WithHeader(name, value string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HeaderName = name
		o.HeaderValue = value
	}
}

func WithQuietPeriod(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.QuietPeriod = d
	}
}

func WithClient(client *http.Client) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Client = client
	}
}

// IsBackgroundSave reports whether r carries the background-save marker,
// so handlers can skip the redirect a navigation submission would get.
func IsBackgroundSave(r *http.Request, fns ...OptionFn) bool {
	if r == nil {
		return false
	}
	opts := NewOptions(fns...)
	return r.Header.Get(opts.HeaderName) == opts.HeaderValue
}
