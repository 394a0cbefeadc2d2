package autosave

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// *http.ServeMux satisfies it directly. Routers whose Handle returns a
// value (gorilla/mux and friends) can mount the Handler themselves with
// MountPath.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath reports where the script route ends up under basePath, so
// routers that register handlers themselves know the pattern to use.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes mounts the script handler under basePath on mux and
// returns the registered pattern.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions is RegisterRoutes with a pre-built Options
// value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("autosave: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	pattern := mountPath(basePath, opts.RoutePath)
	mux.Handle(pattern, HandlerWithOptions(opts))
	return pattern, nil
}

// mountPath joins base and route into a rooted pattern. The route always
// starts with a slash; the base contributes its interior segments only.
func mountPath(basePath, routePath string) string {
	route := strings.TrimSpace(routePath)
	if route == "" {
		route = "/"
	} else if route[0] != '/' {
		route = "/" + route
	}

	base := strings.Trim(strings.TrimSpace(basePath), "/")
	if base == "" {
		return route
	}
	return "/" + base + route
}
