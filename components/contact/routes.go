package contact

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the full mount path of the contact page under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// RegisterRoutes registers every contact endpoint under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (Routes, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions registers the endpoints using a pre-built Options
// value. Callers are expected to pass an Options value produced by NewOptions
// (or equivalent) so defaults apply.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (Routes, error) {
	if mux == nil {
		return Routes{}, fmt.Errorf("contact: missing mux")
	}
	handlers, err := NewHandlers(basePath, opts)
	if err != nil {
		return Routes{}, err
	}
	handlers.register(mux)
	return handlers.Routes, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}

// assetsPath mounts a subtree, so the pattern always ends in a slash.
func assetsPath(basePath, routePath string) string {
	path := mountPath(basePath, routePath)
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}
