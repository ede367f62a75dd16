package jinhx

import (
	"net/http"

	"github.com/a-h/templ"
)

// WriteHTML writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    jinhx.WriteHTML(w, r, renderer.Templ(page))
//	}
func WriteHTML(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// Middleware opens an instance scope for each request, so components
// registered while handling one request are invisible to every other.
//
//	mux := http.NewServeMux()
//	http.ListenAndServe(":8080", jinhx.Middleware(jinhx.DefaultInstances)(mux))
func Middleware(instances *InstanceRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, end := instances.Scope(r.Context())
			defer end()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Handler serves markup rendered by r. Each request renders in its own
// scope; failures are reported with HTTP status codes.
func (r *Renderer) Handler(markup string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx, end := r.instances.Scope(req.Context())
		defer end()
		html, err := r.RenderString(ctx, markup)
		if err != nil {
			r.Error(w, req, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	})
}

// Error writes err as an HTTP error. Missing templates are 404s and
// invalid state tokens 400s; everything else is logged and reported as a
// 500 without details.
func (r *Renderer) Error(w http.ResponseWriter, req *http.Request, err error) {
	switch {
	case IsNotFound(err):
		http.Error(w, "Not found", http.StatusNotFound)
	case IsValidation(err), IsInvalidState(err):
		http.Error(w, "Bad request", http.StatusBadRequest)
	default:
		loggerFrom(req.Context(), r.logger).Error("jinhx: render failed",
			"path", req.URL.Path, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
