// Package jinhxecho provides Echo framework integration for jinhx.
//
//	r := jinhx.NewRenderer()
//	e := echo.New()
//	e.Use(jinhxecho.Middleware(r.Instances()))
//	e.GET("/", func(c echo.Context) error {
//	    return jinhxecho.RenderString(c, r, `<Page title="Home"/>`)
//	})
package jinhxecho

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/jinhx"
)

// Middleware opens an instance scope for each request. Components added
// with Renderer.Add while handling the request are visible only to it.
func Middleware(instances *jinhx.InstanceRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, end := instances.Scope(c.Request().Context())
			defer end()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// Render writes a templ component to the Echo response.
//
//	func handler(c echo.Context) error {
//	    return jinhxecho.Render(c, renderer.Templ(page))
//	}
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return component.Render(c.Request().Context(), c.Response())
}

// RenderComponent renders comp with r and writes it with status 200.
func RenderComponent(c echo.Context, r *jinhx.Renderer, comp jinhx.Component) error {
	html, err := r.Render(c.Request().Context(), comp)
	if err != nil {
		return HTTPError(err)
	}
	return c.HTML(http.StatusOK, html)
}

// RenderString renders markup with r and writes it with status 200.
func RenderString(c echo.Context, r *jinhx.Renderer, markup string) error {
	html, err := r.RenderString(c.Request().Context(), markup)
	if err != nil {
		return HTTPError(err)
	}
	return c.HTML(http.StatusOK, html)
}

// HTTPError converts a render error into an *echo.HTTPError carrying the
// matching status code. The original error is kept as the internal error.
func HTTPError(err error) error {
	code := http.StatusInternalServerError
	switch {
	case jinhx.IsNotFound(err):
		code = http.StatusNotFound
	case jinhx.IsValidation(err), jinhx.IsInvalidState(err):
		code = http.StatusBadRequest
	}
	return echo.NewHTTPError(code, http.StatusText(code)).SetInternal(err)
}
