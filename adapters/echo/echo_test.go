package jinhxecho

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pthm/jinhx"
)

type Greeting struct {
	jinhx.Base
	Name string `validate:"required"`
}

func newRenderer(t *testing.T) *jinhx.Renderer {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"greeting.html": `<p id="{{.id}}">Hello {{.name}}</p>`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	classes := jinhx.NewClassRegistry(nil)
	jinhx.RegisterIn[Greeting](classes, jinhx.WithDir(dir))
	return jinhx.NewRenderer(
		jinhx.WithRoot(dir),
		jinhx.WithClasses(classes),
		jinhx.WithInstances(jinhx.NewInstanceRegistry(nil)),
	)
}

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRenderString(t *testing.T) {
	r := newRenderer(t)
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return RenderString(c, r, `<Greeting id="g" name="Ada"/>`)
	})

	rec := serve(e, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, `<p id="g">Hello Ada</p>`) {
		t.Errorf("body = %q", got)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderComponent(t *testing.T) {
	r := newRenderer(t)
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return RenderComponent(c, r, &Greeting{Base: jinhx.Base{ID: "x"}, Name: "Lin"})
	})

	rec := serve(e, "/")
	if !strings.Contains(rec.Body.String(), "Hello Lin") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRenderTempl(t *testing.T) {
	r := newRenderer(t)
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return Render(c, r.TemplString(`<Greeting id="t" name="Kai"/>`))
	})

	rec := serve(e, "/")
	if !strings.Contains(rec.Body.String(), "Hello Kai") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestErrorStatus(t *testing.T) {
	r := newRenderer(t)
	e := echo.New()
	e.GET("/missing", func(c echo.Context) error {
		return RenderString(c, r, `<Nowhere/>`)
	})
	e.GET("/invalid", func(c echo.Context) error {
		return RenderString(c, r, `<Greeting id="g"/>`)
	})

	if rec := serve(e, "/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("missing template: status = %d, want 404", rec.Code)
	}
	if rec := serve(e, "/invalid"); rec.Code != http.StatusBadRequest {
		t.Errorf("validation failure: status = %d, want 400", rec.Code)
	}
}

func TestHTTPErrorKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := HTTPError(cause)

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("HTTPError returned %T", err)
	}
	if he.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", he.Code)
	}
	if !errors.Is(err, cause) {
		t.Error("cause lost")
	}
}

func TestMiddlewareScopesInstances(t *testing.T) {
	r := newRenderer(t)
	e := echo.New()
	e.Use(Middleware(r.Instances()))
	e.GET("/add", func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := r.Add(ctx, &Greeting{Base: jinhx.Base{ID: "me"}, Name: "Scoped"}); err != nil {
			return err
		}
		return RenderString(c, r, `<Greeting id="me"/>`)
	})

	rec := serve(e, "/add")
	if !strings.Contains(rec.Body.String(), "Hello Scoped") {
		t.Fatalf("body = %q", rec.Body.String())
	}

	if _, ok := r.Instances().Get(context.Background(), "Greeting", "me"); ok {
		t.Error("instance leaked out of the request scope")
	}
}
