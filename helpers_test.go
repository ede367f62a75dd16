package jinhx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
)

func TestWriteHTML(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if err := WriteHTML(rec, req, templ.Raw("<p>hi</p>")); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Body.String() != "<p>hi</p>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestMiddlewareScopesRequests(t *testing.T) {
	reg := NewInstanceRegistry(discardLogger())

	var seen context.Context
	h := Middleware(reg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !reg.InScope(r.Context()) {
			t.Error("handler should run inside a scope")
		}
		if reg.Len(r.Context()) != 0 {
			t.Error("scope should start empty")
		}
		reg.Register(r.Context(), "Button", "b", &Button{})
		seen = r.Context()
	}))

	for i := 0; i < 2; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	if reg.Len(seen) != 0 {
		t.Error("scope should be ended after the request")
	}
	if reg.Len(context.Background()) != 0 {
		t.Error("request registrations leaked into the global map")
	}
}

func TestRendererHandler(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"button.html": buttonTemplate,
		"bad.html":    `{{ .x `,
	})
	register[Button](env)

	tests := []struct {
		name   string
		markup string
		status int
	}{
		{"ok", `<Button id="b" text="Go"/>`, http.StatusOK},
		{"missing template", `<Missing/>`, http.StatusNotFound},
		{"invalid attributes", `<Button id="b"/>`, http.StatusBadRequest},
		{"template error", `<Bad/>`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TestRequest(env.renderer.Handler(tt.markup), "/")
			if !result.HasStatus(tt.status) {
				t.Errorf("status = %d, want %d (body %q)", result.StatusCode, tt.status, result.HTML)
			}
		})
	}

	result := TestRequest(env.renderer.Handler(`<Button id="b" text="Go"/>`), "/")
	if !result.HTMLContains(`<button id="b">Go</button>`) {
		t.Errorf("body = %q", result.HTML)
	}
	if !result.HasHeader("Content-Type", "text/html; charset=utf-8") {
		t.Errorf("Content-Type = %q", result.GetHeader("Content-Type"))
	}
	if env.instances.Len(context.Background()) != 0 {
		t.Error("handler renders should be scoped")
	}
}
