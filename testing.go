package jinhx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
)

// TestResult holds the result of a render for testing.
//
// Provides convenience methods for asserting on HTML content, collected
// assets, status codes and headers.
type TestResult struct {
	// HTML is the final output, with assets injected per the renderer's
	// inline settings.
	HTML string
	// Body is the output before asset injection.
	Body string
	CSS  []string
	JS   []string

	StatusCode int
	Headers    http.Header
}

// TestRender renders a component in a fresh instance scope and returns
// testable output.
//
//	result, err := jinhx.TestRender(ctx, renderer, &Button{Base: jinhx.Base{ID: "b"}, Text: "Go"})
//	if !result.HTMLContains(">Go<") {
//	    t.Fatal("missing label")
//	}
func TestRender(ctx context.Context, r *Renderer, c Component) (*TestResult, error) {
	ctx, end := r.instances.Scope(ctx)
	defer end()
	if err := r.Add(ctx, c); err != nil {
		return nil, err
	}
	out, err := r.RenderOutput(ctx, c)
	if err != nil {
		return nil, err
	}
	return newTestResult(ctx, r, out), nil
}

// TestRenderString renders markup in a fresh instance scope and returns
// testable output.
func TestRenderString(ctx context.Context, r *Renderer, markup string) (*TestResult, error) {
	ctx, end := r.instances.Scope(ctx)
	defer end()
	out, err := r.RenderStringOutput(ctx, markup)
	if err != nil {
		return nil, err
	}
	return newTestResult(ctx, r, out), nil
}

// TestRequest runs a GET request against h and captures the response.
func TestRequest(h http.Handler, url string) *TestResult {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return &TestResult{
		HTML:       rec.Body.String(),
		Body:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
}

func newTestResult(ctx context.Context, r *Renderer, out *Output) *TestResult {
	return &TestResult{
		HTML:       r.inject(ctx, out),
		Body:       out.HTML,
		CSS:        out.CSS,
		JS:         out.JS,
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HTMLContainsAny checks if the HTML contains any of the given substrings.
func (r *TestResult) HTMLContainsAny(substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(r.HTML, s) {
			return true
		}
	}
	return false
}

// HasCSS checks if a stylesheet with the given file name was collected.
func (r *TestResult) HasCSS(name string) bool {
	return hasAsset(r.CSS, name)
}

// HasJS checks if a script with the given file name was collected.
func (r *TestResult) HasJS(name string) bool {
	return hasAsset(r.JS, name)
}

func hasAsset(paths []string, name string) bool {
	for _, p := range paths {
		if filepath.Base(p) == name {
			return true
		}
	}
	return false
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}
