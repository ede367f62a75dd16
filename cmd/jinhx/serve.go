package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pthm/jinhx"
	"github.com/pthm/jinhx/lib/finder"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr  string
		pages string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered pages over HTTP",
		Long: `Serve renders the page file matching each request path: "/" maps to
index, "/docs/intro" to docs/intro with each configured extension tried in
turn. Pages are read from --pages, or the template root when unset.
Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())

			r, err := flags.renderer(jinhx.WithMetrics(reg))
			if err != nil {
				return err
			}
			if pages == "" {
				pages = r.Root()
			}
			logger := flags.logger()

			ctx := cmd.Context()
			if watch {
				go func() {
					err := finder.Watch(ctx, r.Root(), func(ev fsnotify.Event) {
						r.Reset()
						logger.Info("template change", "file", ev.Name, "op", ev.Op.String())
					})
					if err != nil {
						warn("watch stopped: %v", err)
					}
				}()
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(r, pages, reg),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdown)
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "serving %s on %s\n", pages, addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&pages, "pages", "", "page directory (defaults to the template root)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload templates when files change")

	return cmd
}

func newRouter(r *jinhx.Renderer, pages string, reg *prometheus.Registry) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(jinhx.Middleware(r.Instances()))

	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		file, ok := pageFile(pages, req.URL.Path)
		if !ok {
			http.NotFound(w, req)
			return
		}
		markup, err := os.ReadFile(file)
		if err != nil {
			r.Error(w, req, err)
			return
		}
		html, err := r.RenderString(req.Context(), string(markup))
		if err != nil {
			r.Error(w, req, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	})

	return router
}

// pageFile maps a request path to a page file under dir.
func pageFile(dir, urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" || strings.HasSuffix(urlPath, "/") {
		name = path.Join(name, "index")
	}
	base := filepath.Join(dir, filepath.FromSlash(name))
	if filepath.Ext(base) != "" {
		if info, err := os.Stat(base); err == nil && !info.IsDir() {
			return base, true
		}
	}
	for _, ext := range jinhx.Extensions() {
		if info, err := os.Stat(base + ext); err == nil && !info.IsDir() {
			return base + ext, true
		}
	}
	return "", false
}
