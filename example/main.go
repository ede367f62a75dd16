package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/pthm/jinhx"
	"github.com/pthm/jinhx/example/components"
)

const page = `<Page title="Todos">
  <Sidebar id="sidebar"/>
  <TodoList id="todos"/>
  <AddTodo/>
</Page>`

func main() {
	store := NewStore()

	classes := jinhx.NewClassRegistry(nil)
	components.Init(store, classes)

	r := jinhx.NewRenderer(
		jinhx.WithRoot("components"),
		jinhx.WithClasses(classes),
		jinhx.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		status := req.URL.Query().Get("status")

		// Tags in the page pick these instances up by id.
		if err := r.Add(ctx, &components.TodoList{Base: jinhx.Base{ID: "todos"}, Filter: status}); err != nil {
			r.Error(w, req, err)
			return
		}
		if err := r.Add(ctx, &components.Sidebar{Base: jinhx.Base{ID: "sidebar"}, Active: status}); err != nil {
			r.Error(w, req, err)
			return
		}
		jinhx.WriteHTML(w, req, r.TemplString(page))
	})
	mux.HandleFunc("POST /todos", func(w http.ResponseWriter, req *http.Request) {
		if title := strings.TrimSpace(req.FormValue("title")); title != "" {
			store.Add(title)
		}
		http.Redirect(w, req, "/", http.StatusSeeOther)
	})
	mux.HandleFunc("POST /todos/{id}/toggle", func(w http.ResponseWriter, req *http.Request) {
		if !store.Toggle(req.PathValue("id")) {
			http.NotFound(w, req)
			return
		}
		back := req.Header.Get("Referer")
		if back == "" {
			back = "/"
		}
		http.Redirect(w, req, back, http.StatusSeeOther)
	})

	addr := ":8080"
	fmt.Printf("Starting server at http://localhost%s\n", addr)
	if err := http.ListenAndServe(addr, jinhx.Middleware(r.Instances())(mux)); err != nil {
		log.Fatal(err)
	}
}
