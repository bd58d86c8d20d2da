package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pthm/rigor"
	"github.com/pthm/rigor/internal/demo"
	"github.com/pthm/rigor/lib/dom/memdom"
	"go.uber.org/zap"
)

// server serves the demo components. Markup renders use a renderer without
// pub/sub; the live document uses one with it.
type server struct {
	markup   *rigor.Renderer
	live     *liveSession
	emit     rigor.EmitFunc
	registry *prometheus.Registry
	logger   *zap.Logger
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/render/{component}", s.handleRender)
	r.Get("/live", s.handleLive)
	r.Post("/live/click", s.handleLiveClick)
	r.Post("/emit/{topic}", s.handleEmit)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	body := s.markup.Component(rigor.H(demo.Page, rigor.Props{"title": "Rigor"},
		rigor.H("p", rigor.H("a", rigor.Props{"href": "/live"}, "Live demo"))))
	s.writePage(w, r, "Rigor", body)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "component")
	comp, ok := demo.Lookup(name)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown component %q", name), http.StatusNotFound)
		return
	}

	props := make(rigor.Props)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			props[k] = v[0]
		}
	}

	html, err := s.markup.RenderToString(rigor.H(comp, props))
	if err != nil {
		status := http.StatusInternalServerError
		if rigor.IsMissingCapability(err) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Warn("render failed", zap.String("component", name), zap.Error(err))
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="live">`+s.live.html()+`</div>`)
		return err
	})
	s.writePage(w, r, "Rigor live", body)
}

// handleLiveClick dispatches a click on the first element carrying the
// class given by the "class" form value and returns the updated markup.
func (s *server) handleLiveClick(w http.ResponseWriter, r *http.Request) {
	class := r.FormValue("class")
	if class == "" {
		class = "counter"
	}
	html, err := s.live.click(class)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *server) handleEmit(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	s.emit(topic, r.FormValue("data"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) writePage(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page(title, body).Render(r.Context(), w); err != nil {
		s.logger.Error("page render failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// page is the document layout around body.
func page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>`+
			templ.EscapeString(title)+`</title></head><body>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// liveSession is one in-memory document shared by every request. Clicks
// are serialised; the document is not safe for concurrent dispatch.
type liveSession struct {
	mu  sync.Mutex
	doc *memdom.Document
}

func newLiveSession(r *rigor.Renderer) (*liveSession, error) {
	doc := memdom.NewDocument()
	node := rigor.Frag(rigor.H(demo.Counter, rigor.Props{"label": "Clicked"}), rigor.H(demo.Greeter))
	if err := r.Mount(node, doc.Body()); err != nil {
		return nil, fmt.Errorf("mount live demo: %w", err)
	}
	return &liveSession{doc: doc}, nil
}

func (l *liveSession) html() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Body().InnerHTML()
}

func (l *liveSession) click(class string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	el := findByClass(l.doc.Body(), class)
	if el == nil {
		return "", fmt.Errorf("no element with class %q", class)
	}
	if err := el.Click(); err != nil {
		return "", err
	}
	return l.doc.Body().InnerHTML(), nil
}

func findByClass(el *memdom.Element, class string) *memdom.Element {
	for _, c := range el.Children() {
		for _, name := range c.Classes() {
			if name == class {
				return c
			}
		}
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}
