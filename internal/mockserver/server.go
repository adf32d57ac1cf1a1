package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/soyoung931014/wanted-preonboarding-tripbtoz/internal/jsondb"
	"go.uber.org/zap"
)

// Server exposes a JSON document as a REST API: array properties become
// collections, object properties become singular resources.
type Server struct {
	store    *jsondb.Store
	logger   *zap.Logger
	readOnly bool
	registry *prometheus.Registry
	mux      chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithReadOnly rejects mutating requests with 403.
func WithReadOnly(ro bool) Option {
	return func(s *Server) { s.readOnly = ro }
}

// WithMetrics records request metrics into reg and serves them at
// MetricsPath.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// New builds the router over store.
func New(store *jsondb.Store, options ...Option) *Server {
	s := &Server{
		store:  store,
		logger: zap.NewNop(),
		mux:    chi.NewRouter(),
	}
	for _, opt := range options {
		opt(s)
	}

	s.mux.Use(middleware.Recoverer)
	if s.registry != nil {
		m := NewMetrics("tripbtoz")
		s.registry.MustRegister(m.Collectors()...)
		s.mux.Use(m.instrument)
	}
	s.mux.Use(requestLogger(s.logger))
	s.mux.Use(cors)
	s.mux.Use(middleware.NoCache)
	if s.readOnly {
		s.mux.Use(readOnly)
	}
	s.mux.Use(bodyParser)

	s.mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, struct{}{})
	})
	s.mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	s.mux.Get("/", s.handleHome)
	s.mux.Get("/db", s.handleDB)
	if s.registry != nil {
		s.mux.Method(http.MethodGet, MetricsPath, metricsHandler(s.registry))
	}

	s.mux.Route("/{resource}", func(r chi.Router) {
		r.Get("/", s.handleResourceGet)
		r.Post("/", s.handleCreate)
		r.Put("/", s.handleObjectReplace)
		r.Patch("/", s.handleObjectPatch)

		r.Get("/{id}", s.handleItemGet)
		r.Put("/{id}", s.handleItemReplace)
		r.Patch("/{id}", s.handleItemPatch)
		r.Delete("/{id}", s.handleItemDelete)
	})

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("JSON Server is running", zap.String("addr", ln.Addr().String()), zap.String("db", s.store.Path()))
	return s.Serve(ctx, ln)
}

func (s *Server) handleDB(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleResourceGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")

	switch s.store.Kind(name) {
	case jsondb.KindCollection:
		s.handleList(w, r, name)
	case jsondb.KindObject:
		obj, err := s.store.Object(name)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, obj)
	case jsondb.KindValue:
		writeJSON(w, http.StatusOK, s.store.Snapshot()[name])
	default:
		writeJSON(w, http.StatusNotFound, struct{}{})
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request, name string) {
	q, err := jsondb.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.store.List(name)
	if err != nil {
		s.fail(w, err)
		return
	}

	res := q.Apply(items)
	if q.Paginated() {
		w.Header().Set("X-Total-Count", strconv.Itoa(res.Total))
	}
	if q.Page > 0 {
		if link := linkHeader(r, res); link != "" {
			w.Header().Set("Link", link)
		}
	}
	writeJSON(w, http.StatusOK, res.Items)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	it, err := s.store.Insert(name, bodyFrom(r.Context()))
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/%s/%v", name, it["id"]))
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleObjectReplace(w http.ResponseWriter, r *http.Request) {
	obj, err := s.store.ReplaceObject(chi.URLParam(r, "resource"), bodyFrom(r.Context()))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, obj)
}

func (s *Server) handleObjectPatch(w http.ResponseWriter, r *http.Request) {
	obj, err := s.store.PatchObject(chi.URLParam(r, "resource"), bodyFrom(r.Context()))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, obj)
}

func (s *Server) handleItemGet(w http.ResponseWriter, r *http.Request) {
	it, err := s.store.Get(chi.URLParam(r, "resource"), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleItemReplace(w http.ResponseWriter, r *http.Request) {
	it, err := s.store.Replace(chi.URLParam(r, "resource"), chi.URLParam(r, "id"), bodyFrom(r.Context()))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleItemPatch(w http.ResponseWriter, r *http.Request) {
	it, err := s.store.Patch(chi.URLParam(r, "resource"), chi.URLParam(r, "id"), bodyFrom(r.Context()))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleItemDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "resource"), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// fail maps store errors to status codes. Anything unexpected is logged and
// reported as a 500 without details.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jsondb.ErrNotFound),
		errors.Is(err, jsondb.ErrNotCollection),
		errors.Is(err, jsondb.ErrNotObject):
		writeJSON(w, http.StatusNotFound, struct{}{})
	case errors.Is(err, jsondb.ErrDuplicateID):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, jsondb.ErrInvalidItem):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("internal_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func linkHeader(r *http.Request, res jsondb.Result) string {
	last := res.LastPage()
	page := func(n int) string {
		q := r.URL.Query()
		q.Set("_page", strconv.Itoa(n))
		q.Set("_limit", strconv.Itoa(res.Limit))
		return fmt.Sprintf("<http://%s%s?%s>", r.Host, r.URL.Path, q.Encode())
	}

	links := []string{page(1) + `; rel="first"`}
	if res.Page > 1 {
		links = append(links, page(res.Page-1)+`; rel="prev"`)
	}
	if res.Page < last {
		links = append(links, page(res.Page+1)+`; rel="next"`)
	}
	links = append(links, page(last)+`; rel="last"`)

	out := links[0]
	for _, l := range links[1:] {
		out += ", " + l
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
