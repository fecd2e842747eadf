package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/jcdickinson/uiuadoc/internal/cas"
	"github.com/jcdickinson/uiuadoc/internal/config"
	"github.com/jcdickinson/uiuadoc/internal/db"
	"github.com/jcdickinson/uiuadoc/internal/generate"
	"github.com/jcdickinson/uiuadoc/internal/rpc"
	"github.com/jcdickinson/uiuadoc/internal/search"
)

const debounceDelay = 300 * time.Millisecond

// Server serves the generated site of one library, rebuilds it when the
// assembly dump changes and answers search queries over the index.
type Server struct {
	cfg        *config.Config
	db         *db.DB
	builder    *generate.Builder
	searcher   *search.Searcher
	httpServer *http.Server
	listener   net.Listener
	watcher    *fsnotify.Watcher

	rebuildGroup singleflight.Group
	metrics      *metrics

	mu        sync.Mutex
	lastBuild *rpc.BuildResult
	timer     *time.Timer
}

func NewServer(cfg *config.Config, database *db.DB, store *cas.Store) *Server {
	return &Server{
		cfg:      cfg,
		db:       database,
		builder:  generate.NewBuilder(cfg, search.NewIndex(database, store)),
		searcher: search.NewSearcher(database, store),
		metrics:  newMetrics(),
	}
}

// Handler returns the router: the JSON API under /api, build metrics under
// /metrics and the generated site everywhere else.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/search", s.handleSearch)
		r.Post("/get-doc", s.handleGetDoc)
		r.Post("/rebuild", s.handleRebuild)
	})
	r.Handle("/metrics", s.metrics.handler())
	r.Handle("/*", http.FileServer(http.Dir(s.cfg.Path(s.cfg.Site.OutputDir))))
	return r
}

// Start builds the site, starts watching the assembly dump when enabled and
// serves until Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if _, err := s.Rebuild(ctx); err != nil {
		slog.Warn("initial build failed", "error", err)
	}

	listener, err := net.Listen("tcp", s.cfg.Serve.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Serve.Addr, err)
	}
	s.listener = listener

	if s.cfg.Serve.Watch {
		if err := s.Watch(ctx); err != nil {
			listener.Close()
			return err
		}
	}

	s.httpServer = &http.Server{Handler: s.Handler()}
	slog.Info("preview server listening", "url", "http://"+listener.Addr().String(), "library", s.cfg.Site.Title)

	if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			slog.Warn("http shutdown error", "error", err)
			errs = append(errs, err)
		}
	}
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			slog.Warn("watcher close error", "error", err)
			errs = append(errs, err)
		}
	}
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		slog.Warn("db close error", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Rebuild regenerates the site. Concurrent calls share one build.
func (s *Server) Rebuild(ctx context.Context) (*rpc.BuildResult, error) {
	v, err, shared := s.rebuildGroup.Do("build", func() (interface{}, error) {
		start := time.Now()
		result, err := s.builder.Build(ctx)
		items := 0
		if result != nil {
			items = result.Items
		}
		s.metrics.observeBuild(time.Since(start), items, err)
		if err != nil {
			result = &rpc.BuildResult{Library: s.cfg.Site.Title, Error: err.Error()}
		}
		s.mu.Lock()
		s.lastBuild = result
		s.mu.Unlock()
		return result, err
	})
	if shared {
		slog.Debug("joined running rebuild")
	}
	return v.(*rpc.BuildResult), err
}

// LastBuild returns the result of the most recent rebuild, if any.
func (s *Server) LastBuild() *rpc.BuildResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBuild
}

// Watch rebuilds after the assembly dump changes. The directory holding the
// dump is watched rather than the file, since the compiler replaces it.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	assembly := filepath.Clean(s.cfg.Path(s.cfg.Source.Assembly))
	if err := watcher.Add(filepath.Dir(assembly)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(assembly), err)
	}
	s.watcher = watcher

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != assembly || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				slog.Debug("assembly changed", "path", ev.Name, "op", ev.Op.String())
				s.trigger(ctx)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("watcher error", "error", err)
			}
		}
	}()
	return nil
}

// trigger schedules a rebuild once writes to the dump have settled.
func (s *Server) trigger(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(debounceDelay, func() {
		slog.Info("assembly changed; rebuilding site")
		if _, err := s.Rebuild(ctx); err != nil {
			slog.Warn("rebuild failed", "error", err)
		}
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	libs, err := s.db.ListLibraries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := rpc.StatusResponse{LastBuild: s.LastBuild()}
	for _, l := range libs {
		ls := rpc.LibraryStatus{Name: l.Name, Dir: l.Dir}
		ls.Items, _ = s.db.CountItems(l.ID)
		if l.BuiltAt != nil {
			ls.BuiltAt = l.BuiltAt.Format(time.RFC3339)
		}
		status.Libraries = append(status.Libraries, ls)
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req rpc.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "missing query")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	results, err := s.searcher.Search(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rpc.SearchResponse{Results: results})
}

func (s *Server) handleGetDoc(w http.ResponseWriter, r *http.Request) {
	var req rpc.GetDocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.searcher.Get(req.Library, req.Path)
	if errors.Is(err, search.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rpc.GetDocResponse{Markdown: doc})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	// The build is shared with other callers, so a client going away must
	// not cancel it.
	result, err := s.Rebuild(context.WithoutCancel(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
