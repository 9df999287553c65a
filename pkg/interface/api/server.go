package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/WangYihang/web-crawler/pkg/application"
	"github.com/WangYihang/web-crawler/pkg/common"
	"go.uber.org/zap"
)

// CrawlerFactory returns a crawler with fresh state for one request
type CrawlerFactory func() *application.Crawler

// Server exposes crawls and pages over HTTP.
type Server struct {
	newCrawler CrawlerFactory
	limit      int
	metrics    http.Handler
	logger     *zap.Logger
	mux        *http.ServeMux
}

// NewServer wires handlers onto an HTTP mux. limit is both the default and
// the maximum visit limit of a request. metrics may be nil.
func NewServer(newCrawler CrawlerFactory, limit int, metrics http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		newCrawler: newCrawler,
		limit:      limit,
		metrics:    metrics,
		logger:     logger,
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP satisfies the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/crawl", s.handleCrawl)
	s.mux.HandleFunc("/api/pages/", s.handlePage)
	if s.metrics != nil {
		s.mux.Handle("/metrics", s.metrics)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   common.PV.Short(),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	query := r.URL.Query()
	roots := strings.TrimSpace(query.Get("roots"))
	if roots == "" {
		http.Error(w, "missing roots parameter", http.StatusBadRequest)
		return
	}

	limit := s.limit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, fmt.Sprintf("invalid limit %q", raw), http.StatusBadRequest)
			return
		}
		limit = min(parsed, s.limit)
	}

	crawler := s.newCrawler()
	crawler.SetRoots(roots)

	report, err := crawler.Crawl(r.Context(), limit)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("crawl request cancelled", zap.String("roots", roots))
			return
		}
		if report == nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.logger.Warn("crawl ended early", zap.String("roots", roots), zap.Error(err))
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	route := "/" + strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/pages/"), "/")
	payload := Dispatch(route, r.URL.Query())
	writeJSON(w, payload.Status, payload)
}

// ListenAndServe serves on addr until ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http api listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
