package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"animeta/internal/aggregator"
	"animeta/internal/catalog"
	"animeta/internal/genres"
	"animeta/internal/logging"
	"animeta/internal/services"
	"animeta/internal/textutil"
)

// Catalog is the facade surface the API exposes.
type Catalog interface {
	TotalCount(ctx context.Context) int
	RefreshTotalCount(ctx context.Context) int
	Search(ctx context.Context, query aggregator.SearchQuery) []catalog.Media
	Trending(ctx context.Context, page, perPage int) []catalog.Media
	Seasonal(ctx context.Context, page, perPage int) []catalog.Media
	TopRated(ctx context.Context, page, perPage int) []catalog.Media
	DetailByTitle(ctx context.Context, title string) (catalog.Media, bool)
	EpisodeCount(ctx context.Context, secondaryID int) (int, bool)
}

var _ Catalog = (*aggregator.Service)(nil)

const requestIDHeader = "X-Request-ID"

// Server is the HTTP front of the facade.
type Server struct {
	bind    string
	catalog Catalog
	logger  *slog.Logger

	router   *mux.Router
	listener net.Listener
	server   *http.Server
}

// New builds a server bound to bind. Routes are registered immediately so
// Handler can be used without listening.
func New(bind string, cat Catalog, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		bind:    strings.TrimSpace(bind),
		catalog: cat,
		logger:  logging.NewComponentLogger(logger, "httpapi"),
		router:  mux.NewRouter(),
	}

	s.router.Use(s.requestContext)
	api := s.router.PathPrefix("/api").Methods(http.MethodGet).Subrouter()
	api.HandleFunc("/count", s.handleCount)
	api.HandleFunc("/search", s.handleSearch)
	api.HandleFunc("/detail", s.handleDetail)
	api.HandleFunc("/trending", s.feedHandler(cat.Trending, aggregator.DefaultFeedPerPage))
	api.HandleFunc("/seasonal", s.feedHandler(cat.Seasonal, aggregator.DefaultFeedPerPage))
	api.HandleFunc("/top", s.feedHandler(cat.TopRated, aggregator.DefaultTopPerPage))
	api.HandleFunc("/episodes/{id:[0-9]+}", s.handleEpisodes)
	api.HandleFunc("/genres", s.handleGenres)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})

	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr reports the listening address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Start listens on the bind address and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		return services.Wrap(services.ErrConfiguration, "httpapi", "start", "server bind address is empty", nil)
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := services.WithRequestID(r.Context(), id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.WithContext(ctx, s.logger).Debug("api request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	var total int
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		total = s.catalog.RefreshTotalCount(r.Context())
	} else {
		total = s.catalog.TotalCount(r.Context())
	}
	s.writeJSON(w, http.StatusOK, CountResponse{Total: total, Display: textutil.FormatCount(total)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page, err := intParam(values.Get("page"), 1)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	query := aggregator.SearchQuery{
		Text:  values.Get("q"),
		Genre: values.Get("genre"),
		Sort:  aggregator.SortMode(strings.ToLower(strings.TrimSpace(values.Get("sort")))),
		Page:  page,
	}
	resolved := query.Resolve()
	s.writeJSON(w, http.StatusOK, ListResponse{Items: s.catalog.Search(r.Context(), query), Page: resolved.Page})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		s.writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	media, ok := s.catalog.DetailByTitle(r.Context(), title)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no catalog entry matches title")
		return
	}
	s.writeJSON(w, http.StatusOK, DetailResponse{Item: media})
}

func (s *Server) feedHandler(feed func(context.Context, int, int) []catalog.Media, defaultPerPage int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := r.URL.Query()
		page, err := intParam(values.Get("page"), 1)
		if err != nil || page < 1 {
			s.writeError(w, http.StatusBadRequest, "invalid page")
			return
		}
		perPage, err := intParam(values.Get("per_page"), defaultPerPage)
		if err != nil || perPage < 1 || perPage > 50 {
			s.writeError(w, http.StatusBadRequest, "per_page must be between 1 and 50")
			return
		}
		s.writeJSON(w, http.StatusOK, ListResponse{Items: feed(r.Context(), page, perPage), Page: page})
	}
}

func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	count, known := s.catalog.EpisodeCount(r.Context(), id)
	s.writeJSON(w, http.StatusOK, EpisodesResponse{ID: id, Episodes: count, Known: known})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GenresResponse{Genres: genres.Names()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func intParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
