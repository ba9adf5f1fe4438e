package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"weather-widget/datasource"
	"weather-widget/render"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// SessionCookie carries the visitor's session id
	SessionCookie = "weather_session"

	// EmptyCityNotice is shown when a search is submitted without a city
	EmptyCityNotice = "都市を入力してください"

	errorPrefix = "エラー: "
)

// Server represents the widget HTTP server
type Server struct {
	store    *ForecastStore
	source   datasource.ForecastSource
	renderer *render.Renderer
	mux      *http.ServeMux
	server   *http.Server
}

// NewServer creates a new widget server. staticDir holds the background
// images under images/.
func NewServer(source datasource.ForecastSource, store *ForecastStore, renderer *render.Renderer, port int, staticDir string) *Server {
	mux := http.NewServeMux()

	server := &Server{
		store:    store,
		source:   source,
		renderer: renderer,
		mux:      mux,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	// Widget pages
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("/search", server.handleSearch)
	mux.HandleFunc("GET /day", server.handleDay)

	// JSON API
	mux.HandleFunc("GET /api/forecast", server.handleGetForecast)
	mux.HandleFunc("GET /api/health", server.handleHealthCheck)

	// Background images and stylesheet
	mux.Handle("GET /images/", http.StripPrefix("/images/", http.FileServer(http.Dir(filepath.Join(staticDir, "images")))))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	return server
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start begins the API server
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Str("source", s.source.Name()).Msg("Starting widget server")
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleIndex renders the widget with the session's current state
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	state, _ := s.store.Get(id)
	s.renderPage(w, state, "", http.StatusOK)
}

// handleSearch reads the city field and fetches a new forecast for the session
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	id := s.sessionID(w, r)
	city := strings.TrimSpace(r.FormValue("city"))

	if city == "" {
		state, _ := s.store.Get(id)
		s.renderPage(w, state, EmptyCityNotice, http.StatusBadRequest)
		return
	}

	gen := s.store.Begin(id, city)
	logger := log.With().Str("session", id).Str("city", city).Uint64("generation", gen).Logger()

	forecast, err := s.source.FetchForecast(r.Context(), city)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch forecast")
		if !s.store.Fail(id, gen, DisplayError(err)) {
			logger.Debug().Msg("Dropped stale search failure")
		}
	} else {
		if s.store.Commit(id, gen, forecast) {
			logger.Info().Str("location", forecast.Location).Int("days", len(forecast.Days)).Msg("Updated forecast")
		} else {
			logger.Debug().Msg("Dropped stale search result")
		}
	}

	state, _ := s.store.Get(id)
	s.renderPage(w, state, "", http.StatusOK)
}

// handleDay switches the displayed day using the forecast already held
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)

	index, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil {
		index = 0
	}

	state, ok := s.store.Select(id, index)
	if !ok {
		log.Debug().Str("session", id).Int("day", index).Msg("Ignoring day outside held forecast")
	}
	s.renderPage(w, state, "", http.StatusOK)
}

// handleGetForecast returns the forecast for a city as JSON without touching session state
func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": EmptyCityNotice})
		return
	}

	forecast, err := s.source.FetchForecast(r.Context(), city)
	if err != nil {
		log.Error().Err(err).Str("city", city).Msg("Failed to fetch forecast")
		writeJSON(w, errorStatus(err), map[string]string{"error": userMessage(err)})
		return
	}

	response := map[string]interface{}{
		"city":      city,
		"location":  forecast.Location,
		"days":      forecast.Days,
		"timestamp": time.Now(),
	}
	if len(forecast.Days) > 0 {
		response["background"] = render.SelectBackground(forecast.Days[0].Condition.Text)
	}

	writeJSON(w, http.StatusOK, response)
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) renderPage(w http.ResponseWriter, state ForecastState, notice string, status int) {
	var buf bytes.Buffer
	err := s.renderer.Page(&buf, render.View{
		City:     state.City,
		Days:     state.Days,
		Selected: state.Selected,
		Message:  state.Message,
		Notice:   notice,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Debug().Err(err).Msg("Response write error")
	}
}

// sessionID returns the visitor's session id, issuing a cookie for new visitors
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// DisplayError formats a fetch failure for the display area
func DisplayError(err error) string {
	return errorPrefix + userMessage(err)
}

func userMessage(err error) string {
	var perr *datasource.ProviderError
	if errors.As(err, &perr) {
		return perr.Message
	}
	return err.Error()
}

func errorStatus(err error) int {
	var perr *datasource.ProviderError
	if errors.As(err, &perr) && perr.StatusCode >= 400 && perr.StatusCode < 500 {
		return perr.StatusCode
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Response write error")
	}
}
