package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/filmdeck/internal/film"
	"github.com/kalambet/filmdeck/internal/listfetch"
	"github.com/kalambet/filmdeck/internal/screen"
)

// FilmsScreen is the part of screen.FilmsScreen the API drives.
type FilmsScreen interface {
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	State() listfetch.State[film.Film]
}

// StateResponse is the JSON form of a films state snapshot.
type StateResponse struct {
	Items      []film.Film `json:"items"`
	Loading    bool        `json:"loading"`
	Refreshing bool        `json:"refreshing"`
	Error      string      `json:"error,omitempty"`
	Generation uint64      `json:"generation"`
	LoadedAt   *time.Time  `json:"loaded_at,omitempty"`
}

// NewStateResponse converts a snapshot.
func NewStateResponse(st listfetch.State[film.Film]) StateResponse {
	resp := StateResponse{
		Items:      st.Items,
		Loading:    st.Loading,
		Refreshing: st.Refreshing,
		Error:      st.Err,
		Generation: st.Generation,
	}
	if resp.Items == nil {
		resp.Items = []film.Film{}
	}
	if !st.LoadedAt.IsZero() {
		t := st.LoadedAt.UTC()
		resp.LoadedAt = &t
	}
	return resp
}

// NewFilmsHandler returns the HTTP boundary for the films screen. When token
// is non-empty every route except /health requires it as a bearer token.
func NewFilmsHandler(films FilmsScreen, token string) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		if token != "" {
			r.Use(BearerAuth(token))
		}
		r.Get("/films", handleState(films))
		r.Post("/films/load", handleTrigger(films, "load", films.Load))
		r.Post("/films/refresh", handleTrigger(films, "refresh", films.Refresh))
		r.Get("/films/{query}", handleDetails(films))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleState(films FilmsScreen) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, NewStateResponse(films.State()))
	}
}

// handleTrigger runs a fetch trigger to completion. The fetch is detached
// from the request so a disconnecting client cannot fail the shared state.
// Fetch failures are part of the returned state, not an HTTP error.
func handleTrigger(films FilmsScreen, name string, trigger func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := trigger(context.WithoutCancel(r.Context()))
		if err != nil && !errors.Is(err, listfetch.ErrSuperseded) {
			slog.Debug("trigger finished with error", "trigger", name, "error", err)
		}
		writeJSON(w, NewStateResponse(films.State()))
	}
}

func handleDetails(films FilmsScreen) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := chi.URLParam(r, "query")
		if q, err := url.PathUnescape(query); err == nil {
			query = q
		}
		from := r.URL.Query().Get("from")

		f, err := film.Find(films.State().Items, query)
		if errors.Is(err, film.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "film %q not found", query)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to look up film: %v", err)
			return
		}

		writeJSON(w, screen.NewDetails(screen.Selection{Film: &f, From: from}))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
