// Package api serves stored implied volatilities over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/patrickmn/go-cache"

	"github.com/contactkeval/option-iv/internal/instrument"
	"github.com/contactkeval/option-iv/internal/logger"
	"github.com/contactkeval/option-iv/internal/store"
)

// Store is the read side of the persistence layer.
type Store interface {
	ExecutionDays(ctx context.Context) ([]string, error)
	ExpirationDates(ctx context.Context, executionDate string) ([]string, error)
	IVs(ctx context.Context, f store.IVFilter) ([]store.IVRow, error)
	Smile(ctx context.Context, executionDate, expirationDate string, kind instrument.OptionKind) ([]store.SmilePoint, error)
}

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

// Server holds the handlers' dependencies.
type Server struct {
	store Store
	dates *cache.Cache
}

// NewServer returns a Server whose date listings are cached for ttl.
func NewServer(s Store, ttl time.Duration) *Server {
	return &Server{store: s, dates: cache.New(ttl, 2*ttl)}
}

// Router wires every route.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/execution-days", s.executionDays).Methods(http.MethodGet)
	r.HandleFunc("/expiration_dates", s.expirationDates).Methods(http.MethodGet)
	r.HandleFunc("/ivs", s.ivs).Methods(http.MethodGet)
	r.HandleFunc("/smile", s.smile).Methods(http.MethodGet)
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) executionDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.cachedDates("execution-days", func() ([]string, error) {
		return s.store.ExecutionDays(r.Context())
	})
	if err != nil {
		setErrorResponse("store", http.StatusInternalServerError, err, w)
		return
	}
	setResponse(days, w)
}

func (s *Server) expirationDates(w http.ResponseWriter, r *http.Request) {
	execDate := r.URL.Query().Get("execution_date")
	if execDate == "" {
		setErrorResponse("request", http.StatusBadRequest, fmt.Errorf("execution_date is required"), w)
		return
	}

	dates, err := s.cachedDates("expirations:"+execDate, func() ([]string, error) {
		return s.store.ExpirationDates(r.Context(), execDate)
	})
	if err != nil {
		setErrorResponse("store", http.StatusInternalServerError, err, w)
		return
	}
	setResponse(dates, w)
}

func (s *Server) ivs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.IVFilter{
		ExecutionDate:  q.Get("execution_date"),
		ExpirationDate: q.Get("expiration_date"),
		Kind:           q.Get("type_cp"),
	}
	if f.ExecutionDate == "" {
		setErrorResponse("request", http.StatusBadRequest, fmt.Errorf("execution_date is required"), w)
		return
	}
	if tText := q.Get("T"); tText != "" {
		T, err := strconv.ParseFloat(tText, 64)
		if err != nil {
			setErrorResponse("request", http.StatusBadRequest, fmt.Errorf("invalid T %q: %w", tText, err), w)
			return
		}
		f.T = &T
	}

	rows, err := s.store.IVs(r.Context(), f)
	if err != nil {
		setErrorResponse("store", http.StatusInternalServerError, err, w)
		return
	}
	setResponse(rows, w)
}

func (s *Server) smile(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	execDate, expDate := q.Get("execution_date"), q.Get("expiration_date")
	if execDate == "" || expDate == "" {
		setErrorResponse("request", http.StatusBadRequest, fmt.Errorf("execution_date and expiration_date are required"), w)
		return
	}

	kind := instrument.OptionKind(q.Get("type_cp"))
	switch kind {
	case instrument.Call, instrument.Put:
	case "":
		kind = instrument.Call
	default:
		setErrorResponse("request", http.StatusBadRequest, fmt.Errorf("type_cp must be Call or Put"), w)
		return
	}

	pts, err := s.store.Smile(r.Context(), execDate, expDate, kind)
	if err != nil {
		setErrorResponse("store", http.StatusInternalServerError, err, w)
		return
	}
	setResponse(pts, w)
}

func (s *Server) cachedDates(key string, load func() ([]string, error)) ([]string, error) {
	if v, found := s.dates.Get(key); found {
		logger.Tracef("%s: served from cache", key)
		return v.([]string), nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	s.dates.Set(key, v, cache.DefaultExpiration)
	return v, nil
}

func setResponse(response interface{}, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Errorf("encode response: %v", err)
	}
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(&errorResponse{Type: errType, Msg: err.Error()}); encodeErr != nil {
		logger.Errorf("encode error response: %v", encodeErr)
	}
}
