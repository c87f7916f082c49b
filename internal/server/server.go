package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/history"
	"gameprice-tracker/internal/search"
)

// Server exposes the price pipeline as a JSON API. The rate table is the
// session snapshot fetched at startup.
type Server struct {
	search  *search.Service
	history *history.Store
	rates   domain.ExchangeRates
	logger  zerolog.Logger
}

func New(searchSvc *search.Service, historyStore *history.Store, rates domain.ExchangeRates, logger zerolog.Logger) *Server {
	return &Server{
		search:  searchSvc,
		history: historyStore,
		rates:   rates,
		logger:  logger,
	}
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /api/rates", s.handleRates)
	mux.HandleFunc("GET /api/history", s.handleHistory)
}
