package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"gameprice-tracker/internal/currency"
	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/regions"
)

type searchRequest struct {
	Query           string   `json:"query"`
	Regions         []string `json:"regions"`
	DisplayCurrency string   `json:"displayCurrency"`
}

type priceView struct {
	domain.PriceInfo
	Converted float64 `json:"converted"`
	Display   string  `json:"display"`
}

type searchResponse struct {
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	CoverImageURL   string      `json:"coverImageUrl,omitempty"`
	DisplayCurrency string      `json:"displayCurrency"`
	Prices          []priceView `json:"prices"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query must not be empty", http.StatusBadRequest)
		return
	}

	result, err := s.search.Search(r.Context(), req.Query, req.Regions)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Str("query", req.Query).Msg("search request failed")
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	display := strings.ToUpper(strings.TrimSpace(req.DisplayCurrency))
	if display == "" {
		display = "USD"
	}

	resp := searchResponse{
		Title:           result.Title,
		Description:     result.Description,
		CoverImageURL:   result.CoverImageURL,
		DisplayCurrency: display,
		Prices:          make([]priceView, 0, len(result.Prices)),
	}
	for _, p := range result.Prices {
		converted := currency.Convert(p.Amount, p.Currency, display, s.rates)
		resp.Prices = append(resp.Prices, priceView{
			PriceInfo: p,
			Converted: converted,
			Display:   currency.Format(converted, display),
		})
	}

	// cheapest region first
	sort.SliceStable(resp.Prices, func(i, j int) bool {
		return resp.Prices[i].Converted < resp.Prices[j].Converted
	})

	writeJSON(w, resp)
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, regions.List())
}

func (s *Server) handleRates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.rates)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	title := q.Get("title")
	region := q.Get("region")
	if title == "" || region == "" {
		http.Error(w, "title and region are required", http.StatusBadRequest)
		return
	}

	writeJSON(w, s.history.Query(r.Context(), title, region))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoRegions):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusServiceUnavailable
	default:
		// schema violations and terminal provider errors
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
