package handler

import (
	"net/http"

	"github.com/Rrens/chatrooms/internal/api/response"
	"github.com/Rrens/chatrooms/internal/countries"
	"github.com/rs/zerolog/log"
)

// ListCountries returns dialling codes for the login form
func ListCountries(client *countries.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := client.List(r.Context())
		if err != nil {
			log.Warn().Err(err).Msg("Country directory unavailable")
			response.Error(w, http.StatusBadGateway, "Failed to load country codes")
			return
		}
		response.OK(w, list)
	}
}
