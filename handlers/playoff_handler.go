package handlers

import (
	"net/http"

	"github.com/aibotsim/arena/services"
)

type PlayoffHandler struct {
	bracketService services.BracketService
}

func NewPlayoffHandler(bs services.BracketService) *PlayoffHandler {
	return &PlayoffHandler{
		bracketService: bs,
	}
}

// CreatePlayoffsHandler is the manual seeding trigger. Calling it again
// after the bracket exists is a harmless no-op.
func (h *PlayoffHandler) CreatePlayoffsHandler(w http.ResponseWriter, r *http.Request) {
	created, err := h.bracketService.SeedPlayoffs(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	message := "Playoff bracket created."
	if !created {
		message = "Playoff bracket already exists."
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": message}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
