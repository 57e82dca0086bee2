package handlers

import (
	"fmt"
	"net/http"

	"github.com/aibotsim/arena/services"
)

type BattleHandler struct {
	battleService services.BattleService
}

func NewBattleHandler(bs services.BattleService) *BattleHandler {
	return &BattleHandler{
		battleService: bs,
	}
}

type resolveBattleRequest struct {
	GameID *int `json:"gameId"`
}

// ResolveBattleHandler runs one battle for the addressed game. The path
// parameter is authoritative; a body gameId, when sent, must agree with it.
func (h *BattleHandler) ResolveBattleHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIntFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if r.ContentLength > 0 {
		var input resolveBattleRequest
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
		if input.GameID != nil && *input.GameID != gameID {
			badRequestResponse(w, r, fmt.Errorf("body gameId %d does not match path game %d", *input.GameID, gameID))
			return
		}
	}

	result, err := h.battleService.ResolveBattle(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"winner":          result.WinnerID,
		"resultNarrative": result.Narrative,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
