package handlers

import (
	"net/http"

	"github.com/aibotsim/arena/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: ss,
	}
}

// NextGameHandler answers "what should be played now". Querying it may
// advance the bracket: an exhausted stage gets its successor materialized
// before the next open game is returned.
func (h *ScheduleHandler) NextGameHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.scheduleService.NextGame(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if view.Champion != nil {
		response := jsonResponse{
			"message":  "The tournament is over. " + view.Champion.Name + " is the champion!",
			"champion": view.Champion,
		}
		if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	response := jsonResponse{
		"game":  view.Game,
		"team1": view.Team1,
		"team2": view.Team2,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// NextGamesHandler returns up to N open games in schedule order without
// any bracket-advancement side effect.
func (h *ScheduleHandler) NextGamesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := getIntFromURL(r, "n")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games, err := h.scheduleService.NextGames(r.Context(), count)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIntFromURL(r, "n")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.scheduleService.GetGame(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
