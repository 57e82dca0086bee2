package handlers

import (
	"io"
	"net/http"

	"github.com/aibotsim/arena/services"
	"github.com/go-chi/chi/v5"
)

type BotHandler struct {
	botService      services.BotService
	scheduleService services.ScheduleService
}

func NewBotHandler(bs services.BotService, ss services.ScheduleService) *BotHandler {
	return &BotHandler{
		botService:      bs,
		scheduleService: ss,
	}
}

func (h *BotHandler) GetBotHandler(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")

	bot, err := h.botService.GetBot(r.Context(), botID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bot": bot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BotHandler) GetBotGamesHandler(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")

	games, err := h.scheduleService.GamesForBot(r.Context(), botID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BotHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.botService.Leaderboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBotImageHandler streams the bot's image blob with its stored content
// type, straight from object storage.
func (h *BotHandler) GetBotImageHandler(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")

	image, err := h.botService.GetImage(r.Context(), botID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	defer image.Body.Close()

	if image.ContentType != "" {
		w.Header().Set("Content-Type", image.ContentType)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, image.Body); err != nil {
		// Headers are already sent; nothing useful left to do.
		return
	}
}

func (h *BotHandler) UploadBotImageHandler(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	contentType := r.Header.Get("Content-Type")

	// Bound uploads to 10MB.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	defer r.Body.Close()

	if err := h.botService.UploadImage(r.Context(), botID, contentType, r.Body); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "image uploaded"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
