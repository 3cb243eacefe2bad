package handlers

import (
	"net/http"

	"github.com/Fermalla/golf-league-system/services"
)

type AchievementHandler struct {
	achievementService services.AchievementService
}

func NewAchievementHandler(as services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: as}
}

func (h *AchievementHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var input services.AchievementInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	achievement, err := h.achievementService.CreateAchievement(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"achievement": achievement}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AchievementHandler) GetAllAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.achievementService.GetAllAchievements(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"achievements": achievements}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AchievementHandler) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	achievementID, err := getIDFromURL(r, "achievementID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AchievementInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	achievement, err := h.achievementService.UpdateAchievement(r.Context(), achievementID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"achievement": achievement}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AchievementHandler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	achievementID, err := getIDFromURL(r, "achievementID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.achievementService.DeleteAchievement(r.Context(), achievementID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AchievementHandler) GrantToPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	achievementID, err := getIDFromURL(r, "achievementID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.achievementService.GrantToPlayer(r.Context(), playerID, achievementID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AchievementHandler) RevokeFromPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	achievementID, err := getIDFromURL(r, "achievementID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.achievementService.RevokeFromPlayer(r.Context(), playerID, achievementID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AchievementHandler) ListPlayerAchievements(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	grants, err := h.achievementService.ListPlayerAchievements(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"achievements": grants}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
