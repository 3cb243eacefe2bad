package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fermalla/golf-league-system/services"
)

func TestGetIDFromURL(t *testing.T) {
	var gotID int
	var gotErr error

	router := chi.NewRouter()
	router.Get("/players/{playerID}", func(_ http.ResponseWriter, r *http.Request) {
		gotID, gotErr = getIDFromURL(r, "playerID")
	})

	tests := []struct {
		name    string
		path    string
		wantID  int
		wantErr bool
	}{
		{"numeric id", "/players/7", 7, false},
		{"not a number", "/players/abc", 0, true},
		{"zero", "/players/0", 0, true},
		{"negative", "/players/-3", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			router.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantID, gotID)
			if tt.wantErr {
				assert.Error(t, gotErr)
			} else {
				assert.NoError(t, gotErr)
			}
		})
	}
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"player not found", services.ErrPlayerNotFound, http.StatusNotFound},
		{"round player not found", services.ErrRoundPlayerNotFound, http.StatusNotFound},
		{"name conflict", services.ErrLeagueNameConflict, http.StatusConflict},
		{"duplicate round player", services.ErrRoundPlayerDuplicate, http.StatusConflict},
		{"course in use", services.ErrCourseInUse, http.StatusConflict},
		{"league closed", services.ErrLeagueClosed, http.StatusConflict},
		{"no scored players", services.ErrRoundNoScoredPlayers, http.StatusConflict},
		{"validation", services.ErrCourseSlopeInvalid, http.StatusBadRequest},
		{"friendly with league", services.ErrFriendlyRoundHasLeague, http.StatusBadRequest},
		{"card invalid", services.ErrCardInvalid, http.StatusBadRequest},
		{"upload type", services.ErrUploadInvalidType, http.StatusBadRequest},
		{"bad access key", services.ErrAuthInvalidAccessKey, http.StatusUnauthorized},
		{"anything else", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			mapServiceErrorToHTTP(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			require.Contains(t, rec.Body.String(), "error")
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
