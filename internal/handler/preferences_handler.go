package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

type PreferencesHandler struct {
	prefs domain.PreferenceRepository
}

func NewPreferencesHandler(prefs domain.PreferenceRepository) *PreferencesHandler {
	return &PreferencesHandler{
		prefs: prefs,
	}
}

func (h *PreferencesHandler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.Param("userID")
	if userID == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "user ID is required")
		return
	}

	prefs, err := h.prefs.GetPreferences(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load preferences",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to load preferences")
		return
	}

	c.JSON(http.StatusOK, preferencesToPayload(prefs))
}

func (h *PreferencesHandler) HandlePut(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.Param("userID")
	if userID == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "user ID is required")
		return
	}

	var payload preferencesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	prefs, err := payload.toDomain()
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := h.prefs.SavePreferences(ctx, userID, prefs); err != nil {
		slog.ErrorContext(ctx, "failed to save preferences",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "storage_error", "failed to save preferences")
		return
	}

	slog.InfoContext(ctx, "preferences updated",
		slog.String("user_id", userID),
	)

	// Saved preferences are normalized (clamping, defaults) before
	// being echoed back.
	saved, err := h.prefs.GetPreferences(ctx, userID)
	if err != nil {
		saved = prefs
	}
	c.JSON(http.StatusOK, preferencesToPayload(saved))
}
