package handlers

import (
	"errors"
	"net/http"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/utils"

	"go.uber.org/zap"
)

// writeError maps workflow errors onto HTTP statuses
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, models.ErrInvalidState):
		utils.Error(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, models.ErrUnsupportedFormat):
		utils.Error(w, http.StatusUnsupportedMediaType, "unsupported_format", "Only PDF and DOCX resumes are supported")
	case errors.Is(err, models.ErrUnreadableDocument):
		utils.Error(w, http.StatusUnprocessableEntity, "unreadable_document", err.Error())
	default:
		logger.Error("Unhandled interview error", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
	}
}
