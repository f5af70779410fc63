package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/usecase"
)

// respondData writes the success envelope.
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

// respondError writes the error envelope with a stable machine-readable kind.
func respondError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{"status": "error", "error": kind, "message": message})
}

// respondUseCaseError maps domain sentinels to HTTP statuses. Access denials
// stay 403; existence is not masked.
func respondUseCaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrThreadNotFound):
		respondError(c, http.StatusNotFound, "thread_not_found", "thread not found")
	case errors.Is(err, chat.ErrMessageNotFound):
		respondError(c, http.StatusNotFound, "message_not_found", "message not found")
	case errors.Is(err, chat.ErrNotParticipant):
		respondError(c, http.StatusForbidden, "not_a_participant", "user is not a participant in this thread")
	case errors.Is(err, chat.ErrNotModerator):
		respondError(c, http.StatusForbidden, "not_a_moderator", "moderator rights required")
	case errors.Is(err, chat.ErrForbidden):
		respondError(c, http.StatusForbidden, "forbidden", "not allowed to perform this action")
	case errors.Is(err, chat.ErrThreadNotActive):
		respondError(c, http.StatusConflict, "thread_not_active", "thread is no longer active")
	case errors.Is(err, chat.ErrAlreadyDecided):
		respondError(c, http.StatusConflict, "already_decided", "message approval state is already final")
	case errors.Is(err, chat.ErrInvalidParticipantCount):
		respondError(c, http.StatusBadRequest, "invalid_participants", err.Error())
	case errors.Is(err, chat.ErrEmptyMessage):
		respondError(c, http.StatusBadRequest, "empty_message", "message content must not be empty")
	case errors.Is(err, usecase.ErrPersistence):
		respondError(c, http.StatusInternalServerError, "internal_error", "unexpected persistence error")
	default:
		// Unrecognized errors get a fixed message; internals stay out of responses.
		respondError(c, http.StatusBadRequest, "bad_request", "invalid request")
	}
}

// paging reads limit/offset query params with a sane default and cap.
func paging(c *gin.Context) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 {
		limit = v
	}
	if limit > 200 {
		limit = 200
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
