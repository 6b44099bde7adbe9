package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	"github.com/SscSPs/homeos_backend/internal/dto"
	"github.com/SscSPs/homeos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrProductUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrShiftState),
		errors.Is(err, apperrors.ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInconsistentState):
		return http.StatusInternalServerError
	case errors.Is(err, apperrors.ErrBackend):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the text shown to clients. Internal failures are not described.
func errorMessage(err error, status int) string {
	switch {
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "Insufficient funds"
	case errors.Is(err, apperrors.ErrProductUnavailable):
		return "Product unavailable"
	case errors.Is(err, apperrors.ErrBusy):
		return "Too many concurrent updates, please retry"
	case errors.Is(err, apperrors.ErrInconsistentState):
		return "Operation partially applied, please contact support"
	}
	switch status {
	case http.StatusServiceUnavailable:
		return "Storage temporarily unavailable"
	case http.StatusInternalServerError:
		return "Internal server error"
	}
	return err.Error()
}

// respondError logs err at a level matching its status and writes the error body.
func respondError(c *gin.Context, err error, msg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()), slog.Int("status", status))
	} else {
		logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, dto.ErrorResponse{Success: false, Error: errorMessage(err, status)})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Success: false, Error: msg})
}

// mustIdentity returns the caller identity set by AuthMiddleware.
func mustIdentity(c *gin.Context) (identity domain.Identity, ok bool) {
	identity, ok = middleware.GetIdentityFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Identity not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Error: "Not authenticated"})
	}
	return identity, ok
}
