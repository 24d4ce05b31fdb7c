package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/blogauth/internal/common"
)

var errorTable = []struct {
	err    error
	status int
	code   string
}{
	{common.ErrCredentialAlreadyExists, http.StatusUnprocessableEntity, "CREDENTIAL_ALREADY_EXISTS"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{common.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{common.ErrAccessTokenRequired, http.StatusUnauthorized, "ACCESS_TOKEN_REQUIRED"},
	{common.ErrAccessTokenExpired, http.StatusUnauthorized, "ACCESS_TOKEN_EXPIRED"},
	{common.ErrRefreshTokenExpired, http.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED"},
	{common.ErrResetTokenExpired, http.StatusUnauthorized, "RESET_TOKEN_EXPIRED"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
	{common.ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{common.ErrInvalidResetToken, http.StatusUnauthorized, "INVALID_RESET_TOKEN"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
	{common.ErrEmailDeliveryFailed, http.StatusInternalServerError, "EMAIL_DELIVERY_FAILED"},
	{common.ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
	{common.ErrTooManyAttempts, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"},
}

func mapDomainError(err error) (int, string, string) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.status, e.code, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", common.ErrInternal.Error()
}

func (h *Handler) writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	fields := []any{"operation", operation, "status_code", status, "error_code", code, "request_id", requestIDFromContext(ctx)}
	if status >= http.StatusInternalServerError {
		h.logger.Error(ctx, "request failed", append(fields, "error", err)...)
	} else {
		h.logger.Debug(ctx, "request rejected", fields...)
	}
	writeError(w, status, code, msg)
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}
