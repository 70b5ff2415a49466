package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// parseID extracts a numeric id from a chi route parameter.
func parseID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

// respondDomainError translates a domain error into an HTTP response:
// NotFound -> 404, Conflict and InsufficientStock -> 400, anything else is an
// opaque 500. fallback is logged and returned as the 500 message.
func respondDomainError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	switch {
	case domain.IsNotFound(err):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case domain.IsConflict(err), domain.IsInsufficientStock(err):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeRequest decodes and validates a JSON body, writing the error response
// itself. Returns false when the request was rejected.
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
