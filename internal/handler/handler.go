package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"kart-engine/internal/cart"
	"kart-engine/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to an HTTP status.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	switch {
	case errors.As(err, &domainErr):
		writeError(w, domainStatus(domainErr.Code), domainErr.Code, domainErr.Message, logger)
	case errors.Is(err, cart.ErrCollaborator):
		logger.Error().Err(err).Msg("collaborator failure")
		writeError(w, http.StatusBadGateway, model.ErrCodeUpstreamUnavailable, "a downstream service is unavailable", logger)
	default:
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
	}
}

func domainStatus(code string) int {
	switch code {
	case model.ErrCodeCartNotFound, model.ErrCodeLineItemNotFound, model.ErrCodeProductNotFound:
		return http.StatusNotFound
	case model.ErrCodeContactNotFound:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON reads a JSON body into dst. An empty body is accepted when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	return err
}

// pathUUID parses the named path value as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}
