package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/logging"
)

const (
	msgInvalidInputs   = "Invalid inputs passed, please check your data."
	msgRouteNotFound   = "Could not find this route"
	msgNoPlacesForUser = "Could not find places for the provided user ID"
	msgUnknownError    = "An unknown error occurred!"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(ctx context.Context, log logging.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error(ctx, "encode response", "error", err)
	}
}

func writeMessage(ctx context.Context, log logging.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, log, w, status, messageResponse{Message: msg})
}

// statusFor maps a service error to the HTTP status and the message sent
// to the client. Unclassified errors never leak their text.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusUnprocessableEntity, msgInvalidInputs
	case errors.Is(err, common.ErrUnresolvableAddress):
		return http.StatusUnprocessableEntity, common.ErrUnresolvableAddress.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusUnprocessableEntity, "User exists already, please login instead."
	case errors.Is(err, common.ErrOwnerNotFound):
		return http.StatusNotFound, common.ErrOwnerNotFound.Error()
	case errors.Is(err, common.ErrPlaceNotFound):
		return http.StatusNotFound, common.ErrPlaceNotFound.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Could not find the requested resource"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Invalid credentials, could not log you in."
	case errors.Is(err, common.ErrResolutionUnavailable):
		return http.StatusServiceUnavailable, "Address resolution is unavailable, please try again later."
	case errors.Is(err, common.ErrWriteFailed):
		return http.StatusInternalServerError, "Could not save changes, please try again later."
	default:
		return http.StatusInternalServerError, msgUnknownError
	}
}

func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", "status", status, "error", err)
	} else {
		s.logger.Debug(ctx, "request rejected", "status", status, "error", err)
	}
	writeMessage(ctx, s.logger, w, status, msg)
}
