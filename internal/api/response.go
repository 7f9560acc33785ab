package api

import (
	"errors"
	"net/http"
	"time"

	"transportsystem/avganger/internal/common"
	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/models/entities"
	"transportsystem/avganger/internal/services"
)

// handleDepartureError maps service errors to HTTP responses.
func handleDepartureError(w http.ResponseWriter, initTime time.Time, err error, signals []entities.Signal) {
	var depErr *services.DepartureError
	if errors.As(err, &depErr) {
		statusCode := mapErrorCodeToHTTPStatus(depErr.Code)
		if statusCode >= http.StatusInternalServerError {
			logging.Error("Departure operation failed", "code", depErr.Code, "error", err.Error())
		}
		common.RespondErrorWithSignals(w, initTime, err, depErr.Message, signals, statusCode)
		return
	}

	logging.Error("Unexpected error", "error", err.Error())
	common.RespondErrorWithSignals(w, initTime, err, constants.GetErrorMessage(""), signals, http.StatusInternalServerError)
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(errorCode string) int {
	switch errorCode {
	// 400 Bad Request - the user has to fix the input
	case constants.ErrCodeValidation, constants.ErrCodeParse, constants.ErrCodeInvalidFormat:
		return http.StatusBadRequest

	case constants.ErrCodeDuplicateUnit:
		return http.StatusConflict

	case constants.ErrCodeDepartureNotFound, constants.ErrCodeSessionNotFound, constants.ErrCodeNothingToPrint:
		return http.StatusNotFound

	// 428 - the user declined or has not confirmed yet
	case constants.ErrCodeNotConfirmed:
		return http.StatusPreconditionRequired

	// 502 - the remote store did not take the write
	case constants.ErrCodeStoreWrite:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
