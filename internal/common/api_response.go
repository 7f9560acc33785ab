package common

import (
	"encoding/json"
	"net/http"
	"time"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/models/dtos"
	"transportsystem/avganger/internal/models/entities"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	RespondSuccessWithSignals(w, initTime, message, data, nil, statusCode...)
}

// RespondSuccessWithSignals sends a success response carrying toast signals.
func RespondSuccessWithSignals(w http.ResponseWriter, initTime time.Time, message string, data any, signals []entities.Signal, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
		Signals:      signals,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	RespondErrorWithSignals(w, initTime, err, message, nil, statusCode...)
}

// RespondErrorWithSignals sends an error response carrying toast signals.
// message wins over err when both are set.
func RespondErrorWithSignals(w http.ResponseWriter, initTime time.Time, err error, message string, signals []entities.Signal, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	msg := message
	if msg == "" && err != nil {
		msg = err.Error()
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		ResponseTime: GetResponseTime(initTime),
		Signals:      signals,
	}

	writeJSON(w, code, response)
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}
