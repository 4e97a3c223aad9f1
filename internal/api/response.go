package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	tackerr "github.com/amterp/tack/internal/errors"
)

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.WithError(err).Warn("failed to encode response")
		}
	}
}

// Error writes an error response, mapping domain errors to HTTP status codes.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var notFound *tackerr.NotFoundError
	var notInit *tackerr.NotInitializedError
	var alreadyExists *tackerr.AlreadyExistsError
	var validation *tackerr.ValidationError
	var conflict *tackerr.ConflictError

	switch {
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &notInit):
		status = http.StatusNotFound
		message = "tack is not initialized in this directory"
	case errors.As(err, &alreadyExists), errors.As(err, &conflict):
		status = http.StatusConflict
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	default:
		log.WithError(err).Error("request failed")
	}

	JSON(w, status, ErrorResponse{Error: message})
}

// BadRequest writes a 400 error with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: message})
}
