package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Response represents a standard API response
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Response{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, message any) {
	write(w, status, Response{Success: false, Error: message})
}

// FromError maps domain and validation errors to a status code
func FromError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		BadRequest(w, ValidationMessages(validationErrors))
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrEmptyTitle):
		BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrNoActiveRoom):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRoomNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, domain.ErrInvalidOTP), errors.Is(err, domain.ErrOTPNotRequested):
		Unauthorized(w, err.Error())
	default:
		log.Error().Err(err).Msg("Request failed")
		InternalError(w, "internal error")
	}
}

// ValidationMessages turns validator errors into a field to message map
func ValidationMessages(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = "field is required"
		case "min":
			out[field] = "must be at least " + e.Param() + " characters"
		case "max":
			out[field] = "must be at most " + e.Param() + " characters"
		case "numeric":
			out[field] = "must contain digits only"
		default:
			out[field] = "validation failed on " + e.Tag()
		}
	}
	return out
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Created sends a 201 Created response with data
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// OK sends a 200 OK response with data
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(w http.ResponseWriter, message any) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(w http.ResponseWriter, message any) {
	Error(w, http.StatusUnauthorized, message)
}

// NotFound sends a 404 Not Found response
func NotFound(w http.ResponseWriter, message any) {
	Error(w, http.StatusNotFound, message)
}

// InternalError sends a 500 Internal Server Error response
func InternalError(w http.ResponseWriter, message any) {
	Error(w, http.StatusInternalServerError, message)
}
