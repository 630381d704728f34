package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wowlab/guildsim/internal/logger"
)

// DecodeAndValidateRequest decodes a JSON request body, validates it, and returns appropriate errors.
// It logs the operation and returns a standardized error response to the client.
//
// If this function returns an error, the HTTP response has already been written and the handler should return.
//
// Example usage:
//
//	var req CreateRosterRequest
//	if err := DecodeAndValidateRequest(r, w, &req, "Create roster"); err != nil {
//	    return
//	}
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	// Decode JSON body
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return err
	}

	// Log the decoded request at debug level
	log.Debug(fmt.Sprintf("%s request decoded", actionName))

	// Validate the request struct
	if err := GetValidator().ValidateStruct(req); err != nil {
		validationErrs := FormatValidationError(err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: validationErrs,
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetQueryParam retrieves and validates a required query parameter from the request.
// If the parameter is missing or empty, it writes an error response and returns false.
//
// If ok is false, the HTTP response has already been written and the handler should return.
func GetQueryParam(r *http.Request, w http.ResponseWriter, paramName string) (string, bool) {
	log := logger.FromContext(r.Context())
	value := r.URL.Query().Get(paramName)
	if value == "" {
		log.Warn(fmt.Sprintf("Missing %s query parameter", paramName))
		http.Error(w, fmt.Sprintf(ErrMsgMissingQueryParam, paramName), http.StatusBadRequest)
		return "", false
	}
	return value, true
}

// GetOptionalQueryParam retrieves an optional query parameter from the request.
// Unlike GetQueryParam, this does not write an error response if the parameter is missing.
func GetOptionalQueryParam(r *http.Request, paramName string, defaultValue string) string {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetPathParam retrieves a required chi URL parameter. If the parameter is
// missing, it writes an error response and returns false.
func GetPathParam(r *http.Request, w http.ResponseWriter, paramName string) (string, bool) {
	value := chi.URLParam(r, paramName)
	if value == "" {
		logger.FromContext(r.Context()).Warn(fmt.Sprintf("Missing %s path parameter", paramName))
		http.Error(w, fmt.Sprintf(ErrMsgMissingPathParam, paramName), http.StatusBadRequest)
		return "", false
	}
	return value, true
}

// RequireUserID extracts the session user from the request context. A
// missing session writes a 401 and returns false; the auth middleware
// normally guarantees it is present.
func RequireUserID(r *http.Request, w http.ResponseWriter) (string, bool) {
	userID, ok := sessionUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrMsgUnauthenticatedError)
		return "", false
	}
	return userID, true
}
