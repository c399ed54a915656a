// Package transport contains the HTTP router, middleware chain, and all
// request handlers for the engine API.
package transport

import (
	"encoding/json"
	"net/http"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// statusForCode maps ErrorEnvelope codes to HTTP status codes.
var statusForCode = map[string]int{
	model.ErrBadRequest:      http.StatusBadRequest,
	model.ErrNotFound:        http.StatusNotFound,
	model.ErrConflict:        http.StatusConflict,
	model.ErrValidationError: http.StatusUnprocessableEntity,
	model.ErrInternalError:   http.StatusInternalServerError,
	model.ErrRunNotFound:     http.StatusNotFound,
	model.ErrRunNotActive:    http.StatusConflict,
	model.ErrNoPendingChoice: http.StatusConflict,
	model.ErrUnknownChoice:   http.StatusUnprocessableEntity,
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// WriteError writes an ErrorEnvelope as a JSON response with the correct
// HTTP status code. If err is not an *ErrorEnvelope, a generic 500 is returned.
func WriteError(w http.ResponseWriter, err error) {
	ee, ok := err.(*model.ErrorEnvelope)
	if !ok {
		ee = model.NewInternalError()
	}

	status := statusForCode[ee.Code]
	if status == 0 {
		status = http.StatusInternalServerError
	}

	type errorResponse struct {
		Error *model.ErrorEnvelope `json:"error"`
	}
	WriteJSON(w, status, errorResponse{Error: ee})
}

// WriteBadRequest writes a 400 error response.
func WriteBadRequest(w http.ResponseWriter, msg string) {
	WriteError(w, model.NewBadRequestError(msg))
}

// WriteValidationError writes a 422 error response.
func WriteValidationError(w http.ResponseWriter, msg string) {
	WriteError(w, model.NewValidationError(msg))
}

// DecodeJSON decodes the request body into v. Unknown fields are rejected so
// that client typos surface as errors instead of silently dropped input.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return model.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}
