package api

import (
	"encoding/json"
	"net/http"

	"marketpulse/domain/core"
	apperrors "marketpulse/internal/errors"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// writeError maps domain and application errors onto HTTP status codes.
// Unknown errors come back as 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := apperrors.GetCode(err)

	switch {
	case core.IsNotFoundError(err), code == apperrors.CodeNotFound:
		status = http.StatusNotFound
	case core.IsInputError(err),
		code == apperrors.CodeValidationError,
		code == apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case code == apperrors.CodeSourceError:
		status = http.StatusBadGateway
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}
