package api

import (
	"encoding/json"
	"net/http"

	apperrors "pokemon-assistant/internal/common/errors"
)

type errorBody struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes err with the status its code maps to.
func respondError(w http.ResponseWriter, err error) {
	stdErr := apperrors.AsStandardError(err)
	body := errorBody{Error: stdErr.Message, Code: string(stdErr.Code)}
	if stdErr.Details != "" {
		body.Details = stdErr.Details
	}
	respondJSON(w, apperrors.HTTPStatus(stdErr.Code), body)
}
