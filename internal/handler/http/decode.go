package http

import (
	"encoding/json"
	"net/http"

	"github.com/utafrali/catalog/pkg/httputil"
)

const maxBodyBytes = 1 << 20

// decodeObject reads a JSON object body keyed by field name. On failure it
// writes a 400 INVALID_INPUT response and returns false.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var input map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input == nil {
		msg := "request body must be a JSON object"
		if err != nil {
			msg = "invalid request body: " + err.Error()
		}
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: msg},
		})
		return nil, false
	}
	return input, true
}
