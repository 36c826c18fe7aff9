package server

import (
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

type errorBody struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var e *errs.Error
	if !errors.As(err, &e) {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, statusOf(e.Code), errorBody{Error: err.Error(), Code: e.Code})
}

func statusOf(code errs.Code) int {
	switch code {
	case errs.ErrCodeNotFound, errs.ErrCodeNotElement, errs.ErrCodeNotSubgraph:
		return http.StatusNotFound
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidID,
		errs.ErrCodeInvalidOrder, errs.ErrCodePropertyType:
		return http.StatusBadRequest
	case errs.ErrCodeNoCheckpoint, errs.ErrCodeNoRedo, errs.ErrCodePropertyExists:
		return http.StatusConflict
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into v. An empty body leaves v unchanged.
func decode(r *http.Request, v any) error {
	if r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
