package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"citeapi.org/internal/auth"
	"citeapi.org/internal/schema"
	"citeapi.org/internal/store"
	"citeapi.org/internal/token"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAPIError renders the uniform error body: code, title and an optional
// detail payload, plus the request id when one is known.
func writeAPIError(w http.ResponseWriter, r *http.Request, code int, title string, detail any) {
	payload := map[string]any{
		"code":  code,
		"title": title,
	}
	if detail != nil {
		payload["detail"] = detail
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

// mapError translates domain errors to their status codes. Validation
// failures carry the per-field message map as detail.
func mapError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs schema.Errors
	switch {
	case errors.As(err, &verrs):
		writeAPIError(w, r, http.StatusBadRequest, "validation_failed", map[string][]string(verrs))
	case errors.Is(err, store.ErrNotUnique):
		writeAPIError(w, r, http.StatusBadRequest, "bad_request", "already exists")
	case errors.Is(err, store.ErrValidation):
		writeAPIError(w, r, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, token.ErrNotFound), errors.Is(err, auth.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, auth.ErrForbidden):
		writeAPIError(w, r, http.StatusForbidden, "forbidden", "operation not permitted")
	default:
		writeAPIError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeAPIError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}
