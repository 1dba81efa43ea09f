package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"budget/internal/core"
)

// Machine-readable error kinds. Clients branch on kind, not on message text.
const (
	KindNotFound   = "not_found"
	KindDuplicate  = "duplicate"
	KindValidation = "validation"
	KindInternal   = "internal"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Kind: kind, Message: message}})
}

// writeDomainError maps domain errors to the error taxonomy. Anything not
// recognized is an internal fault: logged server-side, generic to the client.
func (s *Server) writeDomainError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var verr *core.ValidationError

	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, KindNotFound, "Transaction not found")
	case errors.Is(err, core.ErrDuplicateName):
		writeError(w, http.StatusBadRequest, KindDuplicate, "Category already exists")
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, KindValidation, verr.Error())
	default:
		s.logger.ErrorContext(ctx, "Storage operation failed", "operation", op, "error", err)
		writeError(w, http.StatusInternalServerError, KindInternal, "Internal server error")
	}
}

// decodeJSON reads a request body into v. Unknown fields are ignored;
// required-field checks happen in core validation.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
