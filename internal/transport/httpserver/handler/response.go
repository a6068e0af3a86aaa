package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"church-admin-go/internal/domain/congregation"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

// respondDomainError maps domain error kinds onto the HTTP contract.
// Validation and conflict failures are expected and logged as business
// errors; anything unmapped is a 500 with the detail kept server-side.
func (h *Handlers) respondDomainError(w http.ResponseWriter, op string, err error, args ...any) {
	var validation *congregation.ValidationError
	if errors.As(err, &validation) {
		h.log.BusinessError(op+": validation failed", err, args...)
		writeError(w, http.StatusBadRequest, "validation_error", validation.Error())
		return
	}

	var spouseConflict *congregation.SpouseConflictError
	if errors.As(err, &spouseConflict) {
		h.log.BusinessError(op+": duplicate spouse", err, args...)
		writeError(w, http.StatusConflict, "spouse_exists", spouseConflict.Error())
		return
	}

	switch {
	case errors.Is(err, congregation.ErrBelieverIsHead):
		h.log.BusinessError(op+": believer is family head", err, args...)
		writeError(w, http.StatusConflict, "IS_HEAD", "reassign the family head before deleting this believer")
	case errors.Is(err, congregation.ErrFamilyTrashed):
		h.log.BusinessError(op+": family is in trash", err, args...)
		writeError(w, http.StatusConflict, "family_trashed", "restore the family first")
	case errors.Is(err, congregation.ErrFamilyNotTrashed):
		h.log.BusinessError(op+": family not in trash", err, args...)
		writeError(w, http.StatusNotFound, "not_in_trash", "family is not in trash")
	case errors.Is(err, congregation.ErrBelieverNotTrashed):
		h.log.BusinessError(op+": believer not in trash", err, args...)
		writeError(w, http.StatusNotFound, "not_in_trash", "believer is not in trash")
	case errors.Is(err, congregation.ErrFamilyNotFound):
		h.log.BusinessError(op+": family not found", err, args...)
		writeError(w, http.StatusNotFound, "family_not_found", "family not found")
	case errors.Is(err, congregation.ErrBelieverNotFound), errors.Is(err, congregation.ErrHeadNotFound):
		h.log.BusinessError(op+": believer not found", err, args...)
		writeError(w, http.StatusNotFound, "believer_not_found", "believer not found")
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
