package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"farmledger/ledger"
	"farmledger/models"
	"farmledger/notify"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// envelope is the body of every JSON response the API produces itself.
type envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Details    any         `json:"details,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
	Summary    any         `json:"summary,omitempty"`
}

type pagination struct {
	Total   int64 `json:"total"`
	Limit   int64 `json:"limit"`
	Skip    int64 `json:"skip"`
	HasMore bool  `json:"hasMore"`
}

func pageMeta[T any](p ledger.Page[T]) *pagination {
	return &pagination{Total: p.Total, Limit: p.Limit, Skip: p.Skip, HasMore: p.HasMore}
}

// writeJSON encodes body before touching the response, so an unencodable
// body becomes a 500 instead of a success status with no payload.
func writeJSON(w http.ResponseWriter, status int, body any) {
	buf, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		buf, _ = json.Marshal(envelope{Error: "Failed to encode response", Details: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(buf, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string, details any) {
	if s, ok := details.(string); ok && s == "" {
		details = nil
	}
	writeJSON(w, status, envelope{Error: msg, Details: details})
}

// fail maps a service error onto a response. kind names the entity ("crop")
// and op the attempted action ("create") for the error text.
func (a *App) fail(w http.ResponseWriter, r *http.Request, kind, op string, err error) {
	var (
		pe *ledger.PatchError
		ve *models.ValidationError
		ge *notify.GatewayError
		ue *upstreamError
	)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, title(kind)+" not found", "")
		return
	case errors.As(err, &pe):
		writeError(w, http.StatusBadRequest, "Invalid request body", pe.Error())
		return
	case errors.As(err, &ue):
		forward(w, ue.StatusCode, ue.ContentType, ue.Body)
		return
	case errors.As(err, &ge):
		writeError(w, ge.StatusCode, "Failed to "+op+" "+kind, string(ge.Body))
		return
	case errors.As(err, &ve):
		writeError(w, http.StatusInternalServerError, "Failed to "+op+" "+kind, ve.Fields)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to "+op+" "+kind, err.Error())
	}
	a.log.Error("request failed",
		zap.String("op", op+" "+kind),
		zap.String("owner", ownerOf(r)),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
}

// forward writes a collaborator's response unchanged.
func forward(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
