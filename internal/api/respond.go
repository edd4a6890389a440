package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sme-crm/internal/discovery"
	"github.com/sells-group/sme-crm/internal/lead"
)

var errBadRequest = eris.New("api: bad request")

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	LeadID int64             `json:"lead_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err onto a status code. Unrecognized errors are logged
// and reported as 500 without their message.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError

	var verr *lead.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp.Fields = verr.Fields
	case errors.Is(err, errBadRequest),
		errors.Is(err, lead.ErrValidation),
		errors.Is(err, discovery.ErrInvalidCandidate),
		errors.Is(err, discovery.ErrEmptyQuery):
		status = http.StatusBadRequest
	case errors.Is(err, lead.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, discovery.ErrDuplicateLead):
		status = http.StatusConflict
	default:
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		resp.Error = "internal error"
	}
	writeJSON(w, status, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return eris.Wrap(errBadRequest, "invalid request body: "+err.Error())
	}
	return nil
}

func leadID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, eris.Wrapf(errBadRequest, "invalid lead id %q", raw)
	}
	return id, nil
}
