package server

import (
	"encoding/json"
	"errors"
	"net/http"

	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
	"github.com/matzehuels/fieldviz/pkg/observability"
)

type errorBody struct {
	Code      fverrors.Code `json:"code"`
	Message   string        `json:"message"`
	RequestID string        `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch fverrors.GetCode(err) {
	case fverrors.ErrCodeDomain:
		return http.StatusUnprocessableEntity
	case fverrors.ErrCodeConfiguration, fverrors.ErrCodeInvalidInput, fverrors.ErrCodeInvalidExpression,
		fverrors.ErrCodeInvalidScene, fverrors.ErrCodeInvalidPath, fverrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case fverrors.ErrCodeNotFound, fverrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case fverrors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case fverrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{
		Code:      fverrors.GetCode(err),
		Message:   fverrors.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	}
	if body.Code == "" {
		body.Code = fverrors.ErrCodeInternal
	}
	if status >= 500 {
		s.cfg.Logger.Error("request failed", "id", body.RequestID, "error", err)
		body.Message = "internal error"
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errNotFound(path string) error {
	return fverrors.New(fverrors.ErrCodeNotFound, "no route for %s", path)
}

func isMaxBytes(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
