// Package httpjson holds the JSON request/response helpers shared by the
// feature handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leaguehub/leaguehub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; league logos travel base64-encoded in
// the create-league call, so this is generous.
const maxBodyBytes = 8 << 20

// Decode reads the request body into dst. Returns an InvalidArgument apperr
// on malformed JSON.
func Decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.New(apperr.InvalidArgument, "malformed request body")
	}
	return nil
}

// Write encodes v as the JSON response body with status 200.
func Write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

// WriteError maps err to its kind/status and writes the JSON error envelope.
// Non-apperr errors surface as a generic internal error; the real cause is
// logged, not leaked.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	msg := "internal error"
	var e *apperr.Error
	if errors.As(err, &e) {
		msg = e.Message
	} else if log != nil {
		log.Error("internal error", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperr.HTTPStatus(kind))
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Kind: kind, Message: msg}})
}
