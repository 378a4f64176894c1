package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	slogctx "github.com/veqryn/slog-context"

	"github.com/avencore/devops-agent/internal/serviceerr"
)

// ErrorModel is the error body of every non-2xx API response.
type ErrorModel struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slogctx.Error(ctx, "Failed to encode a response body", "error", err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	body, status := toErrorModel(err)
	writeJSON(ctx, w, status, body)
}

func toErrorModel(err error) (ErrorModel, int) {
	var serviceErr *serviceerr.Error
	if !errors.As(err, &serviceErr) {
		serviceErr = serviceerr.ErrUnknown
	}

	return ErrorModel{
		Error:            string(serviceErr.Err),
		ErrorDescription: serviceErr.Description,
	}, serviceErr.HTTPStatus()
}

func newBadRequest(ctx context.Context, w http.ResponseWriter, description string) {
	writeJSON(ctx, w, http.StatusBadRequest, ErrorModel{
		Error:            string(serviceerr.CodeInvalidRequest),
		ErrorDescription: description,
	})
}

func decodeBody(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return err
	}

	return nil
}
