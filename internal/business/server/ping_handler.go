package server

import (
	"net/http"

	slogctx "github.com/veqryn/slog-context"
)

func pingHandlerFunc() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		slogctx.Info(ctx, "Starting ping request")

		w.Header().Set("Content-Type", "application/json")

		if _, err := w.Write([]byte("{ \"result\": \"ping\" }")); err != nil {
			return
		}

		slogctx.Info(ctx, "Finished ping request")
	}
}
