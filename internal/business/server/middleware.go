package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/openkcm/common-sdk/pkg/otlp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"

	"github.com/avencore/devops-agent/internal/auth"
	"github.com/avencore/devops-agent/internal/config"
	"github.com/avencore/devops-agent/internal/serviceerr"
)

type identityCtxKey struct{}

// IdentityFromContext returns the identity the authentication middleware
// resolved for the request.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(auth.Identity)
	return identity, ok
}

// newAuthnMiddleware guards a route subtree: requests without a valid bearer
// session token are rejected before any handler runs, valid ones proceed
// with the identity in the request context.
func newAuthnMiddleware(verifier *auth.TokenVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r)
			if !ok {
				writeError(ctx, w, serviceerr.ErrUnauthorized)
				return
			}

			identity := verifier.Verify(token)
			if identity == nil {
				writeError(ctx, w, serviceerr.ErrUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, identityCtxKey{}, *identity)
			ctx = slogctx.With(ctx, "subject", identity.Subject)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}

	return token, true
}

// newTraceMiddleware covers every route with tracing, metrics and a request
// scoped logger.
func newTraceMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operationID := routeOperationID(r)

			traceAttrs := otlp.CreateAttributesFrom(cfg.Application, attribute.String(commoncfg.AttrOperation, operationID))
			tracer := otel.Tracer(operationID, trace.WithInstrumentationAttributes(traceAttrs...))

			ctx := slogctx.With(r.Context(),
				commoncfg.AttrRequestID, uuid.NewString(),
				commoncfg.AttrOperation, operationID,
			)

			parentCtx := otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(parentCtx, operationID+"-span", trace.WithAttributes(traceAttrs...))
			defer span.End()

			requestStartTime := time.Now()

			defer func() {
				elapsedTime := time.Since(requestStartTime)

				attrs := metric.WithAttributes(
					otlp.CreateAttributesFrom(cfg.Application,
						attribute.String("userAgent", r.UserAgent()),
						attribute.String(commoncfg.AttrOperation, operationID),
					)...,
				)

				counter.Add(ctx, 1, attrs)
				hist.Record(ctx, elapsedTime.Milliseconds(), attrs)
			}()

			slogctx.Info(ctx, fmt.Sprintf("Processing %s request", operationID))
			next.ServeHTTP(w, r.WithContext(ctx))
			slogctx.Info(ctx, fmt.Sprintf("Finished %s request", operationID))
		})
	}
}

func routeOperationID(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.Method
	}

	if name := route.GetName(); name != "" {
		return name
	}

	return r.Method
}
