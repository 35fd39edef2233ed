package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/checkmark/checkmark/internal/auth"
	"github.com/checkmark/checkmark/internal/metrics"
	"github.com/golang-jwt/jwt/v5"
)

// RequestAuthenticator resolves the caller of a request.
type RequestAuthenticator interface {
	Authenticate(r *http.Request) (*auth.Identity, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger        *slog.Logger
	Authenticator RequestAuthenticator
	Metrics       metrics.Recorder
}

// RequireAuth returns a middleware that rejects requests without a valid
// bearer token and stores the resolved identity in the request context.
// Every rejection gets the same 401 body.
func RequireAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := cfg.Authenticator.Authenticate(r)
			if err != nil {
				reason := rejectionReason(err)
				recorder.IncAuthRejected(reason)
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				WriteUnauthorized(w)
				return
			}

			setLogUserID(r.Context(), identity.UserID)

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WriteUnauthorized writes the uniform 401 response.
func WriteUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials")
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return metrics.ReasonMissingToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return metrics.ReasonExpired
	default:
		return metrics.ReasonInvalidToken
	}
}
