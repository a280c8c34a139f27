package middleware

import (
	"context"
	"net/http"
	"strings"

	"drively/pkg/auth"
	"drively/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const PrincipalKey contextKey = "principal"

// PrincipalFromContext returns the verified principal set by the
// authenticator, or nil when the request was not authenticated.
func PrincipalFromContext(ctx context.Context) *auth.Principal {
	if p, ok := ctx.Value(PrincipalKey).(*auth.Principal); ok {
		return p
	}
	return nil
}

// Authenticator wraps individual routes with token verification.
// Unlike the chain middleware it is applied per route, since public
// and protected endpoints share a router.
type Authenticator struct {
	tokens *auth.TokenManager
	log    *logger.Logger
}

func NewAuthenticator(tokens *auth.TokenManager, log *logger.Logger) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		log:    log,
	}
}

// User requires a valid USER token on the route.
func (a *Authenticator) User(next httprouter.Handle) httprouter.Handle {
	return a.require(auth.RoleUser, next)
}

// Admin requires a valid ADMIN token on the route.
func (a *Authenticator) Admin(next httprouter.Handle) httprouter.Handle {
	return a.require(auth.RoleAdmin, next)
}

func (a *Authenticator) require(role string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := bearerToken(r)
		if token == "" {
			writeUnauthorized(w)
			return
		}

		principal, err := a.tokens.Verify(token)
		if err != nil {
			a.log.Warn("Token verification failed",
				"request_id", requestIDFromContext(r.Context()),
				"path", r.URL.Path,
			)
			writeUnauthorized(w)
			return
		}

		if principal.Role != role {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"Insufficient permissions"}`))
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalKey, principal)
		next(w, r.WithContext(ctx), ps)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or missing token"}`))
}
