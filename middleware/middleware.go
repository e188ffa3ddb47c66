package middleware

import (
	"context"
	"errors"
	"net/http"

	"staybook/auth"
	"staybook/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
)

// Authenticator turns a bearer token into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

type Gate struct {
	auth Authenticator
}

func NewGate(a Authenticator) *Gate {
	return &Gate{auth: a}
}

// Authenticate rejects requests without a valid token and stores the
// identity in the request context.
func (g *Gate) Authenticate(next httprouter.Handle) httprouter.Handle {
	return g.Require(nil, next)
}

// Require authenticates and then checks the role against the allowed set.
// A nil set admits any authenticated staff member.
func (g *Gate) Require(allowed auth.RoleSet, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := auth.BearerToken(r)
		if token == "" && websocket.IsWebSocketUpgrade(r) {
			// Browsers cannot set headers on websocket upgrades.
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		id, err := g.auth.Authenticate(r.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				log.Error().Err(err).Msg("authenticate")
			}
			utils.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if allowed != nil && !auth.Authorize(id, allowed) {
			utils.RespondWithError(w, http.StatusForbidden, auth.ErrForbidden.Error())
			return
		}

		next(w, r.WithContext(auth.WithIdentity(r.Context(), id)), ps)
	}
}

// SecurityHeaders applies a set of recommended HTTP security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
