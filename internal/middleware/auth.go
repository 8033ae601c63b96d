package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/brewlog/brewbot-server-go/internal/audit"
	apperrors "github.com/brewlog/brewbot-server-go/internal/errors"
	"github.com/brewlog/brewbot-server-go/internal/httputil"
	"github.com/brewlog/brewbot-server-go/internal/util"
)

// AuthMiddleware authenticates the gateway process with a static bearer
// token. Only the sha256 digest of the token is kept in config.
type AuthMiddleware struct {
	tokenHash string
}

func NewAuthMiddleware(tokenHash string) *AuthMiddleware {
	return &AuthMiddleware{tokenHash: tokenHash}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			httputil.WriteError(w, apperrors.Unauthorized("Missing authentication token"))
			return
		}

		if !util.ConstantTimeEqual(util.HashToken(token), m.tokenHash) {
			log.Warn().Msg("auth middleware: invalid token attempt")
			audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthFailure})
			httputil.WriteError(w, apperrors.InvalidToken("Invalid token"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
