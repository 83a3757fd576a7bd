package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"expensa.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/register",
	"/login",
	"/forgot-password",
	"/reset-password",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

func (a *API) withAuth(next http.Handler) http.Handler {
	if a == nil || a.auth == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "No token, authorization denied")
			return
		}

		u, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			// An expired session answers the same as a forged one.
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
				writeError(w, r, http.StatusUnauthorized, "Token is not valid")
			default:
				writeError(w, r, http.StatusInternalServerError, "Server error")
			}
			return
		}

		ctx := auth.ContextWithUser(r.Context(), u)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
