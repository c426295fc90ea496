package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"mintgate/pkg/domain"
	"mintgate/pkg/requestcontext"
)

// CallerClaims is the token payload the gateway accepts: the principal address
// the upstream authenticator vouches for.
type CallerClaims struct {
	Address string `json:"addr"`
	jwt.RegisteredClaims
}

// JWTValidator validates bearer tokens and extracts the caller principal.
type JWTValidator interface {
	ValidateToken(tokenString string) (domain.Address, error)
}

// HMACValidator validates HS256 tokens with a shared signing key.
type HMACValidator struct {
	key []byte
}

func NewHMACValidator(signingKey string) *HMACValidator {
	return &HMACValidator{key: []byte(signingKey)}
}

func (v *HMACValidator) ValidateToken(tokenString string) (domain.Address, error) {
	var claims CallerClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("token invalid")
	}
	addr, err := domain.ParseAddress(claims.Address)
	if err != nil {
		return "", fmt.Errorf("addr claim: %w", err)
	}
	return addr, nil
}

// RequireCaller authenticates the request and injects the caller principal
// into the context. Every mutating endpoint sits behind it; permission checks
// (owner vs admin) happen later in the access service against this principal.
func RequireCaller(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}
			addr, err := validator.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				logger.WarnContext(r.Context(), "token rejected",
					"error", err.Error(),
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			ctx := requestcontext.WithCaller(r.Context(), addr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}
