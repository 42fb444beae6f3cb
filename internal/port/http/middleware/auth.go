package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
)

type ContextKey string

const (
	UserIDCtxKey   = ContextKey("user_id")
	UsernameCtxKey = ContextKey("username")
)

// Claims are the fields read from tokens issued by the user service.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth rejects requests without a valid HMAC-signed bearer token and puts
// the caller identity into the request context.
func JWTAuth(jwtSecret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				http.Error(w, "authorization token is not provided", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				log.Warnf("JWTAuth: rejected token for %s %s: %v", r.Method, r.URL.Path, err)
				if errors.Is(err, jwt.ErrTokenExpired) {
					http.Error(w, "token has expired", http.StatusUnauthorized)
					return
				}
				http.Error(w, "token is invalid", http.StatusUnauthorized)
				return
			}
			if claims.UserID == "" {
				http.Error(w, "user_id not found in token claims", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, claims.UserID)
			ctx = context.WithValue(ctx, UsernameCtxKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity returns the best display name for the authenticated caller, or ""
// when the request was not authenticated.
func Identity(ctx context.Context) string {
	if name, _ := ctx.Value(UsernameCtxKey).(string); name != "" {
		return name
	}
	id, _ := ctx.Value(UserIDCtxKey).(string)
	return id
}
