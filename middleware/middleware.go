package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"slotboard/globals"
)

// Claims is the JWT payload issued by the host forum's session subsystem.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	jwt.RegisteredClaims
}

// OptionalAuth attaches the caller's user id to the context when a valid
// bearer token is present and proceeds regardless. Identity is optional on
// every route here: the gate decides per route whether credentials are
// required, and share tokens substitute for login entirely.
func OptionalAuth(secret []byte) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			if raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				claims := &Claims{}
				token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
					return secret, nil
				})
				if err == nil && token.Valid && claims.UserID != "" {
					r = r.WithContext(context.WithValue(r.Context(), globals.UserIDKey, claims.UserID))
				}
			}
			next(w, r, ps)
		}
	}
}

// UserID pulls the authenticated user id out of the request context. Empty
// when the caller is anonymous.
func UserID(r *http.Request) string {
	if uid, ok := r.Context().Value(globals.UserIDKey).(string); ok {
		return uid
	}
	return ""
}
