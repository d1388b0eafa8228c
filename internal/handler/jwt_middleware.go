package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const (
	CtxUserID   ctxKey = "userId"
	CtxUserRole ctxKey = "role"
)

// parseClaims valida el token firmado con HMAC y extrae sub (userId) y role.
func parseClaims(tokenStr string, secret []byte) (userID int, role string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return 0, "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("claims inesperados")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("sub ausente o no numérico")
	}
	role, _ = claims["role"].(string)
	return int(sub), role, nil
}

// JWTAuth valida el Bearer token de Authorization y deja userId y role
// en el contexto del request. Los tokens los emite el servicio de cuentas;
// acá solo se verifican.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if authHeader == "" || tokenStr == authHeader {
				http.Error(w, "missing or invalid Authorization header", http.StatusUnauthorized)
				return
			}

			userID, role, err := parseClaims(tokenStr, secretBytes)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUserID, userID)
			ctx = context.WithValue(ctx, CtxUserRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly solo deja pasar a role == "admin".
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(CtxUserRole).(string)
			if role != "admin" {
				http.Error(w, "admin only", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext saca el userId que dejó JWTAuth; 0 si no hay sesión.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(CtxUserID).(int); ok {
		return id
	}
	return 0
}
