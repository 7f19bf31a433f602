package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"clinic/utils"
)

type contextKey string

const claimsKey contextKey = "claims"

// AuthMiddleware проверяет JWT токен и добавляет claims в контекст запроса
func AuthMiddleware(jwtKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(tokenString) == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header must use Bearer scheme")
				return
			}

			// Парсим и проверяем токен
			claims, err := utils.ParseToken(jwtKey, strings.TrimSpace(tokenString))
			if err != nil {
				utils.WithComponent("auth").Debug().Err(err).Str("path", r.URL.Path).Msg("invalid token")
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			// Добавляем заголовок X-User-ID
			r.Header.Set("X-User-ID", strconv.FormatUint(uint64(claims.UserID), 10))

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext получает данные пользователя из контекста
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*utils.Claims)
	return claims, ok && claims != nil
}

// WithClaims добавляет claims в контекст
func WithClaims(ctx context.Context, claims *utils.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}
