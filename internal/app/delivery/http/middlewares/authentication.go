package middlewares

import (
	"context"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/exceptions"
	"fisioflow-service/internal/pkg/utils"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Authenticate verifies the bearer token and stores the resulting actor in
// the request context. Authorization decisions stay upstream; this layer only
// establishes who is calling for the audit trail.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(constvars.HeaderAuthorization)
		if header == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(m.InternalConfig.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		actor := models.AuditActor{
			UserID:    claimString(claims, "sub"),
			UserName:  claimString(claims, "name"),
			UserRole:  claimString(claims, "role"),
			SessionID: claimString(claims, "session_id"),
		}
		if actor.UserID == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_ACTOR_KEY, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimString(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}
