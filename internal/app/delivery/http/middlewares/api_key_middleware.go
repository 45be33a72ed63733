package middlewares

import (
	"context"
	"crypto/subtle"
	"fisioflow-service/internal/app/models"
	"fisioflow-service/internal/pkg/constvars"
	"fisioflow-service/internal/pkg/exceptions"
	"fisioflow-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

const HeaderAPIKey = "x-api-key"

// RequireAPIKey guards the administrative sweep endpoints. Requests carry the
// superadmin key or are rejected; a matching key acts as the system actor.
func (m *Middlewares) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(HeaderAPIKey)
		if apiKey == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.InternalConfig.App.SuperadminAPIKey)) != 1 {
			m.Log.Warn("API key authentication failed",
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_API_KEY_AUTH, true)
		ctx = context.WithValue(ctx, constvars.CONTEXT_ACTOR_KEY, models.SystemActor())

		m.Log.Info("API key authentication successful",
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
