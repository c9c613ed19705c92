package middlewares

import (
	"net/http"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// SessionOptional attaches the caller's session when the bearer token
// resolves. Anything else continues as an anonymous, read-only request.
func (m *Middlewares) SessionOptional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		session, err := m.SessionProvider.Resolve(ctx, r.Header.Get(constvars.HeaderAuthorization))
		if err != nil {
			m.Log.Info("SessionOptional continuing as anonymous",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.Error(err),
			)
			next.ServeHTTP(w, r)
			return
		}
		if session == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithSession(ctx, session)))
	})
}

// RequireSession rejects anonymous requests. It must run after
// SessionOptional.
func (m *Middlewares) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.GetSession(r.Context()) == nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrNoSession())
			return
		}
		next.ServeHTTP(w, r)
	})
}
