package middleware

import (
	"net/http"

	"mon-mentale-api/pkg/response"

	"github.com/sirupsen/logrus"
)

type RecoveryMiddleware struct {
	log *logrus.Logger
}

func NewRecoveryMiddleware(log *logrus.Logger) *RecoveryMiddleware {
	return &RecoveryMiddleware{log: log}
}

func (m *RecoveryMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				m.log.Errorf("Panic recovered on %s %s: %+v", r.Method, r.URL.Path, rec)
				response.InternalServerError(w, "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
