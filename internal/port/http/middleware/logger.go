package middleware

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func Logger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.Infof("http request: method=%s path=%s status=%d bytes=%d duration=%s request_id=%s",
					r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start), chimw.GetReqID(r.Context()))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
