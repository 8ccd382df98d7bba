package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/placekeeper/internal/common"
)

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		reqID := middleware.GetReqID(r.Context())
		if reqID != "" {
			ww.Header().Set(common.RequestIDHeader, reqID)
		}

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info(r.Context(), "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"bytes", ww.BytesWritten(),
			"request_id", reqID,
		)
	})
}

// recoverer turns a handler panic into a 500 with the usual JSON envelope.
func (s *HTTPServer) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.logger.Error(r.Context(), "handler panic",
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			writeMessage(r.Context(), s.logger, w, http.StatusInternalServerError, msgUnknownError)
		}()
		next.ServeHTTP(w, r)
	})
}
