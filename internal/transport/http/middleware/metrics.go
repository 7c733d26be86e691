package middleware

import (
	"net/http"
	"time"
)

// StatusRecorder is satisfied by metrics.Collector.
type StatusRecorder interface {
	Record(status int, duration time.Duration)
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusWriter) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusWriter) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

func (s *statusWriter) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func Metrics(recorder StatusRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if recorder == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				status := sw.status
				if rec := recover(); rec != nil {
					recorder.Record(http.StatusInternalServerError, time.Since(start))
					panic(rec)
				}
				recorder.Record(status, time.Since(start))
			}()
			next.ServeHTTP(sw, r)
		})
	}
}
