package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/five82/playercard/internal/profile"
	"github.com/five82/playercard/internal/profileapi"
)

type ctxKey int

const accountKey ctxKey = iota

func accountFrom(ctx context.Context) (profile.Record, bool) {
	rec, ok := ctx.Value(accountKey).(profile.Record)
	return rec, ok
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// instrument logs every request and records its latency by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		// Route patterns keep label cardinality bounded.
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		httpRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Observe(elapsed.Seconds())

		s.log.Debug().
			Str("event", "http.request").
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("route", route).
			Int("status", sw.status).
			Dur("duration", elapsed).
			Msg("request served")
	})
}

// rateLimit caps requests per client IP per minute.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	if s.requestsPerMinute <= 0 {
		return next
	}
	return httprate.Limit(
		s.requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			rateLimited.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Minute.Seconds())))
			writeError(w, http.StatusTooManyRequests, profileapi.CodeRateLimited, "Too many requests. Please try again later.")
		}),
	)(next)
}

// authenticate resolves the bearer token to its profile.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, profileapi.CodeUnauthorized, "Missing bearer token")
			return
		}

		rec, err := s.repo.ByToken(r.Context(), token)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusUnauthorized, profileapi.CodeUnauthorized, "Unknown session")
			return
		case err != nil:
			s.log.Error().Err(err).Str("event", "auth.lookup_failed").Msg("token lookup failed")
			writeError(w, http.StatusInternalServerError, profileapi.CodeInternal, "")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey, rec)))
	})
}
