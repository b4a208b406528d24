package main

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ctxKeySessionID struct{}

const cookieSessionID = "shop_session-id"

// responseRecorder captures the status code written by a handler.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (rr *responseRecorder) WriteHeader(status int) {
	rr.status = status
	rr.ResponseWriter.WriteHeader(status)
}

// logHandler emits one structured log line per request.
type logHandler struct {
	log  *logrus.Logger
	next http.Handler
}

func (lh *logHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
	lh.next.ServeHTTP(rr, r)
	lh.log.WithFields(logrus.Fields{
		"http.req.method":   r.Method,
		"http.req.path":     r.URL.Path,
		"http.resp.status":  rr.status,
		"http.resp.took_ms": time.Since(start).Milliseconds(),
		"session":           sessionID(r.Context()),
	}).Debug("request complete")
}

// ensureSessionID assigns each browser a session cookie; the session id
// keys the user's cart and feed state.
func ensureSessionID(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		c, err := r.Cookie(cookieSessionID)
		if err == http.ErrNoCookie {
			id = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:   cookieSessionID,
				Value:  id,
				MaxAge: int((48 * time.Hour).Seconds()),
			})
		} else if err != nil {
			http.Error(w, "invalid cookie", http.StatusBadRequest)
			return
		} else {
			id = c.Value
		}
		ctx := context.WithValue(r.Context(), ctxKeySessionID{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func sessionID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKeySessionID{}).(string); ok {
		return id
	}
	return ""
}
