package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fulldump/box"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

func RecoverFromPanic(l *log.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			defer func() {
				if r := recover(); r != nil {
					l.Error("Panic serving request", "panic", r, "stack", string(debug.Stack()))
					box.SetError(ctx, fmt.Errorf("panic: %v", r))
				}
			}()
			next(ctx)
		}
	}
}

// AccessLog logs one line per request and tags the response with a request
// id, reusing the caller's when present.
func AccessLog(l *log.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			w := box.GetResponse(ctx)

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			now := time.Now()
			defer func() {
				keyvals := []interface{}{
					"id", requestID,
					"remote", formatRemoteAddr(r),
					"method", r.Method,
					"url", r.URL.String(),
					"elapsed", time.Since(now),
				}
				if err := box.GetError(ctx); err != nil {
					keyvals = append(keyvals, "err", err)
				}
				l.Info("Access", keyvals...)
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	i := strings.LastIndex(r.RemoteAddr, ":")
	if i < 0 {
		return r.RemoteAddr
	}
	return r.RemoteAddr[:i]
}
