// Package logger configures logrus for the process and attaches
// request-scoped loggers carrying a request ID.
package logger

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKeyRequestLoggerType struct{}

var contextKeyRequestLogger = &contextKeyRequestLoggerType{}

// Init sets up the process-wide formatter and level.
func Init(debug bool) {
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	logrus.SetFormatter(customFormatter)
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// FromContext returns the request logger, or the default logger when the
// context has none.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if rlog, ok := ctx.Value(contextKeyRequestLogger).(*logrus.Entry); ok {
			return rlog
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// Middleware adds a request-ID logger to the request context and writes one
// access-log line per request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		rlog := logrus.WithField("requestID", requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestLogger, rlog)

		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		recorder.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(recorder, r.WithContext(ctx))

		rlog.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      recorder.status,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
