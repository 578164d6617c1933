package logger

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

var _ http.RoundTripper = (*RequestLogger)(nil)

// RequestLogger logs every backend call using the logger stored in the
// request context.
type RequestLogger struct {
	next http.RoundTripper
}

func NewRequestLogger(next http.RoundTripper) *RequestLogger {
	return &RequestLogger{next: next}
}

func (l *RequestLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	started := time.Now()

	log := zerolog.Ctx(req.Context()).With().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Logger()

	resp, err := l.next.RoundTrip(req)
	if err != nil {
		log.Error().
			Err(err).
			Dur("duration", time.Since(started)).
			Msg("http request")

		return resp, err
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("http request")

	return resp, nil
}
