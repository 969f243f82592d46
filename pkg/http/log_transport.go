package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// payloadContextKey carries the marshalled request body to the log transport
type payloadContextKey struct{}

// maxLoggedPayload keeps large documents out of debug logs
const maxLoggedPayload = 2048

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	logger := ctxzap.Extract(ctx)

	if ce := logger.Check(zapcore.DebugLevel, "HTTP outbound request"); ce != nil {
		fields := []zap.Field{
			zap.String("method", req.Method),
			zap.String("url", req.URL.Redacted()),
		}
		if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok {
			fields = append(fields, zap.Int("payload_size", len(payload)))
			if len(payload) > maxLoggedPayload {
				payload = payload[:maxLoggedPayload]
			}
			fields = append(fields, zap.ByteString("payload", payload))
		}
		ce.Write(fields...)
	}

	start := time.Now()
	resp, err := t.transport.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		logger.Debug("HTTP outbound request failed",
			zap.String("url", req.URL.Redacted()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Debug("HTTP outbound response",
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
	)

	return resp, nil
}

// WithRequestLogging logs every outbound exchange at debug level. Request
// headers are never logged, so credentials stay out of the logs.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{transport: rt}
	})
}
