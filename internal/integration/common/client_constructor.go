package common

import (
	"github.com/futig/ai-workbench/internal/config"
	pkgHTTP "github.com/futig/ai-workbench/pkg/http"
	"go.uber.org/zap"
)

const userAgent = "ai-workbench/1.0"

// NewBaseConnector builds a JSON connector for an upstream configured by cfg.
// Placeholder tokens are not sent.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	token := cfg.Token
	if !config.HasCredential(token) {
		token = ""
	}

	return pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{
			Logger:  logger,
			BaseURL: cfg.Url,
		},
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithDialTimeout(cfg.ConnTimeout),
		pkgHTTP.WithKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithBearerToken(token),
		pkgHTTP.WithUserAgent(userAgent),
	)
}
