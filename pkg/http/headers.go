package http

import "net/http"

// headerTransport sets fixed headers on every outbound request
type headerTransport struct {
	headers   http.Header
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	for key, values := range t.headers {
		out.Header[key] = values
	}
	return t.transport.RoundTrip(out)
}

func withHeader(key, value string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		h := make(http.Header)
		h.Set(key, value)
		return &headerTransport{headers: h, transport: rt}
	})
}

// WithBearerToken authenticates every request with token. An empty token
// sends no Authorization header.
func WithBearerToken(token string) HttpOpts {
	if token == "" {
		return func(*httpConfig) {}
	}
	return withHeader("Authorization", "Bearer "+token)
}

// WithUserAgent identifies the client to the upstream service
func WithUserAgent(agent string) HttpOpts {
	return withHeader("User-Agent", agent)
}
