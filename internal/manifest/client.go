package manifest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	"github.com/nao1215/spngbench/internal/config"
)

// ClientOptions configures the HTTP client used for remote manifests.
type ClientOptions struct {
	// ProxyAddress routes requests through a SOCKS5 proxy when set ("host:port").
	ProxyAddress string

	// Timeout bounds each request. Zero means no client-level timeout.
	Timeout time.Duration

	// Headers are added to every request.
	Headers map[string]string

	// UserAgent sets the User-Agent header when non-empty.
	UserAgent string
}

// NewHTTPClient creates an HTTP client for manifest retrieval.
// Without a proxy it clones http.DefaultTransport; with one, all connections
// are dialed through SOCKS5.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport type %T", http.DefaultTransport)
	}
	transport := base.Clone()

	if opts.ProxyAddress != "" {
		if !config.IsValidProxyAddress(opts.ProxyAddress) {
			return nil, config.ErrInvalidProxyAddress
		}

		dialer, err := proxy.SOCKS5("tcp", opts.ProxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = socksDialContext(dialer)
	}

	return &http.Client{
		Transport: &headerInjectingTransport{
			base:      transport,
			headers:   opts.Headers,
			userAgent: opts.UserAgent,
		},
		Timeout: opts.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// socksDialContext adapts a proxy.Dialer to a context-aware dial function.
func socksDialContext(dialer proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)

		go func() {
			conn, err := dialer.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// headerInjectingTransport adds configured headers to every request,
// including redirects.
type headerInjectingTransport struct {
	base      http.RoundTripper
	headers   map[string]string
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
