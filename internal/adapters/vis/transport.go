package vis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Transport kinds accepted by NewTransport.
const (
	TransportDirect = "direct"
	TransportProxy  = "proxy"
)

const maxResponseBytes = 8 << 20

// Response is a raw upstream reply. Non-2xx statuses are not errors at this
// level; the client classifies them.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport performs one GET against an absolute URL.
type Transport interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

// DirectTransport calls the VIS endpoint itself.
type DirectTransport struct {
	client    *http.Client
	userAgent string
}

// NewDirectTransport returns a transport using client. A nil client uses
// http.DefaultClient; call deadlines come from the request context.
func NewDirectTransport(client *http.Client, userAgent string) *DirectTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &DirectTransport{client: client, userAgent: userAgent}
}

// Fetch implements Transport.
func (t *DirectTransport) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// ProxyTransport relays every call through a proxy that takes the target
// as its url query parameter.
type ProxyTransport struct {
	proxyURL string
	next     *DirectTransport
}

// NewProxyTransport returns a transport relaying through proxyURL.
func NewProxyTransport(proxyURL string, client *http.Client, userAgent string) *ProxyTransport {
	return &ProxyTransport{proxyURL: proxyURL, next: NewDirectTransport(client, userAgent)}
}

// Fetch implements Transport.
func (t *ProxyTransport) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	sep := "?"
	if strings.Contains(t.proxyURL, "?") {
		sep = "&"
	}
	return t.next.Fetch(ctx, t.proxyURL+sep+"url="+url.QueryEscape(rawURL))
}

// NewTransport builds the transport named by kind.
func NewTransport(kind, proxyURL string, client *http.Client, userAgent string) (Transport, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", TransportDirect:
		return NewDirectTransport(client, userAgent), nil
	case TransportProxy:
		if proxyURL == "" {
			return nil, ErrProxyURLRequired
		}
		return NewProxyTransport(proxyURL, client, userAgent), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, kind)
	}
}
