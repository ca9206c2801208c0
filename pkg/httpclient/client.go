package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// New builds an HTTP client from cfg. The transport stack is a pooled
// http.Transport with a TLS 1.2 floor, wrapped by the logging layer that
// stamps User-Agent and the correlation header.
//
// The client never retries on its own; the sdk call loop owns retry, so a
// transport-level retry layer would multiply attempts.
func New(cfg Config) (*http.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	perHost := cfg.MaxIdleConnsPerHost
	if perHost == 0 {
		perHost = 10
	}

	base := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
		},

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: perHost,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Transport: newLoggingTransport(base, cfg.UserAgent),
		Timeout:   cfg.Timeout,
	}, nil
}
