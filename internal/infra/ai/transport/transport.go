package transport

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds one completion exchange end to end.
const DefaultTimeout = 60 * time.Second

// NewHTTPClient builds the process-wide client used by completion adapters.
// A proxy that cannot be used is logged and skipped; requests then go direct.
func NewHTTPClient(proxy string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	tr := &http.Transport{
		Proxy: nil,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	if proxy != "" {
		if u, ok := ParseProxy(proxy); ok {
			tr.Proxy = http.ProxyURL(u)
			log.Info().Str("proxy", u.Redacted()).Msg("completion client using proxy")
		} else {
			log.Warn().Str("proxy", proxy).Msg("proxy address is not usable, requests will ignore proxy settings")
		}
	}

	return &http.Client{Transport: tr, Timeout: timeout}
}

// ParseProxy accepts http, https and socks5 proxy URLs with a host.
func ParseProxy(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, false
	}
	switch u.Scheme {
	case "http", "https", "socks5":
		return u, true
	default:
		return nil, false
	}
}
