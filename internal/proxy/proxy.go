// Package proxy implements the request-forwarding and static-serving
// front of the gateway: paths under the configured prefix go to the
// backend origin verbatim, everything else is served from the compiled
// SPA bundle.
package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/fapmendoza/admin-gateway/internal/metrics"
)

// Forwarder relays requests under a path prefix to an upstream origin.
// Method, headers, query and body pass through unchanged; Host and
// Origin are rewritten to the upstream's so the backend sees itself as
// the target. There is no retry: an unreachable upstream fails the one
// request with a 502 and the process keeps serving.
type Forwarder struct {
	prefix   string
	upstream *url.URL
	rp       *httputil.ReverseProxy
	recorder metrics.Recorder
}

// NewForwarder creates a Forwarder for the given upstream origin.
// recorder may be nil; forwarding is then not instrumented.
func NewForwarder(prefix, upstream string, logger *slog.Logger, recorder metrics.Recorder) (*Forwarder, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("upstream url %q missing scheme or host", upstream)
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			// SetURL prefixes the target path; the forwarded path must
			// stay exactly what the caller sent.
			pr.Out.URL.Path = pr.In.URL.Path
			pr.Out.URL.RawPath = pr.In.URL.RawPath
			pr.Out.URL.RawQuery = pr.In.URL.RawQuery
			pr.Out.Host = target.Host
			if pr.Out.Header.Get("Origin") != "" {
				pr.Out.Header.Set("Origin", target.Scheme+"://"+target.Host)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("upstream request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, `{"error":"upstream unavailable","code":"BAD_GATEWAY"}`)
		},
	}

	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return &Forwarder{
		prefix:   strings.TrimRight(prefix, "/"),
		upstream: target,
		rp:       rp,
		recorder: recorder,
	}, nil
}

// Matches reports whether the path falls under the forwarding prefix.
func (f *Forwarder) Matches(path string) bool {
	return path == f.prefix || strings.HasPrefix(path, f.prefix+"/")
}

// ServeHTTP implements http.Handler.
func (f *Forwarder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	f.recorder.IncProxyForwarded()
	f.rp.ServeHTTP(w, r)
	f.recorder.ObserveProxyDuration(time.Since(start))
}

// Upstream returns the configured upstream origin.
func (f *Forwarder) Upstream() string {
	return f.upstream.String()
}
