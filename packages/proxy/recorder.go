// Package proxy provides an HTTP reverse proxy that records exchanges.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
	hithttp "github.com/abdul-hamid-achik/hitcmd/packages/http"
	"github.com/abdul-hamid-achik/hitcmd/packages/logging"
)

// Redacted replaces the value of redacted headers.
const Redacted = "REDACTED"

var ErrNoTarget = errors.New("target URL is required")

type contextKey struct{}

// pending is the request half of an exchange waiting for its response.
type pending struct {
	start time.Time
	req   *hithttp.Request
}

// Recorder is an HTTP proxy that records requests and responses
type Recorder struct {
	addr        string
	targetURL   string
	recordings  []capture.Recording
	mutex       sync.Mutex
	logger      *slog.Logger
	exclude     []string
	redact      []string
	deduplicate bool
	seen        map[string]bool
	limiter     *rate.Limiter
	onRecord    func(capture.Recording) error
}

// Option is a functional option for Recorder
type Option func(*Recorder)

// WithPort sets the port to listen on
func WithPort(port int) Option {
	return func(r *Recorder) {
		r.addr = fmt.Sprintf(":%d", port)
	}
}

// WithAddr sets the full listen address
func WithAddr(addr string) Option {
	return func(r *Recorder) {
		r.addr = addr
	}
}

// WithTargetURL sets the target URL to proxy to
func WithTargetURL(target string) Option {
	return func(r *Recorder) {
		r.targetURL = target
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithExclude sets path prefixes that are proxied but not recorded
func WithExclude(prefixes []string) Option {
	return func(r *Recorder) {
		r.exclude = prefixes
	}
}

// WithRedact sets headers whose values are masked in recordings
func WithRedact(headers []string) Option {
	return func(r *Recorder) {
		r.redact = headers
	}
}

// WithDeduplicate records only the first exchange per method and path
func WithDeduplicate(enabled bool) Option {
	return func(r *Recorder) {
		r.deduplicate = enabled
	}
}

// WithRateLimit caps recordings per second. Requests over the limit are
// still proxied. A limit of zero or less disables the cap.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(r *Recorder) {
		if perSecond <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// WithOnRecord sets a sink called for every recording, such as the history
// store. Errors are logged and do not affect the proxied exchange.
func WithOnRecord(fn func(capture.Recording) error) Option {
	return func(r *Recorder) {
		r.onRecord = fn
	}
}

// NewRecorder creates a new recording proxy
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		addr:       ":8080",
		recordings: make([]capture.Recording, 0),
		logger:     logging.Nop(),
		seen:       make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handler returns the recording reverse proxy handler.
func (r *Recorder) Handler() (http.Handler, error) {
	if r.targetURL == "" {
		return nil, ErrNoTarget
	}

	target, err := url.Parse(r.targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid target URL: %q must be absolute", r.targetURL)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Host = target.Host
		},
		ModifyResponse: r.recordResponse,
		ErrorHandler: func(w http.ResponseWriter, req *http.Request, err error) {
			r.logger.Error("upstream request failed", "method", req.Method, "path", req.URL.Path, "error", err)
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	return r.wrap(proxy), nil
}

// Start runs the proxy until ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) error {
	handler, err := r.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", r.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.addr, err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	r.logger.Info("recording proxy started", "addr", ln.Addr().String(), "target", r.targetURL)

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Recorder) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if r.shouldExclude(req.URL.Path) {
			r.logger.Debug("excluded", "method", req.Method, "path", req.URL.Path)
			next.ServeHTTP(w, req)
			return
		}
		if r.limiter != nil && !r.limiter.Allow() {
			r.logger.Debug("rate limited, not recorded", "method", req.Method, "path", req.URL.Path)
			next.ServeHTTP(w, req)
			return
		}

		var bodyBytes []byte
		if req.Body != nil {
			bodyBytes, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		p := &pending{
			start: time.Now(),
			req:   hithttp.FromNetRequest(req, bodyBytes),
		}

		next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), contextKey{}, p)))
	})
}

func (r *Recorder) recordResponse(resp *http.Response) error {
	p, ok := resp.Request.Context().Value(contextKey{}).(*pending)
	if !ok {
		return nil
	}

	var bodyBytes []byte
	if resp.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return err
		}
		resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	}

	res := hithttp.FromNetResponse(resp, bodyBytes, time.Since(p.start))

	// Record the upstream URL and host rather than the proxy's.
	p.req.URL = resp.Request.URL.String()
	for i := range p.req.Headers {
		if strings.EqualFold(p.req.Headers[i].Name, "Host") {
			p.req.Headers[i].Value = resp.Request.Host
		}
	}
	p.req.Headers = r.redactHeaders(p.req.Headers)
	res.Headers = r.redactHeaders(res.Headers)
	rec := capture.FromExchange(p.req, res, p.start)

	if r.deduplicate {
		key := rec.Request.Method + ":" + resp.Request.URL.Path
		r.mutex.Lock()
		if r.seen[key] {
			r.mutex.Unlock()
			r.logger.Debug("skipped duplicate", "method", rec.Request.Method, "path", resp.Request.URL.Path)
			return nil
		}
		r.seen[key] = true
		r.mutex.Unlock()
	}

	r.mutex.Lock()
	r.recordings = append(r.recordings, rec)
	r.mutex.Unlock()

	r.logger.Info("recorded", "method", rec.Request.Method, "url", rec.Request.URL,
		"status", resp.StatusCode, "duration_ms", rec.Response.DurationMs)

	if r.onRecord != nil {
		if err := r.onRecord(rec); err != nil {
			r.logger.Warn("record sink failed", "url", rec.Request.URL, "error", err)
		}
	}
	return nil
}

func (r *Recorder) shouldExclude(path string) bool {
	for _, prefix := range r.exclude {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (r *Recorder) redactHeaders(headers []hithttp.Header) []hithttp.Header {
	if len(r.redact) == 0 {
		return headers
	}
	out := make([]hithttp.Header, len(headers))
	for i, h := range headers {
		out[i] = h
		for _, name := range r.redact {
			if strings.EqualFold(h.Name, name) {
				out[i].Value = Redacted
				break
			}
		}
	}
	return out
}

// Recordings returns a copy of everything recorded so far
func (r *Recorder) Recordings() []capture.Recording {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	result := make([]capture.Recording, len(r.recordings))
	copy(result, r.recordings)
	return result
}

// Clear clears all recordings
func (r *Recorder) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.recordings = make([]capture.Recording, 0)
	r.seen = make(map[string]bool)
}

// WriteCapture saves the recordings to a capture file
func (r *Recorder) WriteCapture(path string) error {
	return capture.Write(path, r.Recordings())
}
