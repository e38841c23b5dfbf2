package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// ErrorKind tags a failed outbound request
type ErrorKind int

const (
	KindUnhandled ErrorKind = iota
	KindConnection
	KindTimeout
	KindRateLimit
	KindStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindRateLimit:
		return "rate-limit"
	case KindStatus:
		return "status"
	default:
		return "unhandled"
	}
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// checkStatus returns a *StatusError for anything outside 2xx
func checkStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	const maxBody = 256
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &StatusError{Code: resp.StatusCode, Body: string(body)}
}

// RequestError wraps a request failure with its kind and target
type RequestError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s error for %s: %v", e.Kind, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Classify maps an error to its kind. Timeouts are checked before connection
// failures because a dial timeout is also a *net.OpError.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnhandled
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return KindTimeout
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return KindConnection
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Code == http.StatusTooManyRequests {
			return KindRateLimit
		}
		return KindStatus
	}

	return KindUnhandled
}

// Handler applies one logging policy to every outbound request
type Handler struct {
	logger  *log.Logger
	backoff time.Duration
	sleep   func(ctx context.Context, d time.Duration)
}

// NewHandler creates a Handler that sleeps for backoff on rate-limit failures
func NewHandler(logger *log.Logger, backoff time.Duration) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		logger:  logger,
		backoff: backoff,
		sleep:   sleepContext,
	}
}

// Result holds either the value of a request or its kind-tagged failure
type Result[T any] struct {
	Value T
	Err   *RequestError
}

// OK reports whether the request succeeded
func (r Result[T]) OK() bool { return r.Err == nil }

// Kind returns the failure kind. Only meaningful when OK is false.
func (r Result[T]) Kind() ErrorKind {
	if r.Err == nil {
		return KindUnhandled
	}
	return r.Err.Kind
}

// Do runs fn against target. A failure is logged according to its kind and
// returned as a *RequestError with a zero Value.
func Do[T any](ctx context.Context, h *Handler, target string, fn func(context.Context) (T, error)) Result[T] {
	value, err := fn(ctx)
	if err == nil {
		return Result[T]{Value: value}
	}

	kind := h.Report(ctx, target, err)
	return Result[T]{Err: &RequestError{Kind: kind, URL: target, Err: err}}
}

// Report logs err for target according to its kind. Rate-limit failures
// additionally sleep for the fixed backoff.
func (h *Handler) Report(ctx context.Context, target string, err error) ErrorKind {
	kind := Classify(err)
	switch kind {
	case KindConnection:
		h.logger.Info("Failed connecting", "url", target)
		h.logger.Debug("Connection error", "url", target, "err", err)
	case KindTimeout:
		h.logger.Info("Connection timed out", "url", target)
	case KindRateLimit:
		h.logger.Info("Rate limit encountered, sleeping", "url", target, "duration", h.backoff)
		h.sleep(ctx, h.backoff)
	case KindStatus:
		h.logger.Error("Bad response status", "url", target, "err", err)
	default:
		h.logger.Error("Unhandled exception", "url", target, "err", err)
	}
	return kind
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
