package resilience

import (
	"errors"
	"net"
	"net/http"
	"syscall"
)

// StatusCoder is implemented by provider errors that carry the HTTP status
// of the failed response.
type StatusCoder interface {
	HTTPStatus() int
}

// RetryableStatus reports whether an HTTP status is a throttling or
// server-side failure that may clear on its own.
func RetryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Retryable is the default Policy.Retryable: retryable statuses, network
// timeouts and dropped or refused connections.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return RetryableStatus(sc.HTTPStatus())
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED)
}
