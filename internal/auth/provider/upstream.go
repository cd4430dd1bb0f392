package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ItsFelix5/flavor-adventure/internal/auth"
)

// UpstreamTimeout bounds every outbound call to an identity provider.
const UpstreamTimeout = 15 * time.Second

// NewHTTPClient returns the client adapters use for provider endpoints.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: UpstreamTimeout}
}

// WrapUpstreamError classifies a failed provider call: timeouts become
// auth.ErrUpstreamTimeout, everything else wraps the given sentinel.
func WrapUpstreamError(err error, sentinel error) error {
	if IsTimeout(err) {
		return fmt.Errorf("%w: %v", auth.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
