package transport

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/logging"
)

// newRequest builds a GET request with the client's headers.
func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,image/*;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	return req, nil
}

// readResponse reads at most constants.MaxBodyBytes of the body and closes
// it. Non-2xx statuses become an *errors.APIError.
func readResponse(ctx context.Context, resp *http.Response, host, endpoint string) ([]byte, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("url", endpoint).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, &errors.APIError{
			Host:       host,
			StatusCode: resp.StatusCode,
			Message:    strings.ToLower(http.StatusText(resp.StatusCode)),
			Endpoint:   endpoint,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxBodyBytes))
	if err != nil {
		return nil, requestError(host, endpoint, 0, err)
	}
	return body, nil
}

// requestError wraps a failed request as an *errors.APIError. Deadlines and
// client timeouts carry an *errors.TimeoutError, cancellation carries
// errors.ErrCanceled.
func requestError(host, endpoint string, timeout time.Duration, err error) error {
	var netErr net.Error
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, context.Canceled):
		return &errors.APIError{
			Host:     host,
			Endpoint: endpoint,
			Message:  err.Error(),
			Err:      fmt.Errorf("%w: %w", errors.ErrCanceled, err),
		}
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.As(err, &netErr) && netErr.Timeout():
		duration := ""
		if timeout > 0 {
			duration = timeout.String()
		}
		return &errors.APIError{
			Host:     host,
			Endpoint: endpoint,
			Message:  err.Error(),
			Err:      errors.NewTimeoutError("GET "+endpoint, duration, err.Error()),
		}
	}
	return errors.WrapAPI(host, endpoint, err)
}
