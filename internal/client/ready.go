package client

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

// WaitReady blocks until the backend answers an HTTP request, retrying with
// exponential backoff for at most maxElapsed. Any status code counts as
// ready; only transport failures are retried.
func (c *Client) WaitReady(ctx context.Context, maxElapsed time.Duration) error {
	probe := func() (int, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
		if err != nil {
			return 0, backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, err
		}
		resp.Body.Close()

		return resp.StatusCode, nil
	}

	status, err := backoff.Retry(ctx, probe,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(maxElapsed),
		backoff.WithNotify(func(err error, next time.Duration) {
			zerolog.Ctx(ctx).Debug().
				Err(err).
				Dur("retry_in", next).
				Str("server", c.baseURL).
				Msg("backend not ready")
		}),
	)
	if err != nil {
		return &NetworkError{Method: http.MethodGet, Path: "/", Err: err}
	}

	zerolog.Ctx(ctx).Debug().Int("status", status).Str("server", c.baseURL).Msg("backend ready")
	return nil
}
