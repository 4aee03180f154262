package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RequestFunc builds a fresh request for every attempt, so bodies can be replayed.
type RequestFunc func(ctx context.Context) (*http.Request, error)

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StatusError is returned when the final response is not usable.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	HTTP  *http.Client
	Token string
	Log   *zap.Logger

	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

func (c *Client) backOff(ctx context.Context) backoff.BackOffContext {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 3 * time.Second
	if c.InitialInterval > 0 {
		exp.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		exp.MaxInterval = c.MaxInterval
	}
	if c.MaxElapsedTime > 0 {
		exp.MaxElapsedTime = c.MaxElapsedTime
	}
	return backoff.WithContext(exp, ctx)
}

// Do sends the request, retrying transport errors and 5xx responses with
// exponential backoff. Any response below 500 is returned as is.
func (c *Client) Do(ctx context.Context, build RequestFunc) (*Response, error) {
	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}

	var out *Response
	attempt := 0
	op := func() error {
		attempt++
		req, err := build(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}
		resp, err := httpc.Do(req)
		if err != nil {
			log.Warn("httpx.request_failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		if resp.StatusCode >= 500 {
			log.Warn("httpx.server_error", zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode))
			return &StatusError{StatusCode: resp.StatusCode, Body: body}
		}
		out = &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
		return nil
	}
	if err := backoff.Retry(op, c.backOff(ctx)); err != nil {
		return nil, err
	}
	return out, nil
}

// DoJSON is Do plus decoding of a 200 response into out.
func (c *Client) DoJSON(ctx context.Context, build RequestFunc, out any) error {
	resp, err := c.Do(ctx, build)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
