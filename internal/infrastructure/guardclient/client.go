package guardclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"idempotency-guard/internal/domain"
	"idempotency-guard/internal/infrastructure/httpx"
)

const tokenHeader = "Idempotency-Token"

// Result is the guard's verdict for one submitted request.
type Result struct {
	StatusCode int
	Outcome    domain.OutcomeKind
	Message    string
	Digest     string
}

type Record struct {
	Token     string `json:"token"`
	Digest    string `json:"digest"`
	CreatedAt string `json:"created_at"`
}

// Client talks to the guard's HTTP API. Retries of 5xx responses are safe
// because a token makes the request idempotent on the server side.
type Client struct {
	BaseURL string
	HTTP    *httpx.Client
}

func New(baseURL string, hc *httpx.Client) *Client {
	if hc == nil {
		hc = &httpx.Client{}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: hc}
}

// Submit posts payload with token. A nil token sends no header.
func (c *Client) Submit(ctx context.Context, token *string, payload []byte) (Result, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/requests", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/octet-stream")
		if token != nil {
			req.Header.Set(tokenHeader, *token)
		}
		return req, nil
	}
	resp, err := c.HTTP.Do(ctx, build)
	if err != nil {
		return Result{}, err
	}

	var body struct {
		Outcome string `json:"outcome"`
		Message string `json:"message"`
		Digest  string `json:"digest"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Outcome == "" {
		return Result{}, &httpx.StatusError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return Result{
		StatusCode: resp.StatusCode,
		Outcome:    domain.OutcomeKind(body.Outcome),
		Message:    body.Message,
		Digest:     body.Digest,
	}, nil
}

func (c *Client) GetRecord(ctx context.Context, token string) (Record, error) {
	var rec Record
	build := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/records/"+url.PathEscape(token), nil)
	}
	if err := c.HTTP.DoJSON(ctx, build, &rec); err != nil {
		return Record{}, fmt.Errorf("get record %q: %w", token, err)
	}
	return rec, nil
}
