package httpx

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func httpClientRT(rt http.RoundTripper) *http.Client {
	return &http.Client{Transport: rt, Timeout: 2 * time.Second}
}

func respond(r *http.Request, code int, body string) *http.Response {
	return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(body)), Header: make(http.Header), Request: r}
}

func fastClient(rt http.RoundTripper) *Client {
	return &Client{HTTP: httpClientRT(rt), InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond, MaxElapsedTime: time.Second}
}

func postBody(body string) RequestFunc {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodPost, "http://example.com", strings.NewReader(body))
	}
}

func TestDo_Retry500ReplaysBody(t *testing.T) {
	var calls int
	var bodies []string
	c := fastClient(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if calls == 1 {
			return respond(r, 500, "err"), nil
		}
		return respond(r, 200, `{"ok": true}`), nil
	}))
	resp, err := c.Do(context.Background(), postBody("payload"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if calls != 2 || bodies[0] != "payload" || bodies[1] != "payload" {
		t.Fatalf("expected body replayed on retry, got %q", bodies)
	}
}

type tempTimeoutErr struct{}

func (tempTimeoutErr) Error() string   { return "timeout" }
func (tempTimeoutErr) Timeout() bool   { return true }
func (tempTimeoutErr) Temporary() bool { return true }

func TestDoJSON_RetryNetTimeoutThen200(t *testing.T) {
	var calls int
	c := fastClient(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		if calls == 1 {
			var ne net.Error = tempTimeoutErr{}
			return nil, ne
		}
		return respond(r, 200, `{"ok": true}`), nil
	}))
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.DoJSON(context.Background(), postBody(""), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected ok=true")
	}
}

func TestDo_NoRetryOn400(t *testing.T) {
	var calls int
	c := fastClient(rtFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return respond(r, 400, "bad"), nil
	}))
	resp, err := c.Do(context.Background(), postBody("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 400 || string(resp.Body) != "bad" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, resp.Body)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDo_GivesUpWithStatusError(t *testing.T) {
	c := fastClient(rtFunc(func(r *http.Request) (*http.Response, error) {
		return respond(r, 503, "store down"), nil
	}))
	c.MaxElapsedTime = 20 * time.Millisecond
	_, err := c.Do(context.Background(), postBody("x"))
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != 503 {
		t.Fatalf("expected StatusError 503, got %v", err)
	}
}

func TestDoJSON_DecodeError(t *testing.T) {
	c := fastClient(rtFunc(func(r *http.Request) (*http.Response, error) {
		return respond(r, 200, "{x"), nil
	}))
	var out map[string]any
	err := c.DoJSON(context.Background(), postBody(""), &out)
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
