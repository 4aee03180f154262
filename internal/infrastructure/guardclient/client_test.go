package guardclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"idempotency-guard/internal/application"
	"idempotency-guard/internal/domain"
	"idempotency-guard/internal/infrastructure/guardclient"
	httpserver "idempotency-guard/internal/infrastructure/http"
	"idempotency-guard/internal/infrastructure/httpx"
	"idempotency-guard/internal/infrastructure/memstore"

	"github.com/stretchr/testify/require"
)

func newGuardServer(t *testing.T) *httptest.Server {
	t.Helper()
	guard := application.NewIdempotencyGuard(memstore.New())
	ts := httptest.NewServer(httpserver.NewRouter(httpserver.NewServer(guard)))
	t.Cleanup(ts.Close)
	return ts
}

func TestSubmit_AgainstServer(t *testing.T) {
	ts := newGuardServer(t)
	c := guardclient.New(ts.URL, nil)
	ctx := context.Background()
	tok := "abc123"

	res, err := c.Submit(ctx, nil, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeNoToken, res.Outcome)

	res, err = c.Submit(ctx, &tok, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeAccepted, res.Outcome)
	require.Equal(t, "5d41402abc4b2a76b9719d911017c592", res.Digest)

	res, err = c.Submit(ctx, &tok, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeDuplicateConfirmed, res.Outcome)

	res, err = c.Submit(ctx, &tok, []byte("world"))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeConflict, res.Outcome)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	rec, err := c.GetRecord(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, "5d41402abc4b2a76b9719d911017c592", rec.Digest)
}

func TestSubmit_InvalidTokenIsError(t *testing.T) {
	ts := newGuardServer(t)
	c := guardclient.New(ts.URL, nil)
	blank := " "

	_, err := c.Submit(context.Background(), &blank, []byte("x"))
	var se *httpx.StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusBadRequest, se.StatusCode)
}

func TestSubmit_RetriesStoreErrors(t *testing.T) {
	inner := newGuardServer(t)
	var calls atomic.Int32
	flaky := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"code":500,"message":"store get: timeout"}`, http.StatusInternalServerError)
			return
		}
		req, _ := http.NewRequestWithContext(r.Context(), r.Method, inner.URL+r.URL.Path, r.Body)
		req.Header = r.Header.Clone()
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}))
	t.Cleanup(flaky.Close)

	c := guardclient.New(flaky.URL, &httpx.Client{InitialInterval: time.Millisecond, MaxElapsedTime: time.Second})
	tok := "retry-me"
	res, err := c.Submit(context.Background(), &tok, []byte("body"))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeAccepted, res.Outcome)
	require.EqualValues(t, 2, calls.Load())
}
