package httpgw

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/gateway"
)

type recorded struct {
	method string
	body   string
	auth   string
	reqID  string
}

func newServer(t *testing.T, status int) (*httptest.Server, func() []recorded) {
	t.Helper()
	var mu sync.Mutex
	var got []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, recorded{
			method: r.Method,
			body:   string(b),
			auth:   r.Header.Get("Authorization"),
			reqID:  r.Header.Get(RequestIDHeader),
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), got...)
	}
}

func TestConfirm_CompleteSendsPatch(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK)
	c := New(srv.URL)

	err := c.Confirm(context.Background(), gateway.Request{Action: gateway.ActionComplete, TaskID: 1, RequestID: "req-1"})
	require.NoError(t, err)

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPatch, got[0].method)
	assert.JSONEq(t, `{"done":true}`, got[0].body)
	assert.Equal(t, "req-1", got[0].reqID)
	assert.Empty(t, got[0].auth)
}

func TestConfirm_DeleteSendsDelete(t *testing.T) {
	srv, calls := newServer(t, http.StatusNoContent)
	c := New(srv.URL)

	err := c.Confirm(context.Background(), gateway.Request{Action: gateway.ActionDelete, TaskID: 2})
	require.NoError(t, err)

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodDelete, got[0].method)
	assert.Empty(t, got[0].body)
}

func TestConfirm_Non2xxIsRemoteFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError)
	c := New(srv.URL)

	for _, action := range []gateway.Action{gateway.ActionComplete, gateway.ActionDelete} {
		err := c.Confirm(context.Background(), gateway.Request{Action: action, TaskID: 1})
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, gateway.StatusCode(err), "action %s", action)
	}
}

func TestConfirm_TransportFault(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK)
	url := srv.URL
	srv.Close()

	err := New(url).Confirm(context.Background(), gateway.Request{Action: gateway.ActionDelete, TaskID: 1})
	require.Error(t, err)
	assert.Equal(t, 0, gateway.StatusCode(err))
}

func TestConfirm_UnknownAction(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK)

	err := New(srv.URL).Confirm(context.Background(), gateway.Request{Action: "archive"})
	require.Error(t, err)
	assert.Empty(t, calls())
}

func TestConfirm_BearerToken(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK)
	c := New(srv.URL, WithHTTPClient(srv.Client()), WithBearerToken(context.Background(), "tok"))

	require.NoError(t, c.Confirm(context.Background(), gateway.Request{Action: gateway.ActionComplete, TaskID: 1}))

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, "Bearer tok", got[0].auth)
}

func TestConfirm_BearerTokenSurvivesLaterHTTPClient(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK)
	c := New(srv.URL, WithBearerToken(context.Background(), "tok"), WithHTTPClient(srv.Client()))

	require.NoError(t, c.Confirm(context.Background(), gateway.Request{Action: gateway.ActionDelete, TaskID: 1}))

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, "Bearer tok", got[0].auth)
}

func TestConfirm_Non2xxKeepsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"backend draining"}}`))
	}))
	t.Cleanup(srv.Close)

	err := New(srv.URL).Confirm(context.Background(), gateway.Request{Action: gateway.ActionComplete, TaskID: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, gateway.StatusCode(err))
	assert.Contains(t, err.Error(), "backend draining")
}
