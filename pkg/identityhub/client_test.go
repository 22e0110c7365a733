package identityhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcfw/vcverify/pkg/credential"
	"github.com/tcfw/vcverify/pkg/identityhub/hubtest"
)

func newClient(t *testing.T, opts ...Option) *HTTPClient {
	c, err := NewHTTPClient(opts...)
	require.NoError(t, err)
	return c
}

func TestAddListRoundTrip(t *testing.T) {
	srv := hubtest.NewServer()
	defer srv.Close()

	ctx := context.Background()
	c := newClient(t)
	hub := srv.HubURL("alice")

	envs := []credential.Envelope{
		credential.NewEnvelope("jwt", []byte("a.b.c")),
		credential.NewEnvelope("jwt", []byte("d.e.f")),
		credential.NewEnvelope("ldp_vc", []byte(`{"id":"x"}`)),
	}

	for _, env := range envs {
		ack, err := c.AddCredential(ctx, hub, env)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, ack.StatusCode)
	}

	got, err := c.ListCredentials(ctx, hub)
	require.NoError(t, err)
	assert.Equal(t, envs, got)

	//hubs are separate
	other, err := c.ListCredentials(ctx, srv.HubURL("bob")+"/")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUnauthorized(t *testing.T) {
	srv := hubtest.NewServer(hubtest.WithToken("s3cret"))
	defer srv.Close()

	ctx := context.Background()

	_, err := newClient(t).ListCredentials(ctx, srv.HubURL("alice"))
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = newClient(t, WithAuthToken("wrong")).AddCredential(ctx, srv.HubURL("alice"), credential.NewEnvelope("jwt", []byte("x")))
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = newClient(t, WithAuthToken("s3cret")).ListCredentials(ctx, srv.HubURL("alice"))
	assert.NoError(t, err)
}

func TestServerError(t *testing.T) {
	srv := hubtest.NewServer()
	defer srv.Close()

	srv.Hub.FailWith(http.StatusInternalServerError)

	_, err := newClient(t).ListCredentials(context.Background(), srv.HubURL("alice"))
	assert.True(t, errors.Is(err, ErrServerError))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Status)
}

func TestMalformedListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	_, err := newClient(t).ListCredentials(context.Background(), srv.URL)
	assert.True(t, errors.Is(err, ErrServerError))
}

func TestRetries(t *testing.T) {
	srv := hubtest.NewServer()
	defer srv.Close()

	srv.Hub.FailWith(http.StatusServiceUnavailable)

	c := newClient(t, WithRetries(2, time.Millisecond, 5*time.Millisecond))

	_, err := c.ListCredentials(context.Background(), srv.HubURL("alice"))
	assert.True(t, errors.Is(err, ErrServerError))
	assert.Equal(t, 3, srv.Hub.Requests())

	//client errors are not retried
	srv.Hub.FailWith(http.StatusBadRequest)
	_, err = c.ListCredentials(context.Background(), srv.HubURL("alice"))
	assert.True(t, errors.Is(err, ErrServerError))
	assert.Equal(t, 4, srv.Hub.Requests())
}

func TestTimeout(t *testing.T) {
	srv := hubtest.NewServer(hubtest.WithDelay(2 * time.Second))
	defer srv.Close()

	_, err := newClient(t, WithTimeout(50*time.Millisecond)).ListCredentials(context.Background(), srv.HubURL("alice"))
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = newClient(t).ListCredentials(ctx, srv.HubURL("alice"))
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

func TestConnectionFailure(t *testing.T) {
	srv := hubtest.NewServer()
	hub := srv.HubURL("alice")
	srv.Close()

	_, err := newClient(t).ListCredentials(context.Background(), hub)
	assert.True(t, errors.Is(err, ErrConnectionFailure))

	for _, bad := range []string{"", "hub.example.com", "ftp://hub.example.com", "http://"} {
		_, err = newClient(t).ListCredentials(context.Background(), bad)
		assert.True(t, errors.Is(err, ErrConnectionFailure), bad)
	}
}

func TestInvalidOptions(t *testing.T) {
	_, err := NewHTTPClient(WithTimeout(0))
	assert.Error(t, err)

	_, err = NewHTTPClient(WithRetries(-1, 0, 0))
	assert.Error(t, err)

	_, err = NewHTTPClient(WithHTTPClient(nil))
	assert.Error(t, err)
}

func TestOptionsCopyHTTPClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	c := newClient(t, WithHTTPClient(shared), WithTimeout(time.Second))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, time.Second, c.hc.Timeout)
	assert.NotSame(t, shared, c.hc)
}
