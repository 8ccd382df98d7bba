package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/logging"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
)

func TestUnknownRoute(t *testing.T) {
	rr := do(t, newTestServer(&testDeps{}).Handler(), http.MethodGet, "/api/nowhere", "")

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, msgRouteNotFound, decodeMessage(t, rr.Body.Bytes()))
}

func TestMethodNotAllowed(t *testing.T) {
	rr := do(t, newTestServer(&testDeps{}).Handler(), http.MethodPut, "/api/places/p1", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHealth(t *testing.T) {
	rr := do(t, newTestServer(&testDeps{}).Handler(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = do(t, newTestServer(&testDeps{db: fakePinger{err: errors.New("db down")}}).Handler(), http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rr.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(&testDeps{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(common.RequestIDHeader, "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "req-42", rr.Header().Get(common.RequestIDHeader))

	rr = do(t, h, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rr.Header().Get(common.RequestIDHeader))
}

func TestRecoverer(t *testing.T) {
	d := &testDeps{places: &fakePlaces{
		getFn: func(context.Context, string) (*models.Place, error) { panic("boom") },
	}}
	rr := do(t, newTestServer(d).Handler(), http.MethodGet, "/api/places/p1", "")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, msgUnknownError, decodeMessage(t, rr.Body.Bytes()))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: title", common.ErrorValidation), http.StatusUnprocessableEntity},
		{common.ErrUnresolvableAddress, http.StatusUnprocessableEntity},
		{common.ErrorAlreadyExists, http.StatusUnprocessableEntity},
		{common.ErrOwnerNotFound, http.StatusNotFound},
		{common.ErrPlaceNotFound, http.StatusNotFound},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: status 500", common.ErrResolutionUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: tx", common.ErrWriteFailed), http.StatusInternalServerError},
		{fmt.Errorf("%w: db", common.ErrorInternal), http.StatusInternalServerError},
		{errors.New("something else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := newTestServer(&testDeps{})
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_BadAddress(t *testing.T) {
	s := NewHTTPServer("bad-address", logging.Nop(), &fakePlaces{}, &fakeUsers{}, &fakeImages{}, fakePinger{}, time.Second)
	require.Error(t, s.Run(context.Background()))
}
