package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/placekeeper/internal/logging"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/services"
)

var errNotImplemented = errors.New("not implemented")

type fakePlaces struct {
	createFn     func(ctx context.Context, in services.CreatePlaceInput) (*models.Place, error)
	deleteFn     func(ctx context.Context, placeID string) error
	getFn        func(ctx context.Context, placeID string) (*models.Place, error)
	listByUserFn func(ctx context.Context, userID string) ([]*models.Place, error)
	updateFn     func(ctx context.Context, placeID, title, description string) (*models.Place, error)
}

func (f *fakePlaces) Create(ctx context.Context, in services.CreatePlaceInput) (*models.Place, error) {
	if f.createFn == nil {
		return nil, errNotImplemented
	}
	return f.createFn(ctx, in)
}

func (f *fakePlaces) Delete(ctx context.Context, placeID string) error {
	if f.deleteFn == nil {
		return errNotImplemented
	}
	return f.deleteFn(ctx, placeID)
}

func (f *fakePlaces) GetByID(ctx context.Context, placeID string) (*models.Place, error) {
	if f.getFn == nil {
		return nil, errNotImplemented
	}
	return f.getFn(ctx, placeID)
}

func (f *fakePlaces) ListByUser(ctx context.Context, userID string) ([]*models.Place, error) {
	if f.listByUserFn == nil {
		return nil, errNotImplemented
	}
	return f.listByUserFn(ctx, userID)
}

func (f *fakePlaces) Update(ctx context.Context, placeID, title, description string) (*models.Place, error) {
	if f.updateFn == nil {
		return nil, errNotImplemented
	}
	return f.updateFn(ctx, placeID, title, description)
}

type fakeUsers struct {
	signupFn func(ctx context.Context, in services.SignupInput) (*models.User, error)
	loginFn  func(ctx context.Context, email, password string) (*models.User, error)
	listFn   func(ctx context.Context) ([]*models.User, error)
}

func (f *fakeUsers) Signup(ctx context.Context, in services.SignupInput) (*models.User, error) {
	if f.signupFn == nil {
		return nil, errNotImplemented
	}
	return f.signupFn(ctx, in)
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.User, error) {
	if f.loginFn == nil {
		return nil, errNotImplemented
	}
	return f.loginFn(ctx, email, password)
}

func (f *fakeUsers) List(ctx context.Context) ([]*models.User, error) {
	if f.listFn == nil {
		return nil, errNotImplemented
	}
	return f.listFn(ctx)
}

type fakeImages struct {
	presignFn func(ctx context.Context, kind string) (*services.UploadTarget, error)
}

func (f *fakeImages) PresignUpload(ctx context.Context, kind string) (*services.UploadTarget, error) {
	if f.presignFn == nil {
		return nil, errNotImplemented
	}
	return f.presignFn(ctx, kind)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type testDeps struct {
	places *fakePlaces
	users  *fakeUsers
	images *fakeImages
	db     fakePinger
}

func newTestServer(d *testDeps) *HTTPServer {
	if d.places == nil {
		d.places = &fakePlaces{}
	}
	if d.users == nil {
		d.users = &fakeUsers{}
	}
	if d.images == nil {
		d.images = &fakeImages{}
	}
	return NewHTTPServer("127.0.0.1:0", logging.Nop(), d.places, d.users, d.images, d.db, time.Second)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	return rr
}
