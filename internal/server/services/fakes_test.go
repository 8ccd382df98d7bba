package services

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/dbx"
	"github.com/dmitrijs2005/placekeeper/internal/logging"
	"github.com/dmitrijs2005/placekeeper/internal/server/config"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/places"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/users"
)

// -------- test fakes --------

type fakeUsersRepo struct {
	users.Repository

	getOut *models.User
	getErr error

	byEmailOut *models.User
	byEmailErr error

	createErr error
	created   []*models.User

	listOut []*models.User
	listErr error

	appendErr error
	removeErr error
	appended  [][2]string
	removed   [][2]string
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	if f.byEmailOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.byEmailOut, nil
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-new"
	u.PlaceIDs = []string{}
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	return f.listOut, f.listErr
}

func (f *fakeUsersRepo) AppendPlace(ctx context.Context, userID, placeID string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, [2]string{userID, placeID})
	return nil
}

func (f *fakeUsersRepo) RemovePlace(ctx context.Context, userID, placeID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, [2]string{userID, placeID})
	return nil
}

type fakePlacesRepo struct {
	places.Repository

	createErr error
	created   []*models.Place

	getOut *models.Place
	getErr error

	listOut []*models.Place
	listErr error

	updateOut *models.Place
	updateErr error

	deleteCreator string
	deleteErr     error
	deleted       []string
}

func (f *fakePlacesRepo) Create(ctx context.Context, p *models.Place) (*models.Place, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = "p-new"
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakePlacesRepo) GetByID(ctx context.Context, id string) (*models.Place, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.getOut, nil
}

func (f *fakePlacesRepo) ListByCreator(ctx context.Context, creatorID string) ([]*models.Place, error) {
	return f.listOut, f.listErr
}

func (f *fakePlacesRepo) Update(ctx context.Context, id, title, description string) (*models.Place, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakePlacesRepo) Delete(ctx context.Context, id string) (string, error) {
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return f.deleteCreator, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	u *fakeUsersRepo
	p *fakePlacesRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository   { return m.u }
func (m *fakeRepoManager) Places(db dbx.DBTX) places.Repository { return m.p }

type fakeResolver struct {
	loc   models.Location
	err   error
	calls atomic.Int32
}

func (r *fakeResolver) Resolve(ctx context.Context, address string) (models.Location, error) {
	r.calls.Add(1)
	if r.err != nil {
		return models.Location{}, r.err
	}
	return r.loc, nil
}

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func testConfig() *config.Config {
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.BcryptCost = 4
	cfg.DefaultPlaceImage = "default-place.png"
	cfg.DefaultUserImage = "default-user.png"
	cfg.S3Bucket = "bucket"
	cfg.S3PublicBaseURL = "http://cdn.local/images/"
	return &cfg
}

func newPlaceService(db *sql.DB, m repomanager.RepositoryManager, r *fakeResolver) *PlaceService {
	return NewPlaceService(db, m, r, logging.Nop(), testConfig())
}
