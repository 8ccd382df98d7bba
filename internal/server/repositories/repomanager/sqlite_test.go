package repomanager

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/dbx"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
)

// openSQLite returns a migrated database file in a temp dir.
func openSQLite(t *testing.T) (*sql.DB, RepositoryManager) {
	t.Helper()
	ctx := context.Background()
	db, m, err := Open(ctx, "sqlite", "file:"+filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, m.RunMigrations(ctx, db))
	return db, m
}

func newUser(t *testing.T, db dbx.DBTX, m RepositoryManager, email string) *models.User {
	t.Helper()
	u, err := m.Users(db).Create(context.Background(), &models.User{
		Name: "Max", Email: email, PasswordHash: "hash", Image: "avatar.png",
	})
	require.NoError(t, err)
	return u
}

func newPlace(creatorID string) *models.Place {
	return &models.Place{
		Title:       "Empire State Building",
		Description: "One of the most famous sky scrapers",
		Address:     "20 W 34th St, New York, NY 10001",
		Location:    models.Location{Lat: 40.7484, Lng: -73.9857},
		Image:       "esb.png",
		CreatorID:   creatorID,
	}
}

func TestSQLite_RunMigrationsIsIdempotent(t *testing.T) {
	db, m := openSQLite(t)
	require.NoError(t, m.RunMigrations(context.Background(), db))
}

func TestSQLite_Users(t *testing.T) {
	db, m := openSQLite(t)
	ctx := context.Background()
	repo := m.Users(db)

	u := newUser(t, db, m, "max@test.com")
	require.NotEmpty(t, u.ID)
	require.Equal(t, []string{}, u.PlaceIDs)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "max@test.com", got.Email)
	require.Equal(t, "hash", got.PasswordHash)
	require.Equal(t, []string{}, got.PlaceIDs)
	require.WithinDuration(t, u.CreatedAt, got.CreatedAt, 0)

	byEmail, err := repo.GetByEmail(ctx, "max@test.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "ghost")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.Create(ctx, &models.User{Name: "Dup", Email: "max@test.com", PasswordHash: "x"})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	newUser(t, db, m, "second@test.com")
	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, u.ID, all[0].ID)
}

func TestSQLite_PlaceMembershipOrder(t *testing.T) {
	db, m := openSQLite(t)
	ctx := context.Background()
	u := newUser(t, db, m, "max@test.com")
	repo := m.Users(db)

	require.NoError(t, repo.AppendPlace(ctx, u.ID, "a"))
	require.NoError(t, repo.AppendPlace(ctx, u.ID, "b"))
	require.NoError(t, repo.AppendPlace(ctx, u.ID, "c"))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, got.PlaceIDs)

	require.NoError(t, repo.RemovePlace(ctx, u.ID, "b"))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, got.PlaceIDs)

	require.NoError(t, repo.RemovePlace(ctx, u.ID, "a"))
	require.NoError(t, repo.RemovePlace(ctx, u.ID, "c"))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []string{}, got.PlaceIDs)

	require.ErrorIs(t, repo.AppendPlace(ctx, "ghost", "a"), common.ErrorNotFound)
	require.ErrorIs(t, repo.RemovePlace(ctx, "ghost", "a"), common.ErrorNotFound)
}

func TestSQLite_Places(t *testing.T) {
	db, m := openSQLite(t)
	ctx := context.Background()
	u := newUser(t, db, m, "max@test.com")
	repo := m.Places(db)

	p, err := repo.Create(ctx, newPlace(u.ID))
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.Title, got.Title)
	require.Equal(t, models.Location{Lat: 40.7484, Lng: -73.9857}, got.Location)
	require.Equal(t, u.ID, got.CreatorID)

	second, err := repo.Create(ctx, newPlace(u.ID))
	require.NoError(t, err)

	list, err := repo.ListByCreator(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, p.ID, list[0].ID)
	require.Equal(t, second.ID, list[1].ID)

	updated, err := repo.Update(ctx, p.ID, "New title", "New description")
	require.NoError(t, err)
	require.Equal(t, "New title", updated.Title)
	require.Equal(t, p.Address, updated.Address)

	_, err = repo.Update(ctx, "ghost", "t", "ddddd")
	require.ErrorIs(t, err, common.ErrorNotFound)

	creator, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, creator)

	_, err = repo.Delete(ctx, p.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_PlaceRequiresExistingCreator(t *testing.T) {
	db, m := openSQLite(t)

	_, err := m.Places(db).Create(context.Background(), newPlace("ghost"))
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_TransactionRollsBackBothWrites(t *testing.T) {
	db, m := openSQLite(t)
	ctx := context.Background()
	u := newUser(t, db, m, "max@test.com")

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := m.Places(tx).Create(ctx, newPlace(u.ID))
		if err != nil {
			return err
		}
		if err := m.Users(tx).AppendPlace(ctx, u.ID, p.ID); err != nil {
			return err
		}
		return m.Users(tx).AppendPlace(ctx, "ghost", p.ID)
	})
	require.ErrorIs(t, err, common.ErrorNotFound)

	list, err := m.Places(db).ListByCreator(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, list)

	got, err := m.Users(db).GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, got.PlaceIDs)
}
