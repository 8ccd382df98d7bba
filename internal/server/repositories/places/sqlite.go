package places

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/placekeeper/internal/dbx"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/dberr"
)

// SQLiteRepository is the modernc.org/sqlite variant. Ids and timestamps are
// generated here since SQLite has no uuid type.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *SQLiteRepository) Create(ctx context.Context, place *models.Place) (*models.Place, error) {
	id := uuid.NewString()
	createdAt := r.now()

	query :=
		`INSERT INTO places (id, title, description, address, lat, lng, image, creator_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		id, place.Title, place.Description, place.Address,
		place.Location.Lat, place.Location.Lng, place.Image, place.CreatorID, createdAt)
	if err != nil {
		return nil, dberr.Classify(err)
	}

	place.ID = id
	place.CreatedAt = createdAt
	return place, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Place, error) {
	query := `SELECT ` + selectColumns + ` FROM places WHERE id = ?`

	p, err := scanPlace(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Place, error) {
	query := `SELECT ` + selectColumns + ` FROM places WHERE creator_id = ? ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, dberr.Classify(err)
	}
	defer rows.Close()

	var result []*models.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update re-reads the row afterwards: declared column types, which the
// driver needs to decode created_at, are not reported for RETURNING columns.
func (r *SQLiteRepository) Update(ctx context.Context, id, title, description string) (*models.Place, error) {
	query := `UPDATE places SET title = ?, description = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, title, description, id)
	if err != nil {
		return nil, dberr.Classify(err)
	}
	if err := dbx.ExpectOneRow(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) (string, error) {
	query := `DELETE FROM places WHERE id = ? RETURNING creator_id`

	var creatorID string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&creatorID); err != nil {
		return "", dberr.Classify(err)
	}
	return creatorID, nil
}
