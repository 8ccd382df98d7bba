package places

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/placekeeper/internal/dbx"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/dberr"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, place *models.Place) (*models.Place, error) {
	query :=
		`INSERT INTO places (title, description, address, lat, lng, image, creator_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		place.Title, place.Description, place.Address,
		place.Location.Lat, place.Location.Lng, place.Image, place.CreatorID,
	).Scan(&place.ID, &place.CreatedAt)
	if err != nil {
		return nil, dberr.Classify(err)
	}

	return place, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Place, error) {
	query := `SELECT ` + selectColumns + ` FROM places WHERE id = $1`

	p, err := scanPlace(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Place, error) {
	query := `SELECT ` + selectColumns + ` FROM places WHERE creator_id = $1 ORDER BY created_at, id`

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

func (r *PostgresRepository) Update(ctx context.Context, id, title, description string) (*models.Place, error) {
	query :=
		`UPDATE places SET title = $1, description = $2
		 WHERE id = $3
		 RETURNING ` + selectColumns

	p, err := scanPlace(r.db.QueryRowContext(ctx, query, title, description, id))
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (string, error) {
	query := `DELETE FROM places WHERE id = $1 RETURNING creator_id`

	var creatorID string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&creatorID); err != nil {
		return "", dberr.Classify(err)
	}
	return creatorID, nil
}
