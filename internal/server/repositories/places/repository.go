// Package places stores place records. Implementations are bound to a
// dbx.DBTX, so the same code runs on a plain connection or inside a
// transaction opened by the caller.
package places

import (
	"context"

	"github.com/dmitrijs2005/placekeeper/internal/server/models"
)

type Repository interface {
	// Create inserts the place and fills in its ID and CreatedAt.
	Create(ctx context.Context, place *models.Place) (*models.Place, error)
	GetByID(ctx context.Context, id string) (*models.Place, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Place, error)
	Update(ctx context.Context, id, title, description string) (*models.Place, error)
	// Delete removes the place and returns the creator id read by the
	// same statement.
	Delete(ctx context.Context, id string) (creatorID string, err error)
}

type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `id, title, description, address, lat, lng, image, creator_id, created_at`

func scanPlace(row scanner) (*models.Place, error) {
	p := &models.Place{}
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Address,
		&p.Location.Lat, &p.Location.Lng, &p.Image, &p.CreatorID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
