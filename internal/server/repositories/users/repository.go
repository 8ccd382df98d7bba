// Package users stores user accounts together with the ordered list of
// place ids each user owns.
package users

import (
	"context"

	"github.com/dmitrijs2005/placekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)

	// AppendPlace adds placeID to the end of the user's place list in a
	// single row update. A missing user yields common.ErrorNotFound.
	AppendPlace(ctx context.Context, userID, placeID string) error
	// RemovePlace drops every occurrence of placeID from the user's list.
	RemovePlace(ctx context.Context, userID, placeID string) error
}

type scanner interface {
	Scan(dest ...any) error
}
