package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/repomanager"
)

// ownerGuard checks that a user exists before a place referencing it is
// built. The read is outside any transaction; a user removed right after the
// check makes the later membership update fail and the transaction abort.
type ownerGuard struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func (g ownerGuard) EnsureExists(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, common.ErrOwnerNotFound
	}
	u, err := g.repomanager.Users(g.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return u, nil
}
