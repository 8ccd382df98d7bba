package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/placekeeper/internal/dbx"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/dberr"
)

// place_ids is a UUID[]; it is read back as a comma separated string so the
// repository stays on plain database/sql types.
const pgSelectColumns = `id, name, email, password_hash, image, array_to_string(place_ids, ','), created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPostgresUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var placeIDs string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Image, &placeIDs, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.PlaceIDs = splitIDs(placeIDs)
	return u, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (name, email, password_hash, image)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Image).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, dberr.Classify(err)
	}

	user.PlaceIDs = []string{}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + pgSelectColumns + ` FROM users WHERE id = $1`

	u, err := scanPostgresUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + pgSelectColumns + ` FROM users WHERE email = $1`

	u, err := scanPostgresUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return u, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + pgSelectColumns + ` FROM users ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dberr.Classify(err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanPostgresUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// AppendPlace relies on the UPDATE taking the row lock, so concurrent
// appends for the same user serialize instead of overwriting each other.
func (r *PostgresRepository) AppendPlace(ctx context.Context, userID, placeID string) error {
	query := `UPDATE users SET place_ids = array_append(place_ids, $1::uuid) WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, placeID, userID)
	if err != nil {
		return dberr.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) RemovePlace(ctx context.Context, userID, placeID string) error {
	query := `UPDATE users SET place_ids = array_remove(place_ids, $1::uuid) WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, placeID, userID)
	if err != nil {
		return dberr.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}
