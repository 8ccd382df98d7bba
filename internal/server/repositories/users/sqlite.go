package users

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/placekeeper/internal/dbx"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/dberr"
)

// On SQLite place_ids is a JSON array stored as TEXT.
const sqliteSelectColumns = `id, name, email, password_hash, image, place_ids, created_at`

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func scanSQLiteUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var placeIDs string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Image, &placeIDs, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.PlaceIDs = []string{}
	if err := json.Unmarshal([]byte(placeIDs), &u.PlaceIDs); err != nil {
		return nil, fmt.Errorf("decode place_ids: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	id := uuid.NewString()
	createdAt := r.now()

	query :=
		`INSERT INTO users (id, name, email, password_hash, image, place_ids, created_at)
		 VALUES (?, ?, ?, ?, ?, '[]', ?)`

	_, err := r.db.ExecContext(ctx, query, id, user.Name, user.Email, user.PasswordHash, user.Image, createdAt)
	if err != nil {
		return nil, dberr.Classify(err)
	}

	user.ID = id
	user.CreatedAt = createdAt
	user.PlaceIDs = []string{}
	return user, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + sqliteSelectColumns + ` FROM users WHERE id = ?`

	u, err := scanSQLiteUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + sqliteSelectColumns + ` FROM users WHERE email = ?`

	u, err := scanSQLiteUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return u, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + sqliteSelectColumns + ` FROM users ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dberr.Classify(err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanSQLiteUser(rows)
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

// AppendPlace is a single UPDATE using the JSON1 functions. Writers are
// serialized by the database lock taken when the transaction begins
// (_txlock=immediate).
func (r *SQLiteRepository) AppendPlace(ctx context.Context, userID, placeID string) error {
	query := `UPDATE users SET place_ids = json_insert(place_ids, '$[#]', ?) WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, placeID, userID)
	if err != nil {
		return dberr.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *SQLiteRepository) RemovePlace(ctx context.Context, userID, placeID string) error {
	query :=
		`UPDATE users SET place_ids = (
		     SELECT json_group_array(value) FROM json_each(users.place_ids) WHERE value <> ?
		 )
		 WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, placeID, userID)
	if err != nil {
		return dberr.Classify(err)
	}
	return dbx.ExpectOneRow(res)
}
