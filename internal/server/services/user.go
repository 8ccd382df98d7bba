// This file implements UserService: account signup with bcrypt-hashed
// passwords, credential checks for login, and the user listing.

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/logging"
	"github.com/dmitrijs2005/placekeeper/internal/server/config"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/repomanager"
)

const minPasswordLen = 6

// generateFromPassword is a seam for testing hashing failures.
var generateFromPassword = bcrypt.GenerateFromPassword

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Image    string
}

type UserService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	log          logging.Logger
	bcryptCost   int
	defaultImage string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:           db,
		repomanager:  m,
		log:          log.With("module", "users"),
		bcryptCost:   cfg.BcryptCost,
		defaultImage: cfg.DefaultUserImage,
	}
}

// NormalizeEmail trims and lower-cases an address; stored emails are always
// in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a user with a new, empty place list. An email that is
// already taken yields common.ErrorAlreadyExists.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := NormalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLen)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	hash, err := generateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	image := in.Image
	if image == "" {
		image = s.defaultImage
	}

	u, err := repo.Create(ctx, &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Image:        image,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "user signed up", "user_id", u.ID)
	return u, nil
}

// Login checks the credentials. Unknown emails and wrong passwords both
// yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.log.Warn(ctx, "login rejected", "user_id", u.ID)
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return list, nil
}
