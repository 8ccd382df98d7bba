// Package services contains server-side business logic.
//
// PlaceService keeps every place and its owner's place list in step: a
// place is written and the owner's list updated in one transaction, or
// neither happens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/dbx"
	"github.com/dmitrijs2005/placekeeper/internal/logging"
	"github.com/dmitrijs2005/placekeeper/internal/server/config"
	"github.com/dmitrijs2005/placekeeper/internal/server/geocoding"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
	"github.com/dmitrijs2005/placekeeper/internal/server/repositories/repomanager"
)

const minDescriptionLen = 5

var tracer = otel.Tracer("github.com/dmitrijs2005/placekeeper/internal/server/services")

// CreatePlaceInput carries the caller-supplied fields of a new place.
// Image may be empty, in which case the configured default is used.
type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	CreatorID   string
	Image       string
}

type PlaceService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	resolver     geocoding.Resolver
	owners       ownerGuard
	log          logging.Logger
	defaultImage string
}

func NewPlaceService(db *sql.DB, m repomanager.RepositoryManager, resolver geocoding.Resolver, log logging.Logger, cfg *config.Config) *PlaceService {
	return &PlaceService{
		db:           db,
		repomanager:  m,
		resolver:     resolver,
		owners:       ownerGuard{db: db, repomanager: m},
		log:          log.With("module", "places"),
		defaultImage: cfg.DefaultPlaceImage,
	}
}

// Create resolves the address, checks that the creator exists and then, in
// one transaction, inserts the place and appends its id to the creator's
// place list.
//
// Errors:
//   - common.ErrorValidation for empty title/address/creator or a short description.
//   - resolver errors, unchanged (common.ErrUnresolvableAddress, common.ErrResolutionUnavailable).
//   - common.ErrOwnerNotFound when the creator does not exist.
//   - common.ErrWriteFailed when the transaction fails; nothing is persisted.
func (s *PlaceService) Create(ctx context.Context, in CreatePlaceInput) (*models.Place, error) {
	ctx, span := tracer.Start(ctx, "PlaceService.Create",
		trace.WithAttributes(attribute.String("place.creator_id", in.CreatorID)))
	defer span.End()

	if err := validatePlaceFields(in.Title, in.Description); err != nil {
		return nil, spanError(span, err)
	}
	if strings.TrimSpace(in.Address) == "" || in.CreatorID == "" {
		return nil, spanError(span, fmt.Errorf("%w: address and creator are required", common.ErrorValidation))
	}

	loc, err := s.resolver.Resolve(ctx, in.Address)
	if err != nil {
		return nil, spanError(span, err)
	}

	if _, err := s.owners.EnsureExists(ctx, in.CreatorID); err != nil {
		return nil, spanError(span, err)
	}

	image := in.Image
	if image == "" {
		image = s.defaultImage
	}
	place := &models.Place{
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		Location:    loc,
		Image:       image,
		CreatorID:   in.CreatorID,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Places(tx).Create(ctx, place); err != nil {
			return fmt.Errorf("insert place: %w", err)
		}
		if err := s.repomanager.Users(tx).AppendPlace(ctx, in.CreatorID, place.ID); err != nil {
			return fmt.Errorf("append place to owner: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "create place failed", "creator_id", in.CreatorID, "error", err)
		return nil, spanError(span, fmt.Errorf("%w: %v", common.ErrWriteFailed, err))
	}

	span.SetAttributes(attribute.String("place.id", place.ID))
	s.log.Info(ctx, "place created", "place_id", place.ID, "creator_id", place.CreatorID)
	return place, nil
}

// Delete removes the place and drops its id from the owner's place list in
// one transaction. The owner is read inside the transaction by the delete
// statement itself, so a stale pre-read cannot point the removal at the
// wrong user.
//
// Errors:
//   - common.ErrPlaceNotFound when the place does not exist.
//   - common.ErrWriteFailed when the transaction fails; nothing changes.
func (s *PlaceService) Delete(ctx context.Context, placeID string) error {
	ctx, span := tracer.Start(ctx, "PlaceService.Delete",
		trace.WithAttributes(attribute.String("place.id", placeID)))
	defer span.End()

	if _, err := s.GetByID(ctx, placeID); err != nil {
		return spanError(span, err)
	}

	var creatorID string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		creatorID, err = s.repomanager.Places(tx).Delete(ctx, placeID)
		if err != nil {
			return fmt.Errorf("delete place: %w", err)
		}
		if err := s.repomanager.Users(tx).RemovePlace(ctx, creatorID, placeID); err != nil {
			return fmt.Errorf("remove place from owner: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "delete place failed", "place_id", placeID, "error", err)
		return spanError(span, fmt.Errorf("%w: %v", common.ErrWriteFailed, err))
	}

	s.log.Info(ctx, "place deleted", "place_id", placeID, "creator_id", creatorID)
	return nil
}

// GetByID returns the place or common.ErrPlaceNotFound.
func (s *PlaceService) GetByID(ctx context.Context, placeID string) (*models.Place, error) {
	if placeID == "" {
		return nil, common.ErrPlaceNotFound
	}
	p, err := s.repomanager.Places(s.db).GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return p, nil
}

// ListByUser returns the user's places in the order of the user's place list.
func (s *PlaceService) ListByUser(ctx context.Context, userID string) ([]*models.Place, error) {
	owner, err := s.owners.EnsureExists(ctx, userID)
	if err != nil {
		return nil, err
	}

	list, err := s.repomanager.Places(s.db).ListByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	pos := make(map[string]int, len(owner.PlaceIDs))
	for i, id := range owner.PlaceIDs {
		pos[id] = i
	}
	slices.SortStableFunc(list, func(a, b *models.Place) int {
		pa, okA := pos[a.ID]
		pb, okB := pos[b.ID]
		switch {
		case okA && okB:
			return pa - pb
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	return list, nil
}

// Update changes title and description. Address and location stay as created.
func (s *PlaceService) Update(ctx context.Context, placeID, title, description string) (*models.Place, error) {
	if err := validatePlaceFields(title, description); err != nil {
		return nil, err
	}
	p, err := s.repomanager.Places(s.db).Update(ctx, placeID, title, description)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	s.log.Info(ctx, "place updated", "place_id", placeID)
	return p, nil
}

func validatePlaceFields(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(description) < minDescriptionLen {
		return fmt.Errorf("%w: description must be at least %d characters", common.ErrorValidation, minDescriptionLen)
	}
	return nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
