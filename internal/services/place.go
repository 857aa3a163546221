package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"places-backend/internal/metrics"
	"places-backend/internal/models"
	"places-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const minDescriptionLength = 5

// PlaceService handles place-related business logic. Create and Delete keep
// the place table and the owner's place list consistent through the
// repository's transactional pair operations.
type PlaceService struct {
	placeRepo repository.PlaceRepository
	userRepo  repository.UserRepository
	geocoder  Geocoder
	images    ImageStore
	metrics   *metrics.Collector
}

// NewPlaceService creates a new place service. images and collector may be nil.
func NewPlaceService(
	placeRepo repository.PlaceRepository,
	userRepo repository.UserRepository,
	geocoder Geocoder,
	images ImageStore,
	collector *metrics.Collector,
) *PlaceService {
	return &PlaceService{
		placeRepo: placeRepo,
		userRepo:  userRepo,
		geocoder:  geocoder,
		images:    images,
		metrics:   collector,
	}
}

// CreatePlaceInput carries the fields needed to create a place. ImageURL
// references an already-stored image; upload handling belongs to the HTTP
// layer.
type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	CreatorID   string
	ImageURL    string
}

// Create validates the input, resolves the address, and persists the new
// place together with the owner's updated place list as one atomic unit.
func (s *PlaceService) Create(ctx context.Context, input CreatePlaceInput) (*models.Place, error) {
	if err := validatePlaceFields(input.Title, input.Description); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, fmt.Errorf("%w: address is required", models.ErrValidation)
	}
	if _, err := uuid.Parse(input.CreatorID); err != nil {
		return nil, fmt.Errorf("%w: creator id", models.ErrInvalidID)
	}

	location, err := s.geocoder.Resolve(ctx, input.Address)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, input.CreatorID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrOwnerNotFound
		}
		if errors.Is(err, models.ErrInvalidID) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrRepositoryUnavailable, err)
	}

	place := &models.Place{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Location:    location,
		ImageURL:    input.ImageURL,
		CreatorID:   input.CreatorID,
		CreatedAt:   time.Now(),
	}

	if err := s.placeRepo.CreateWithOwner(ctx, place); err != nil {
		if errors.Is(err, models.ErrOwnerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", models.ErrCreateFailed, err)
	}

	if s.metrics != nil {
		s.metrics.RecordPlaceCreated()
	}

	return place, nil
}

// UpdateFields replaces a place's title and description. Only the creator may
// update a place; address, location, image, and creator are immutable here.
func (s *PlaceService) UpdateFields(ctx context.Context, placeID, title, description, requesterID string) (*models.Place, error) {
	if err := validatePlaceFields(title, description); err != nil {
		return nil, err
	}

	place, err := s.placeRepo.GetByID(ctx, placeID)
	if err != nil {
		return nil, err
	}

	if place.CreatorID != requesterID {
		return nil, models.ErrForbidden
	}

	if err := s.placeRepo.UpdateFields(ctx, placeID, title, description); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpdateFailed, err)
	}

	place.Title = title
	place.Description = description
	return place, nil
}

// Delete removes a place and its id from the owner's place list as one atomic
// unit, then releases the stored image best effort. An image release failure
// is logged, never surfaced: the delete already succeeded.
func (s *PlaceService) Delete(ctx context.Context, placeID, requesterID string) error {
	place, err := s.placeRepo.GetByID(ctx, placeID)
	if err != nil {
		return err
	}

	if place.CreatorID != requesterID {
		return models.ErrForbidden
	}

	if err := s.placeRepo.DeleteWithOwner(ctx, place); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", models.ErrRepositoryUnavailable, err)
	}

	if s.images != nil && place.ImageURL != "" {
		if err := s.images.Delete(ctx, place.ImageURL); err != nil {
			log.Warn().
				Err(err).
				Str("place_id", placeID).
				Str("image_url", place.ImageURL).
				Msg("Failed to release place image")
		}
	}

	if s.metrics != nil {
		s.metrics.RecordPlaceDeleted()
	}

	return nil
}

// GetByID returns a single place.
func (s *PlaceService) GetByID(ctx context.Context, placeID string) (*models.Place, error) {
	return s.placeRepo.GetByID(ctx, placeID)
}

// ListByCreator returns all places owned by a user. A user with no places
// gets an empty list, not an error.
func (s *PlaceService) ListByCreator(ctx context.Context, userID string) ([]*models.Place, error) {
	return s.placeRepo.ListByCreator(ctx, userID)
}

func validatePlaceFields(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if len(strings.TrimSpace(description)) < minDescriptionLength {
		return fmt.Errorf("%w: description must be at least %d characters", models.ErrValidation, minDescriptionLength)
	}
	return nil
}
