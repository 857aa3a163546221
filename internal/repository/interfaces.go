// Package repository defines persistence contracts and their Postgres
// implementations.
package repository

import (
	"context"

	"places-backend/internal/models"
)

// UserRepository persists user records.
type UserRepository interface {
	// Create inserts a new user. A duplicate email fails with
	// models.ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) error

	// GetByID returns the user with the given id. A malformed id fails with
	// models.ErrInvalidID, an absent one with models.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail returns the user with the given email, or models.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// PlaceRepository persists place records. CreateWithOwner and DeleteWithOwner
// are the only mutations that touch the owner's place list, and they do so in
// the same transaction as the place row, so the two can never diverge.
type PlaceRepository interface {
	// GetByID returns the place with the given id. A malformed id fails with
	// models.ErrInvalidID, an absent one with models.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Place, error)

	// ListByCreator returns all places owned by the given user, oldest first.
	// No places is an empty slice, not an error.
	ListByCreator(ctx context.Context, creatorID string) ([]*models.Place, error)

	// UpdateFields replaces a place's title and description.
	UpdateFields(ctx context.Context, id, title, description string) error

	// CreateWithOwner inserts the place and appends its id to the owner's
	// place list in one transaction. Either both writes commit or neither.
	CreateWithOwner(ctx context.Context, place *models.Place) error

	// DeleteWithOwner deletes the place and removes its id from the owner's
	// place list in one transaction. Either both writes commit or neither.
	DeleteWithOwner(ctx context.Context, place *models.Place) error
}
