package repository

import (
	"context"
	"errors"
	"fmt"

	"places-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPlaceRepository handles database operations for places
type PostgresPlaceRepository struct {
	db *pgxpool.Pool
}

// NewPlaceRepository creates a new place repository
func NewPlaceRepository(db *pgxpool.Pool) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{db: db}
}

// GetByID retrieves a place by ID
func (r *PostgresPlaceRepository) GetByID(ctx context.Context, id string) (*models.Place, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrInvalidID
	}

	query := `
		SELECT id, title, description, address, lat, lng, image_url, creator_id, created_at
		FROM places
		WHERE id = $1
	`
	var place models.Place
	err := r.db.QueryRow(ctx, query, id).Scan(
		&place.ID, &place.Title, &place.Description, &place.Address,
		&place.Location.Lat, &place.Location.Lng,
		&place.ImageURL, &place.CreatorID, &place.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	return &place, nil
}

// ListByCreator retrieves all places owned by a user, oldest first
func (r *PostgresPlaceRepository) ListByCreator(ctx context.Context, creatorID string) ([]*models.Place, error) {
	if _, err := uuid.Parse(creatorID); err != nil {
		return nil, models.ErrInvalidID
	}

	query := `
		SELECT id, title, description, address, lat, lng, image_url, creator_id, created_at
		FROM places
		WHERE creator_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	places := []*models.Place{}
	for rows.Next() {
		var place models.Place
		err := rows.Scan(
			&place.ID, &place.Title, &place.Description, &place.Address,
			&place.Location.Lat, &place.Location.Lng,
			&place.ImageURL, &place.CreatorID, &place.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, &place)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}

	return places, nil
}

// UpdateFields replaces the title and description of a place
func (r *PostgresPlaceRepository) UpdateFields(ctx context.Context, id, title, description string) error {
	query := `UPDATE places SET title = $1, description = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, title, description, id)
	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CreateWithOwner inserts the place and appends its id to the owner's place
// list inside one transaction. Rolls back on any failure so the place table
// and the owner's list never disagree.
func (r *PostgresPlaceRepository) CreateWithOwner(ctx context.Context, place *models.Place) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertPlace := `
		INSERT INTO places (id, title, description, address, lat, lng, image_url, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.Exec(ctx, insertPlace,
		place.ID, place.Title, place.Description, place.Address,
		place.Location.Lat, place.Location.Lng,
		place.ImageURL, place.CreatorID, place.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert place: %w", err)
	}

	appendToOwner := `UPDATE users SET place_ids = array_append(place_ids, $1) WHERE id = $2`
	result, err := tx.Exec(ctx, appendToOwner, place.ID, place.CreatorID)
	if err != nil {
		return fmt.Errorf("failed to append place to owner: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrOwnerNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit place creation: %w", err)
	}
	return nil
}

// DeleteWithOwner deletes the place and removes its id from the owner's place
// list inside one transaction, same all-or-nothing guarantee as CreateWithOwner.
func (r *PostgresPlaceRepository) DeleteWithOwner(ctx context.Context, place *models.Place) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	deletePlace := `DELETE FROM places WHERE id = $1`
	result, err := tx.Exec(ctx, deletePlace, place.ID)
	if err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	removeFromOwner := `UPDATE users SET place_ids = array_remove(place_ids, $1) WHERE id = $2`
	if _, err := tx.Exec(ctx, removeFromOwner, place.ID, place.CreatorID); err != nil {
		return fmt.Errorf("failed to remove place from owner: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit place deletion: %w", err)
	}
	return nil
}
