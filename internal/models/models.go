package models

import "time"

// Location is a geographic coordinate pair resolved from a free-text address.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place represents a point of interest owned by a user.
type Place struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Location    Location  `json:"location"`
	ImageURL    string    `json:"image_url"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// User represents a registered user. PlaceIDs holds the identifiers of the
// places the user owns, in insertion order; it must always agree with the
// places table (see PlaceRepository.CreateWithOwner / DeleteWithOwner).
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ImageURL     string    `json:"image_url"`
	PlaceIDs     []string  `json:"place_ids"`
	CreatedAt    time.Time `json:"created_at"`
}
