package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"

	"places-backend/internal/middleware"
	"places-backend/internal/models"
	"places-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxImageUploadBytes = 10 << 20 // 10 MiB

// placeService is the slice of PlaceService the handler needs.
type placeService interface {
	Create(ctx context.Context, input services.CreatePlaceInput) (*models.Place, error)
	UpdateFields(ctx context.Context, placeID, title, description, requesterID string) (*models.Place, error)
	Delete(ctx context.Context, placeID, requesterID string) error
	GetByID(ctx context.Context, placeID string) (*models.Place, error)
	ListByCreator(ctx context.Context, userID string) ([]*models.Place, error)
}

// PlaceHandler handles place-related HTTP requests
type PlaceHandler struct {
	places placeService
	images services.ImageStore
	wsHub  *services.WSHub
}

// NewPlaceHandler creates a new place handler. wsHub may be nil.
func NewPlaceHandler(places placeService, images services.ImageStore, wsHub *services.WSHub) *PlaceHandler {
	return &PlaceHandler{
		places: places,
		images: images,
		wsHub:  wsHub,
	}
}

// UpdatePlaceRequest represents the request body for updating a place
type UpdatePlaceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreatePlace handles POST /api/v1/places. The request is multipart: title,
// description, and address fields plus an image file. The image is stored
// first; the service then receives only its URL. The creator is always the
// authenticated user.
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		respondError(w, "Invalid multipart body", http.StatusUnprocessableEntity)
		return
	}

	input := services.CreatePlaceInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Address:     r.FormValue("address"),
		CreatorID:   userID,
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, "image file is required", http.StatusUnprocessableEntity)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("places/%s%s", uuid.New().String(), filepath.Ext(header.Filename))
	imageURL, err := h.images.Upload(ctx, key, contentType, file)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to store place image")
		respondError(w, "Failed to store image", http.StatusInternalServerError)
		return
	}
	input.ImageURL = imageURL

	place, err := h.places.Create(ctx, input)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("address", input.Address).
			Msg("Failed to create place")

		// The stored image has no owning place; release it.
		if delErr := h.images.Delete(ctx, imageURL); delErr != nil {
			log.Warn().Err(delErr).Str("image_url", imageURL).Msg("Failed to release orphaned image")
		}

		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("place_id", place.ID).
		Msg("Place created")

	if h.wsHub != nil {
		h.wsHub.NotifyPlaceCreated(place)
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"place": place})
}

// GetPlace handles GET /api/v1/places/{id}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "id")

	place, err := h.places.GetByID(r.Context(), placeID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"place": place})
}

// ListPlacesByUser handles GET /api/v1/places/user/{userId}. A user with no
// places gets an empty list.
func (h *PlaceHandler) ListPlacesByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	places, err := h.places.ListByCreator(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"places": places})
}

// UpdatePlace handles PATCH /api/v1/places/{id}
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	placeID := chi.URLParam(r, "id")

	var req UpdatePlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusUnprocessableEntity)
		return
	}

	place, err := h.places.UpdateFields(ctx, placeID, req.Title, req.Description, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("place_id", placeID).
			Msg("Failed to update place")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("place_id", placeID).
		Msg("Place updated")

	respondJSON(w, http.StatusOK, map[string]interface{}{"place": place})
}

// DeletePlace handles DELETE /api/v1/places/{id}
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	placeID := chi.URLParam(r, "id")

	if err := h.places.Delete(ctx, placeID, userID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("place_id", placeID).
			Msg("Failed to delete place")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("place_id", placeID).
		Msg("Place deleted")

	if h.wsHub != nil {
		h.wsHub.NotifyPlaceDeleted(userID, placeID)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Deleted place %s", placeID),
	})
}
