package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"places-backend/internal/middleware"
	"places-backend/internal/models"
	"places-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

type mockPlaceService struct {
	createFn        func(ctx context.Context, input services.CreatePlaceInput) (*models.Place, error)
	updateFieldsFn  func(ctx context.Context, placeID, title, description, requesterID string) (*models.Place, error)
	deleteFn        func(ctx context.Context, placeID, requesterID string) error
	getByIDFn       func(ctx context.Context, placeID string) (*models.Place, error)
	listByCreatorFn func(ctx context.Context, userID string) ([]*models.Place, error)
}

func (m *mockPlaceService) Create(ctx context.Context, input services.CreatePlaceInput) (*models.Place, error) {
	return m.createFn(ctx, input)
}

func (m *mockPlaceService) UpdateFields(ctx context.Context, placeID, title, description, requesterID string) (*models.Place, error) {
	return m.updateFieldsFn(ctx, placeID, title, description, requesterID)
}

func (m *mockPlaceService) Delete(ctx context.Context, placeID, requesterID string) error {
	return m.deleteFn(ctx, placeID, requesterID)
}

func (m *mockPlaceService) GetByID(ctx context.Context, placeID string) (*models.Place, error) {
	return m.getByIDFn(ctx, placeID)
}

func (m *mockPlaceService) ListByCreator(ctx context.Context, userID string) ([]*models.Place, error) {
	return m.listByCreatorFn(ctx, userID)
}

type stubImageStore struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (s *stubImageStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded = append(s.uploaded, key)
	return "https://images.example.com/" + key, nil
}

func (s *stubImageStore) Delete(ctx context.Context, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, imageURL)
	return nil
}

func newTestRouter(h *PlaceHandler, userID string) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/places/{id}", h.GetPlace)
	r.Get("/api/v1/places/user/{userId}", h.ListPlacesByUser)

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			next(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		}
	}
	r.Post("/api/v1/places", authed(h.CreatePlace))
	r.Patch("/api/v1/places/{id}", authed(h.UpdatePlace))
	r.Delete("/api/v1/places/{id}", authed(h.DeletePlace))
	return r
}

func multipartPlaceBody(t *testing.T, title, description, address string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"title":       title,
		"description": description,
		"address":     address,
	} {
		if err := w.WriteField(field, value); err != nil {
			t.Fatal(err)
		}
	}
	fw, err := w.CreateFormFile("image", "photo.jpg")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("fake image bytes"))
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestPlaceHandler_CreatePlace(t *testing.T) {
	svc := &mockPlaceService{
		createFn: func(ctx context.Context, input services.CreatePlaceInput) (*models.Place, error) {
			if input.CreatorID != "user-1" {
				t.Errorf("creator = %q, want authenticated user", input.CreatorID)
			}
			if !strings.HasPrefix(input.ImageURL, "https://images.example.com/places/") {
				t.Errorf("image url = %q", input.ImageURL)
			}
			return &models.Place{ID: "place-1", Title: input.Title, CreatorID: input.CreatorID, ImageURL: input.ImageURL}, nil
		},
	}
	images := &stubImageStore{}
	h := NewPlaceHandler(svc, images, nil)

	body, contentType := multipartPlaceBody(t, "Oregon Dunes", "dunes and shore pines", "855 US-101, Reedsport, OR 97467")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/places", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(h, "user-1").ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	if len(images.uploaded) != 1 {
		t.Errorf("expected one image upload, got %v", images.uploaded)
	}
	if len(images.deleted) != 0 {
		t.Errorf("successful create must not release the image: %v", images.deleted)
	}

	var resp struct {
		Place models.Place `json:"place"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Place.ID != "place-1" {
		t.Errorf("place id = %q", resp.Place.ID)
	}
}

func TestPlaceHandler_CreatePlace_GeocodingFailedReleasesImage(t *testing.T) {
	svc := &mockPlaceService{
		createFn: func(ctx context.Context, input services.CreatePlaceInput) (*models.Place, error) {
			return nil, fmt.Errorf("%w: %q", models.ErrGeocodingFailed, input.Address)
		},
	}
	images := &stubImageStore{}
	h := NewPlaceHandler(svc, images, nil)

	body, contentType := multipartPlaceBody(t, "Nowhere", "somewhere that is not", "no such street 999")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/places", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(h, "user-1").ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if len(images.deleted) != 1 {
		t.Errorf("orphaned image was not released: %v", images.deleted)
	}
}

func TestPlaceHandler_GetPlace_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"malformed id", models.ErrInvalidID, http.StatusUnprocessableEntity},
		{"storage down", models.ErrRepositoryUnavailable, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPlaceService{
				getByIDFn: func(ctx context.Context, placeID string) (*models.Place, error) {
					return nil, tt.err
				},
			}
			h := NewPlaceHandler(svc, &stubImageStore{}, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/places/nonexistent", nil)
			rec := httptest.NewRecorder()
			newTestRouter(h, "user-1").ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestPlaceHandler_ListPlacesByUser_Empty(t *testing.T) {
	svc := &mockPlaceService{
		listByCreatorFn: func(ctx context.Context, userID string) ([]*models.Place, error) {
			return []*models.Place{}, nil
		},
	}
	h := NewPlaceHandler(svc, &stubImageStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/places/user/user-1", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h, "user-1").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an empty list", rec.Code)
	}
	var resp struct {
		Places []models.Place `json:"places"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Places == nil || len(resp.Places) != 0 {
		t.Errorf("places = %#v, want empty array", resp.Places)
	}
}

func TestPlaceHandler_UpdatePlace_Forbidden(t *testing.T) {
	svc := &mockPlaceService{
		updateFieldsFn: func(ctx context.Context, placeID, title, description, requesterID string) (*models.Place, error) {
			return nil, models.ErrForbidden
		},
	}
	h := NewPlaceHandler(svc, &stubImageStore{}, nil)

	body := strings.NewReader(`{"title": "New", "description": "new description"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/places/place-1", body)
	rec := httptest.NewRecorder()
	newTestRouter(h, "intruder").ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestPlaceHandler_DeletePlace(t *testing.T) {
	var deletedID, requester string
	svc := &mockPlaceService{
		deleteFn: func(ctx context.Context, placeID, requesterID string) error {
			deletedID, requester = placeID, requesterID
			return nil
		},
	}
	h := NewPlaceHandler(svc, &stubImageStore{}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/places/place-9", nil)
	rec := httptest.NewRecorder()
	newTestRouter(h, "user-1").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if deletedID != "place-9" || requester != "user-1" {
		t.Errorf("delete called with (%q, %q)", deletedID, requester)
	}
	if !strings.Contains(rec.Body.String(), "place-9") {
		t.Errorf("confirmation does not reference the deleted id: %s", rec.Body.String())
	}
}
