package services

import (
	"context"
	"errors"
	"testing"

	"places-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	createFn     func(ctx context.Context, user *models.User) error
	getByIDFn    func(ctx context.Context, id string) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, models.ErrNotFound
}

func TestUserService_Signup(t *testing.T) {
	var created *models.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			created = user
			return nil
		},
	}
	svc := NewUserService(repo, "test-secret")

	result, err := svc.Signup(context.Background(), "Uma", "uma@example.com", "hunter22", "https://img.example.com/uma.jpg")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if created == nil {
		t.Fatal("user was not persisted")
	}
	if created.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if len(created.PlaceIDs) != 0 {
		t.Errorf("new user's place list not empty: %v", created.PlaceIDs)
	}

	userID, err := svc.ValidateJWT(result.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if userID != result.User.ID {
		t.Errorf("token user id = %q, want %q", userID, result.User.ID)
	}
}

func TestUserService_Signup_Validation(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, "test-secret")

	tests := []struct {
		name, userName, email, password string
	}{
		{"empty name", "", "uma@example.com", "hunter22"},
		{"bad email", "Uma", "not-an-email", "hunter22"},
		{"short password", "Uma", "uma@example.com", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.userName, tt.email, tt.password, "")
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUserService_Signup_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			return models.ErrDuplicateEmail
		},
	}
	svc := NewUserService(repo, "test-secret")

	_, err := svc.Signup(context.Background(), "Uma", "uma@example.com", "hunter22", "")
	if !errors.Is(err, models.ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
	if !errors.Is(err, models.ErrConstraintViolation) {
		t.Errorf("duplicate email should also match ErrConstraintViolation, got %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}
	stored := &models.User{ID: "user-1", Email: "uma@example.com", PasswordHash: string(hash)}
	repo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, models.ErrNotFound
		},
	}
	svc := NewUserService(repo, "test-secret")

	result, err := svc.Login(context.Background(), "uma@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.User.ID != "user-1" {
		t.Errorf("user id = %q", result.User.ID)
	}
	if _, err := svc.ValidateJWT(result.Token); err != nil {
		t.Errorf("issued token does not validate: %v", err)
	}

	if _, err := svc.Login(context.Background(), "uma@example.com", "wrong"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "hunter22"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUserService_ValidateJWT_WrongSecret(t *testing.T) {
	issuer := NewUserService(&mockUserRepo{}, "secret-a")
	verifier := NewUserService(&mockUserRepo{}, "secret-b")

	token, err := issuer.GenerateJWT("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.ValidateJWT(token); err == nil {
		t.Error("token signed with another secret must not validate")
	}
}
