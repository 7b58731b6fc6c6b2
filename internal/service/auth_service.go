package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"itemtrack/internal/models"
	"itemtrack/internal/repository"
	"itemtrack/internal/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	users repository.Users
	codec *token.Codec
}

func NewAuthService(users repository.Users, codec *token.Codec) *AuthService {
	return &AuthService{users: users, codec: codec}
}

var _ Authorization = (*AuthService)(nil)

// Register validates input, stores the new user with a hashed password and
// issues a session token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return "", models.User{}, ErrMissingFields
	}

	// Fast-path probe; the unique constraint on email is the authoritative
	// check and closes the race between concurrent registrations.
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return "", models.User{}, ErrUserAlreadyExists
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return "", models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.ParseRole(in.RequestedRole),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return "", models.User{}, ErrUserAlreadyExists
		}
		return "", models.User{}, fmt.Errorf("create user: %w", err)
	}

	tok, err := s.codec.Issue(u)
	if err != nil {
		return "", models.User{}, err
	}
	return tok, u, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", models.User{}, ErrMissingFields
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	tok, err := s.codec.Issue(*u)
	if err != nil {
		return "", models.User{}, err
	}
	return tok, *u, nil
}

// Authenticate verifies a session token and returns its identity.
func (s *AuthService) Authenticate(tokenString string) (models.Identity, error) {
	claims, err := s.codec.Parse(tokenString)
	if err != nil {
		return models.Identity{}, err
	}
	return claims.Identity(), nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
