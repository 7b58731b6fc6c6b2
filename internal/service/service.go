package service

import (
	"context"
	"errors"

	"itemtrack/internal/models"
	"itemtrack/internal/repository"
	"itemtrack/internal/token"
)

// Domain errors shared across services. Handlers map these onto HTTP codes.
var (
	ErrMissingFields      = errors.New("missing fields")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
)

// RegisterInput carries a self-registration request. RequestedRole is
// coerced through models.ParseRole, never trusted as-is.
type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	RequestedRole string
}

type Authorization interface {
	Register(ctx context.Context, in RegisterInput) (string, models.User, error)
	Login(ctx context.Context, email, password string) (string, models.User, error)
	// Authenticate verifies a session token and returns the identity it
	// encodes. The claims are authoritative; no store lookup happens here.
	Authenticate(tokenString string) (models.Identity, error)
}

// CreateItemInput is the payload for creating an item. Owner is always the
// caller, never client-supplied.
type CreateItemInput struct {
	Title       string
	Description string
}

// UpdateItemInput is a partial update; nil fields are left untouched.
type UpdateItemInput struct {
	Title       *string
	Description *string
}

// ListItemsInput narrows and pages an item listing.
type ListItemsInput struct {
	Page  int
	Limit int
	Query string
	Mine  bool
}

// Pagination describes one page of a listing result.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type Items interface {
	Create(ctx context.Context, ident models.Identity, in CreateItemInput) (models.Item, error)
	List(ctx context.Context, ident models.Identity, in ListItemsInput) ([]models.Item, Pagination, error)
	GetByID(ctx context.Context, ident models.Identity, id string) (models.Item, error)
	Update(ctx context.Context, ident models.Identity, id string, in UpdateItemInput) (models.Item, error)
	Delete(ctx context.Context, ident models.Identity, id string) error
}

// Feed delivers live item change events to authenticated subscribers.
type Feed interface {
	Subscribe(ident models.Identity) (<-chan ItemEvent, func())
}

// Service aggregates all sub-services behind one wiring point.
type Service struct {
	Authorization
	Items
	Feed
}

// NewService wires the repository layer and token codec into concrete services.
func NewService(repos *repository.Repository, codec *token.Codec) *Service {
	feed := NewBroadcaster()
	return &Service{
		Authorization: NewAuthService(repos.Users, codec),
		Items:         NewItemService(repos.Items, feed),
		Feed:          feed,
	}
}
