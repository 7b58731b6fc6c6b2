package repository

import (
	"context"
	"database/sql"
	"errors"

	"itemtrack/internal/models"
)

// ErrDuplicateEmail is returned by Users.Create when the email is already
// taken. The unique constraint in the store is the authoritative check; the
// service's prior existence probe only exists for a friendlier fast path.
var ErrDuplicateEmail = errors.New("email already registered")

type Users interface {
	Create(ctx context.Context, u models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ItemFilter narrows an item listing. Zero values mean "no restriction"
// except Page/Limit, which the caller is expected to normalize.
type ItemFilter struct {
	OwnerID string // restrict to a single owner when non-empty
	Query   string // case-insensitive title substring
	Page    int
	Limit   int
}

type Items interface {
	Create(ctx context.Context, it models.Item) error
	GetByID(ctx context.Context, id string) (*models.Item, error)
	Update(ctx context.Context, it models.Item) error
	Delete(ctx context.Context, id string) error
	// List returns one page of matching items plus the total match count.
	List(ctx context.Context, f ItemFilter) ([]models.Item, int, error)
}

type Repository struct {
	Users Users
	Items Items
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
		Items: NewItemRepository(db),
	}
}
