package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"itemtrack/internal/models"
	"itemtrack/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// CanAccess decides whether an identity may read or mutate a single item:
// admins always, everyone else only their own records.
func CanAccess(ident models.Identity, it models.Item) bool {
	return ident.IsAdmin() || it.OwnerID == ident.ID
}

// ItemService implements item CRUD with ownership enforcement.
type ItemService struct {
	items repository.Items
	feed  *Broadcaster
}

func NewItemService(items repository.Items, feed *Broadcaster) *ItemService {
	return &ItemService{items: items, feed: feed}
}

var _ Items = (*ItemService)(nil)

func (s *ItemService) Create(ctx context.Context, ident models.Identity, in CreateItemInput) (models.Item, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Item{}, ErrInvalidInput
	}

	now := time.Now().UTC()
	it := models.Item{
		ID:          uuid.NewString(),
		Title:       title,
		Description: in.Description,
		OwnerID:     ident.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.items.Create(ctx, it); err != nil {
		return models.Item{}, fmt.Errorf("create item: %w", err)
	}
	s.feed.Publish(ItemEvent{Type: EventItemCreated, Item: it})
	return it, nil
}

// List pages through items visible to the caller. Non-admins are always
// restricted to their own records, whether or not they asked for "mine";
// admins see everything unless they opt into "mine".
func (s *ItemService) List(ctx context.Context, ident models.Identity, in ListItemsInput) ([]models.Item, Pagination, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	f := repository.ItemFilter{Query: in.Query, Page: page, Limit: limit}
	if in.Mine || !ident.IsAdmin() {
		f.OwnerID = ident.ID
	}

	items, total, err := s.items.List(ctx, f)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list items: %w", err)
	}

	pages := (total + limit - 1) / limit
	return items, Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

func (s *ItemService) GetByID(ctx context.Context, ident models.Identity, id string) (models.Item, error) {
	it, err := s.fetch(ctx, ident, id)
	if err != nil {
		return models.Item{}, err
	}
	return *it, nil
}

func (s *ItemService) Update(ctx context.Context, ident models.Identity, id string, in UpdateItemInput) (models.Item, error) {
	it, err := s.fetch(ctx, ident, id)
	if err != nil {
		return models.Item{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return models.Item{}, ErrInvalidInput
		}
		it.Title = title
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	it.UpdatedAt = time.Now().UTC()

	if err := s.items.Update(ctx, *it); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, ErrNotFound
		}
		return models.Item{}, fmt.Errorf("update item: %w", err)
	}
	s.feed.Publish(ItemEvent{Type: EventItemUpdated, Item: *it})
	return *it, nil
}

func (s *ItemService) Delete(ctx context.Context, ident models.Identity, id string) error {
	it, err := s.fetch(ctx, ident, id)
	if err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	s.feed.Publish(ItemEvent{Type: EventItemDeleted, Item: *it})
	return nil
}

// fetch loads the item and applies the access policy: absent → ErrNotFound,
// present but not accessible → ErrForbidden.
func (s *ItemService) fetch(ctx context.Context, ident models.Identity, id string) (*models.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load item %q: %w", id, err)
	}
	if it == nil {
		return nil, ErrNotFound
	}
	if !CanAccess(ident, *it) {
		return nil, ErrForbidden
	}
	return it, nil
}
