package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"itemtrack/internal/models"
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

var _ Items = (*ItemRepository)(nil)

const (
	insertItemSQL = `INSERT INTO items (id, title, description, owner_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	selectItemSQL = `SELECT id, title, description, owner_id, created_at, updated_at FROM items WHERE id = ?`

	updateItemSQL = `UPDATE items SET title = ?, description = ?, updated_at = ? WHERE id = ?`

	deleteItemSQL = `DELETE FROM items WHERE id = ?`
)

func (r *ItemRepository) Create(ctx context.Context, it models.Item) error {
	_, err := r.db.ExecContext(ctx, insertItemSQL,
		it.ID, it.Title, nullable(it.Description), it.OwnerID,
		it.CreatedAt.UTC(), it.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert item %q: %w", it.ID, err)
	}
	return nil
}

// GetByID fetches an item. Returns (nil, nil) if not found.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var (
		it   models.Item
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectItemSQL, id).
		Scan(&it.ID, &it.Title, &desc, &it.OwnerID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select item %q: %w", id, err)
	}
	it.Description = desc.String
	return &it, nil
}

func (r *ItemRepository) Update(ctx context.Context, it models.Item) error {
	res, err := r.db.ExecContext(ctx, updateItemSQL,
		it.Title, nullable(it.Description), it.UpdatedAt.UTC(), it.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %q: %w", it.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteItemSQL, id)
	if err != nil {
		return fmt.Errorf("delete item %q: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns one page of items matching the filter, newest first, plus
// the total match count for pagination.
func (r *ItemRepository) List(ctx context.Context, f ItemFilter) ([]models.Item, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.OwnerID != "" {
		conds = append(conds, "owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		conds = append(conds, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q)+"%")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQ := "SELECT COUNT(*) FROM items" + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	pageQ := "SELECT id, title, description, owner_id, created_at, updated_at FROM items" +
		where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.db.QueryContext(ctx, pageQ, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := make([]models.Item, 0, f.Limit)
	for rows.Next() {
		var (
			it   models.Item
			desc sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Title, &desc, &it.OwnerID, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		it.Description = desc.String
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate items: %w", err)
	}
	return out, total, nil
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
