package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nicolasm28/interview-evaluation/internal/database"
	"github.com/nicolasm28/interview-evaluation/internal/models"
)

// ItemServiceProvider defines the interface for item services.
type ItemServiceProvider interface {
	GetAllItems(ctx context.Context) ([]models.Item, error)
	GetItemByID(ctx context.Context, id int64) (models.Item, error)
	CreateItem(ctx context.Context, title string, body *string, owner string) (models.Item, error)
	UpdateItem(ctx context.Context, id int64, title string, body *string, requester string) (models.Item, error)
	DeleteItem(ctx context.Context, id int64, requester string) error
}

// ItemService provides business logic for todo item management.
type ItemService struct {
	db *sql.DB
}

// NewItemService creates a new ItemService.
func NewItemService(db *sql.DB) *ItemService {
	return &ItemService{db: db}
}

// GetAllItems retrieves every item in insertion order.
func (s *ItemService) GetAllItems(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, body, completed, username FROM todo ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Title, &item.Body, &item.Completed, &item.Username); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItemByID retrieves a single item by its ID.
func (s *ItemService) GetItemByID(ctx context.Context, id int64) (models.Item, error) {
	var item models.Item
	row := s.db.QueryRowContext(ctx, "SELECT id, title, body, completed, username FROM todo WHERE id = ?", id)
	err := row.Scan(&item.ID, &item.Title, &item.Body, &item.Completed, &item.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, ErrItemNotFound
		}
		return models.Item{}, err
	}
	return item, nil
}

// CreateItem inserts a new item owned by the caller. Completed always starts
// false; duplicate titles are rejected by the store's unique constraint.
func (s *ItemService) CreateItem(ctx context.Context, title string, body *string, owner string) (models.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Item{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO todo (title, body, completed, username) VALUES (?, ?, 0, ?)", title, body, owner)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.Item{}, &ConflictError{Err: err}
		}
		return models.Item{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Item{}, err
	}

	return s.GetItemByID(ctx, id)
}

// authorize loads an item and checks that requester owns it. Update and Delete
// share it since both enforce identical existence and ownership rules.
func (s *ItemService) authorize(ctx context.Context, id int64, requester string) (models.Item, error) {
	item, err := s.GetItemByID(ctx, id)
	if err != nil {
		return models.Item{}, err
	}
	if item.Username == nil || *item.Username != requester {
		return models.Item{}, ErrForbidden
	}
	return item, nil
}

// UpdateItem overwrites the title and body of an existing item. Completed and
// owner are immutable. The requester must be the item's owner.
func (s *ItemService) UpdateItem(ctx context.Context, id int64, title string, body *string, requester string) (models.Item, error) {
	if _, err := s.authorize(ctx, id, requester); err != nil {
		return models.Item{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Item{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE todo SET title = ?, body = ? WHERE id = ?", title, body, id); err != nil {
		return models.Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Item{}, err
	}

	return s.GetItemByID(ctx, id)
}

// DeleteItem removes an item after checking ownership. The DELETE itself is
// idempotent; absence is reported by the prior existence check.
func (s *ItemService) DeleteItem(ctx context.Context, id int64, requester string) error {
	if _, err := s.authorize(ctx, id, requester); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM todo WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
