package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/propertybazaar/server/internal/model"
)

// SavedListRepo stores the account-scoped copy of a wishlist
type SavedListRepo interface {
	Get(ctx context.Context, contact string) (model.SavedList, error)
	// PutIfNewer writes list unless the stored row has a later updated_at, and returns the row that won.
	PutIfNewer(ctx context.Context, list model.SavedList) (model.SavedList, error)
}

type savedListRepo struct {
	db *sql.DB
}

// NewSavedListRepo creates a new SavedListRepo instance
func NewSavedListRepo(db *sql.DB) SavedListRepo {
	return &savedListRepo{db: db}
}

// Get returns the stored list or model.ErrNotFound
func (r *savedListRepo) Get(ctx context.Context, contact string) (model.SavedList, error) {
	var raw []byte
	list := model.SavedList{Contact: contact}
	err := r.db.QueryRowContext(ctx, `
		SELECT property_ids, updated_at FROM saved_lists WHERE contact = $1
	`, contact).Scan(&raw, &list.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SavedList{}, fmt.Errorf("saved list: %w", model.ErrNotFound)
		}
		return model.SavedList{}, fmt.Errorf("failed to query saved list: %w", err)
	}
	if err := json.Unmarshal(raw, &list.PropertyIDs); err != nil {
		return model.SavedList{}, fmt.Errorf("decode property_ids: %w", err)
	}
	return list, nil
}

// PutIfNewer is last-write-wins by updated_at
func (r *savedListRepo) PutIfNewer(ctx context.Context, list model.SavedList) (model.SavedList, error) {
	ids := list.PropertyIDs
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return model.SavedList{}, fmt.Errorf("encode property_ids: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO saved_lists (contact, property_ids, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (contact) DO UPDATE
		SET property_ids = EXCLUDED.property_ids, updated_at = EXCLUDED.updated_at
		WHERE saved_lists.updated_at < EXCLUDED.updated_at
	`, list.Contact, raw, list.UpdatedAt)
	if err != nil {
		return model.SavedList{}, fmt.Errorf("failed to upsert saved list: %w", err)
	}
	return r.Get(ctx, list.Contact)
}
