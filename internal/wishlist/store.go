// Package wishlist holds the saved-properties set of a single client.
package wishlist

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/model"
)

// StorageKey is the slot the saved ids live under
const StorageKey = "saved_properties"

// Store is an insertion-ordered set of property ids mirrored to Storage on every change
type Store struct {
	mu      sync.RWMutex
	storage Storage
	logger  *zap.Logger
	ids     []int64
}

// Open loads the saved ids. A missing or unreadable value starts an empty set.
func Open(storage Storage, logger *zap.Logger) *Store {
	s := &Store{storage: storage, logger: logger, ids: []int64{}}

	raw, ok, err := storage.Load(StorageKey)
	if err != nil {
		logger.Warn("wishlist load failed, starting empty", zap.Error(err))
		return s
	}
	if !ok {
		return s
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		logger.Warn("wishlist value unparsable, starting empty", zap.Error(err))
		return s
	}
	s.ids = dedupe(ids)
	return s
}

// Toggle removes id when saved and appends it otherwise, then rewrites storage.
// The in-memory set is only changed when the write succeeds.
func (s *Store) Toggle(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next []int64
	if i := slices.Index(s.ids, id); i >= 0 {
		next = slices.Delete(slices.Clone(s.ids), i, i+1)
	} else {
		next = append(slices.Clone(s.ids), id)
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.ids = next
	return nil
}

// Replace swaps the whole set, e.g. after merging with the server copy.
func (s *Store) Replace(ids []int64) error {
	next := dedupe(ids)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(next); err != nil {
		return err
	}
	s.ids = next
	return nil
}

func (s *Store) persist(ids []int64) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode wishlist: %w", err)
	}
	if err := s.storage.Save(StorageKey, raw); err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}
	return nil
}

// IsSaved reports membership without touching storage
func (s *Store) IsSaved(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.ids, id)
}

// IDs returns the saved ids in insertion order
func (s *Store) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

// Filter keeps the saved properties of a fetched list, preserving list order.
func (s *Store) Filter(properties []model.Property) []model.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Property, 0, len(s.ids))
	for _, p := range properties {
		if slices.Contains(s.ids, p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
