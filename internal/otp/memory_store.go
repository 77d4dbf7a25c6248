package otp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/propertybazaar/server/internal/model"
)

// MemoryStore is a process-local Store. Expired records stay readable for the retention
// period so verification can still tell "expired" from "not found"; Sweep drops them afterwards.
type MemoryStore struct {
	mu        sync.Mutex
	records   map[string]model.OtpRecord
	retention time.Duration
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(retention time.Duration) *MemoryStore {
	return &MemoryStore{
		records:   make(map[string]model.OtpRecord),
		retention: retention,
	}
}

func (m *MemoryStore) Put(_ context.Context, contact string, rec model.OtpRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[contact] = rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, contact string) (model.OtpRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[contact]
	if !ok {
		return model.OtpRecord{}, fmt.Errorf("memory store: %w", model.ErrOTPNotFound)
	}
	return rec, nil
}

func (m *MemoryStore) DeleteIfMatch(_ context.Context, contact, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[contact]
	if !ok || rec.Code != code {
		return false, nil
	}
	delete(m.records, contact)
	return true, nil
}

// Sweep removes records that expired more than the retention period before now.
func (m *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-m.retention)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for contact, rec := range m.records {
		if rec.ExpiresAt.Before(cutoff) {
			delete(m.records, contact)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored records, live or expired.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
