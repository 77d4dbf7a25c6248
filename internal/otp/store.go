package otp

import (
	"context"
	"time"

	"github.com/propertybazaar/server/internal/model"
)

// Store keeps at most one live code per contact.
type Store interface {
	// Put replaces whatever record the contact had.
	Put(ctx context.Context, contact string, rec model.OtpRecord) error
	// Get returns model.ErrOTPNotFound (wrapped) when the contact has no record.
	Get(ctx context.Context, contact string) (model.OtpRecord, error)
	// DeleteIfMatch removes the record only while it still holds code.
	DeleteIfMatch(ctx context.Context, contact, code string) (bool, error)
}

// Sweepable is implemented by stores that need an external cleanup pass to bound their size.
type Sweepable interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}
