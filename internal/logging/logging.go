package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap logger at the given level ("debug", "info", "warn", "error").
func New(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Contact returns a zap field holding a masked email address or phone number.
func Contact(contact string) zap.Field {
	return zap.String("contact", MaskContact(contact))
}

// MaskContact masks a contact for logging: +91******89, jo***@example.com
func MaskContact(contact string) string {
	if at := strings.LastIndex(contact, "@"); at > 0 {
		local, domain := contact[:at], contact[at:]
		if len(local) <= 2 {
			return strings.Repeat("*", len(local)) + domain
		}
		return local[:2] + strings.Repeat("*", len(local)-2) + domain
	}
	if len(contact) <= 4 {
		return "****"
	}
	return contact[:2] + strings.Repeat("*", len(contact)-4) + contact[len(contact)-2:]
}
