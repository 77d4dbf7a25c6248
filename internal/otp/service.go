package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/logging"
	"github.com/propertybazaar/server/internal/model"
	"github.com/propertybazaar/server/internal/validate"
)

const (
	otpExpiry       = 5 * time.Minute
	defaultUserName = "User"
)

// Dispatcher delivers a code to a contact over the given channel
type Dispatcher interface {
	Dispatch(ctx context.Context, channel model.Channel, contact, code string) error
}

// UserRegistrar creates a user keyed by a verified contact unless one already exists
type UserRegistrar interface {
	CreateIfAbsent(ctx context.Context, name, username, contact string, channel model.Channel) (model.Registration, error)
}

// SendRequest asks for a new code
type SendRequest struct {
	Contact string        `validate:"required"`
	Type    model.Channel `validate:"required,oneof=mobile email"`
}

// SendResult is returned when the code was stored and dispatched
type SendResult struct {
	Message string
	// DevCode is only filled in development mode.
	DevCode string
}

// VerifyRequest checks a code. Name and Username together select the registration path.
type VerifyRequest struct {
	Contact  string        `validate:"required"`
	Code     string        `validate:"required"`
	Type     model.Channel `validate:"required,oneof=mobile email"`
	Name     string        `validate:"required_with=Username,max=100"`
	Username string        `validate:"required_with=Name,max=50"`
}

// VerifyResult carries the session identity for the caller to keep
type VerifyResult struct {
	Message      string
	User         model.Identity
	Registration model.Registration
}

// Service issues and verifies one-time codes
type Service struct {
	store      Store
	dispatcher Dispatcher
	users      UserRegistrar
	logger     *zap.Logger
	now        func() time.Time
	generate   func() (string, error)
	devEcho    bool
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCodeGenerator replaces GenerateCode
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) { s.generate = gen }
}

// WithDevEcho returns the generated code in SendResult.DevCode
func WithDevEcho() Option {
	return func(s *Service) { s.devEcho = true }
}

// NewService creates an OTP service
func NewService(store Store, dispatcher Dispatcher, users UserRegistrar, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		dispatcher: dispatcher,
		users:      users,
		logger:     logger,
		now:        time.Now,
		generate:   GenerateCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send generates a code for the contact, replaces any previous one and dispatches it.
// A dispatch failure is reported but the stored code stays valid.
func (s *Service) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	req.Contact = strings.TrimSpace(req.Contact)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Type == model.ChannelEmail {
		if err := validate.Var(req.Contact, "email"); err != nil {
			return nil, fmt.Errorf("contact: %w", err)
		}
	}

	code, err := s.generate()
	if err != nil {
		return nil, err
	}
	rec := model.OtpRecord{Code: code, ExpiresAt: s.now().Add(otpExpiry)}
	if err := s.store.Put(ctx, req.Contact, rec); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	if err := s.dispatcher.Dispatch(ctx, req.Type, req.Contact, code); err != nil {
		s.logger.Warn("otp dispatch failed", logging.Contact(req.Contact), zap.String("type", string(req.Type)), zap.Error(err))
		return nil, fmt.Errorf("send otp via %s: %w", req.Type, err)
	}
	s.logger.Info("otp sent", logging.Contact(req.Contact), zap.String("type", string(req.Type)))

	res := &SendResult{Message: "OTP Sent successfully"}
	if s.devEcho {
		res.DevCode = code
	}
	return res, nil
}

// Verify checks existence, expiry and the code, in that order, then consumes the record.
// With name and username set it also registers the user; registration problems never fail
// the verification.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	req.Contact = strings.TrimSpace(req.Contact)
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	rec, err := s.store.Get(ctx, req.Contact)
	if err != nil {
		return nil, err
	}
	if s.now().After(rec.ExpiresAt) {
		return nil, fmt.Errorf("verify otp: %w", model.ErrOTPExpired)
	}
	if subtle.ConstantTimeCompare([]byte(req.Code), []byte(rec.Code)) != 1 {
		return nil, fmt.Errorf("verify otp: %w", model.ErrOTPMismatch)
	}

	consumed, err := s.store.DeleteIfMatch(ctx, req.Contact, rec.Code)
	if err != nil {
		return nil, fmt.Errorf("consume otp: %w", err)
	}
	if !consumed {
		// replaced or consumed by a concurrent request
		return nil, fmt.Errorf("consume otp: %w", model.ErrOTPNotFound)
	}

	res := &VerifyResult{
		Message: "Verified!",
		User:    model.Identity{Name: defaultUserName, Contact: req.Contact, Type: req.Type},
	}
	if req.Name == "" {
		return res, nil
	}

	reg, err := s.users.CreateIfAbsent(ctx, req.Name, req.Username, req.Contact, req.Type)
	if err != nil {
		s.logger.Error("registration failed", logging.Contact(req.Contact), zap.Error(err))
		res.Registration = model.RegistrationFailed
		return res, nil
	}
	res.Registration = reg
	res.User.Name = req.Name
	res.User.Username = req.Username
	return res, nil
}

// IsClientError reports whether err comes from bad input or a failed check rather than
// from the store or a dispatch channel.
func IsClientError(err error) bool {
	return errors.Is(err, model.ErrValidation) ||
		errors.Is(err, model.ErrOTPNotFound) ||
		errors.Is(err, model.ErrOTPExpired) ||
		errors.Is(err, model.ErrOTPMismatch)
}
