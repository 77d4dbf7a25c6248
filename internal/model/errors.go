package model

import "errors"

// Sentinel errors. Lower layers wrap them so handlers can pick a status code with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrOTPNotFound        = errors.New("otp not found")
	ErrOTPExpired         = errors.New("otp expired")
	ErrOTPMismatch        = errors.New("otp mismatch")
	ErrChannelUnavailable = errors.New("channel not configured")
	ErrChannelDispatch    = errors.New("channel dispatch failed")
)
