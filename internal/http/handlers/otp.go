package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/auth"
	"github.com/propertybazaar/server/internal/logging"
	"github.com/propertybazaar/server/internal/model"
	"github.com/propertybazaar/server/internal/otp"
)

const (
	actionSend   = "send"
	actionVerify = "verify"
)

// OTPService is the part of otp.Service the handler needs
type OTPService interface {
	Send(ctx context.Context, req otp.SendRequest) (*otp.SendResult, error)
	Verify(ctx context.Context, req otp.VerifyRequest) (*otp.VerifyResult, error)
}

// OTPHandler serves the single-endpoint send/verify flow
type OTPHandler struct {
	service    OTPService
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewOTPHandler creates a new OTP handler
func NewOTPHandler(service OTPService, jwtService *auth.JWTService, logger *zap.Logger) *OTPHandler {
	return &OTPHandler{service: service, jwtService: jwtService, logger: logger}
}

// otpRequest is the request body for POST /api/otp
type otpRequest struct {
	Action   string `json:"action"`
	Contact  string `json:"contact"`
	Type     string `json:"type"`
	OTP      string `json:"otp"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// sendResponse is the JSON response for action=send
type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	DevOTP  string `json:"dev_otp,omitempty"`
}

// verifyResponse is the JSON response for action=verify
type verifyResponse struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message"`
	User         model.Identity     `json:"user"`
	Registration model.Registration `json:"registration,omitempty"`
	Token        string             `json:"token,omitempty"`
}

// HandleOTP handles POST /api/otp
func (h *OTPHandler) HandleOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case actionSend:
		h.send(w, r, req)
	case actionVerify:
		h.verify(w, r, req)
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid action")
	}
}

func (h *OTPHandler) send(w http.ResponseWriter, r *http.Request, req otpRequest) {
	res, err := h.service.Send(r.Context(), otp.SendRequest{
		Contact: req.Contact,
		Type:    model.Channel(req.Type),
	})
	if err != nil {
		h.respondWithOTPError(w, req.Contact, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, sendResponse{
		Success: true,
		Message: res.Message,
		DevOTP:  res.DevCode,
	})
}

func (h *OTPHandler) verify(w http.ResponseWriter, r *http.Request, req otpRequest) {
	res, err := h.service.Verify(r.Context(), otp.VerifyRequest{
		Contact:  req.Contact,
		Code:     req.OTP,
		Type:     model.Channel(req.Type),
		Name:     req.Name,
		Username: req.Username,
	})
	if err != nil {
		h.respondWithOTPError(w, req.Contact, err)
		return
	}

	token, err := h.jwtService.SignSessionToken(res.User)
	if err != nil {
		// the code is already consumed; the identity is still returned
		h.logger.Error("failed to sign session token", logging.Contact(req.Contact), zap.Error(err))
	}

	respondWithJSON(w, h.logger, http.StatusOK, verifyResponse{
		Success:      true,
		Message:      res.Message,
		User:         res.User,
		Registration: res.Registration,
		Token:        token,
	})
}

// respondWithOTPError maps service errors to status codes and user-facing messages
func (h *OTPHandler) respondWithOTPError(w http.ResponseWriter, contact string, err error) {
	switch {
	case errors.Is(err, model.ErrOTPNotFound):
		respondWithError(w, http.StatusBadRequest, "OTP not found. Resend it.")
	case errors.Is(err, model.ErrOTPExpired):
		respondWithError(w, http.StatusBadRequest, "OTP expired")
	case errors.Is(err, model.ErrOTPMismatch):
		respondWithError(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, model.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrChannelUnavailable), errors.Is(err, model.ErrChannelDispatch):
		respondWithError(w, http.StatusInternalServerError, "Failed to send OTP")
	default:
		h.logger.Error("otp request failed", logging.Contact(contact), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Server Error")
	}
}
