package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/model"
	"github.com/propertybazaar/server/internal/repo"
	"github.com/propertybazaar/server/internal/validate"
)

// accepted appointment date layouts, most specific first
var appointmentDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// AppointmentHandler books site visits
type AppointmentHandler struct {
	appointments repo.AppointmentRepo
	logger       *zap.Logger
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointments repo.AppointmentRepo, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, logger: logger}
}

// bookAppointmentRequest is the request body for POST /api/book-appointment
type bookAppointmentRequest struct {
	PropertyID    int64  `json:"property_id" validate:"required,gt=0"`
	PropertyTitle string `json:"property_title"`
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
	Date          string `json:"date" validate:"required"`
	Message       string `json:"message"`
}

type bookAppointmentResponse struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Appointment model.Appointment `json:"appointment"`
}

// HandleBook handles POST /api/book-appointment
func (h *AppointmentHandler) HandleBook(w http.ResponseWriter, r *http.Request) {
	var req bookAppointmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	date, ok := parseAppointmentDate(req.Date)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid date")
		return
	}

	appointment, err := h.appointments.Create(r.Context(), model.Appointment{
		PropertyID:      req.PropertyID,
		PropertyTitle:   req.PropertyTitle,
		UserName:        req.Name,
		UserEmail:       req.Email,
		UserPhone:       req.Phone,
		AppointmentDate: date,
		Message:         req.Message,
	})
	if err != nil {
		h.logger.Error("failed to book appointment", zap.Int64("property_id", req.PropertyID), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Database error")
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, bookAppointmentResponse{
		Success:     true,
		Message:     "Appointment booked successfully!",
		Appointment: appointment,
	})
}

func parseAppointmentDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range appointmentDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
