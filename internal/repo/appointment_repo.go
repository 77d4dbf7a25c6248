package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/propertybazaar/server/internal/model"
)

// AppointmentRepo defines the interface for appointment operations
type AppointmentRepo interface {
	Create(ctx context.Context, a model.Appointment) (model.Appointment, error)
}

type appointmentRepo struct {
	db *sql.DB
}

// NewAppointmentRepo creates a new AppointmentRepo instance
func NewAppointmentRepo(db *sql.DB) AppointmentRepo {
	return &appointmentRepo{db: db}
}

// Create books a site visit
func (r *appointmentRepo) Create(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	query := `
		INSERT INTO appointments
			(property_id, property_title, user_name, user_email, user_phone, appointment_date, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		a.PropertyID, a.PropertyTitle, a.UserName, a.UserEmail, a.UserPhone, a.AppointmentDate, a.Message,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("failed to insert appointment: %w", err)
	}
	return a, nil
}
