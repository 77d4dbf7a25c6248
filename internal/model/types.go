package model

import (
	"time"
)

// Channel is the delivery channel of a one-time code.
type Channel string

const (
	ChannelMobile Channel = "mobile"
	ChannelEmail  Channel = "email"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelMobile || c == ChannelEmail
}

// User represents a registered user. Exactly one of Email and Mobile is set.
type User struct {
	ID        int64
	Name      string
	Username  string
	Email     *string
	Mobile    *string
	CreatedAt time.Time
}

// Identity is the minimal session identity handed back after a successful verification
type Identity struct {
	Name     string  `json:"name"`
	Username string  `json:"username,omitempty"`
	Contact  string  `json:"contact"`
	Type     Channel `json:"type"`
}

// Registration describes what happened to the user record during verification
type Registration string

const (
	RegistrationNone           Registration = ""
	RegistrationCreated        Registration = "created"
	RegistrationAlreadyExisted Registration = "already_existed"
	RegistrationFailed         Registration = "failed"
)

// OtpRecord is the live one-time code for a contact
type OtpRecord struct {
	Code      string
	ExpiresAt time.Time
}

// Property is a listed real-estate property
type Property struct {
	ID           int64     `json:"id"`
	OwnerName    string    `json:"owner_name"`
	OwnerContact string    `json:"owner_contact"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Area         float64   `json:"area"`
	City         string    `json:"city"`
	Type         string    `json:"type"`
	Purpose      string    `json:"purpose"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// PropertyFilter narrows a property listing. Empty fields match everything.
type PropertyFilter struct {
	Purpose string
	City    string
}

// Appointment is a site-visit request for a property
type Appointment struct {
	ID              int64     `json:"id"`
	PropertyID      int64     `json:"property_id"`
	PropertyTitle   string    `json:"property_title"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	UserPhone       string    `json:"user_phone"`
	AppointmentDate time.Time `json:"appointment_date"`
	Message         string    `json:"message"`
	CreatedAt       time.Time `json:"created_at"`
}

// SavedList is the account-scoped mirror of a wishlist
type SavedList struct {
	Contact     string
	PropertyIDs []int64
	UpdatedAt   time.Time
}
