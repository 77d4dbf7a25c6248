package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/propertybazaar/server/internal/model"
)

// UserRepo defines the interface for user repository operations
type UserRepo interface {
	CreateIfAbsent(ctx context.Context, name, username, contact string, channel model.Channel) (model.Registration, error)
	GetByContact(ctx context.Context, contact string, channel model.Channel) (model.User, error)
}

type userRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo instance
func NewUserRepo(db *sql.DB) UserRepo {
	return &userRepo{db: db}
}

const (
	insertUserByEmail = `
		INSERT INTO users (name, username, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`
	insertUserByMobile = `
		INSERT INTO users (name, username, mobile)
		VALUES ($1, $2, $3)
		ON CONFLICT (mobile) DO NOTHING
		RETURNING id
	`
	selectUserByEmail = `
		SELECT id, name, username, email, mobile, created_at
		FROM users
		WHERE email = $1
	`
	selectUserByMobile = `
		SELECT id, name, username, email, mobile, created_at
		FROM users
		WHERE mobile = $1
	`
)

// CreateIfAbsent inserts a user keyed by the contact column matching channel.
// An existing row is left untouched and reported as RegistrationAlreadyExisted.
func (r *userRepo) CreateIfAbsent(ctx context.Context, name, username, contact string, channel model.Channel) (model.Registration, error) {
	query := insertUserByEmail
	if channel == model.ChannelMobile {
		query = insertUserByMobile
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, name, username, contact).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RegistrationAlreadyExisted, nil
		}
		return model.RegistrationNone, fmt.Errorf("failed to insert user: %w", err)
	}
	return model.RegistrationCreated, nil
}

// GetByContact retrieves a user by email or mobile
func (r *userRepo) GetByContact(ctx context.Context, contact string, channel model.Channel) (model.User, error) {
	query := selectUserByEmail
	if channel == model.ChannelMobile {
		query = selectUserByMobile
	}

	var user model.User
	var name, username sql.NullString
	err := r.db.QueryRowContext(ctx, query, contact).Scan(
		&user.ID,
		&name,
		&username,
		&user.Email,
		&user.Mobile,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, fmt.Errorf("user: %w", model.ErrNotFound)
		}
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.Name = name.String
	user.Username = username.String
	return user, nil
}
