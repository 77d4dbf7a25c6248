package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/propertybazaar/server/internal/model"
)

// PropertyRepo defines the interface for property listing operations
type PropertyRepo interface {
	List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error)
	GetByID(ctx context.Context, id int64) (model.Property, error)
	Create(ctx context.Context, p model.Property) (model.Property, error)
}

type propertyRepo struct {
	db *sql.DB
}

// NewPropertyRepo creates a new PropertyRepo instance
func NewPropertyRepo(db *sql.DB) PropertyRepo {
	return &propertyRepo{db: db}
}

const propertyColumns = `id, owner_name, owner_contact, title, description, price, area, city, type, purpose, image_url, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (model.Property, error) {
	var p model.Property
	err := row.Scan(
		&p.ID,
		&p.OwnerName,
		&p.OwnerContact,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Area,
		&p.City,
		&p.Type,
		&p.Purpose,
		&p.ImageURL,
		&p.CreatedAt,
	)
	return p, err
}

// List returns properties newest first. Purpose matches exactly and city as a substring,
// both case-insensitively.
func (r *propertyRepo) List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties`
	var conds []string
	var args []interface{}
	if purpose := strings.TrimSpace(filter.Purpose); purpose != "" {
		args = append(args, purpose)
		conds = append(conds, fmt.Sprintf("LOWER(purpose) = LOWER($%d)", len(args)))
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		args = append(args, "%"+escapeLike(city)+"%")
		conds = append(conds, fmt.Sprintf("city ILIKE $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := make([]model.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return properties, nil
}

// GetByID retrieves a property by ID
func (r *propertyRepo) GetByID(ctx context.Context, id int64) (model.Property, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = $1`, id)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Property{}, fmt.Errorf("property %d: %w", id, model.ErrNotFound)
		}
		return model.Property{}, fmt.Errorf("failed to query property: %w", err)
	}
	return p, nil
}

// Create inserts a listing and returns it with its generated ID
func (r *propertyRepo) Create(ctx context.Context, p model.Property) (model.Property, error) {
	query := `
		INSERT INTO properties
			(title, description, price, area, city, type, purpose, image_url, owner_name, owner_contact)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.Title, p.Description, p.Price, p.Area, p.City, p.Type, p.Purpose, p.ImageURL, p.OwnerName, p.OwnerContact,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return model.Property{}, fmt.Errorf("failed to insert property: %w", err)
	}
	return p, nil
}

// escapeLike escapes LIKE wildcards so user input only matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
