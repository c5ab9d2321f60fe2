// Copyright 2026 The RentLedger Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rentledger/rentledger/internal/property"
)

// PropertyRepository implements property.Repository
type PropertyRepository struct {
	db *DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

const propertyColumns = `id, owner_id, name, address, property_type, bedrooms, bathrooms, area_sqft, monthly_rent_cents, created_at, updated_at, deleted_at`

func scanProperty(row pgx.Row) (*property.Property, error) {
	var p property.Property
	var deletedAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.PropertyType,
		&p.Bedrooms, &p.Bathrooms, &p.AreaSqft, &p.MonthlyRentCents,
		&p.CreatedAt, &p.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		p.DeletedAt = &deletedAt.Time
	}
	return &p, nil
}

// Create creates a new property
func (r *PropertyRepository) Create(p *property.Property) error {
	ctx := context.Background()
	now := time.Now()

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO properties (id, owner_id, name, address, property_type, bedrooms, bathrooms, area_sqft, monthly_rent_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.OwnerID, p.Name, p.Address, p.PropertyType, p.Bedrooms, p.Bathrooms, p.AreaSqft, p.MonthlyRentCents, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}

	p.CreatedAt = now
	p.UpdatedAt = now

	return nil
}

// GetByID retrieves a property owned by ownerID
func (r *PropertyRepository) GetByID(ownerID, id string) (*property.Property, error) {
	ctx := context.Background()

	p, err := scanProperty(r.db.pool.QueryRow(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, property.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to query property: %w", err)
	}

	return p, nil
}

// ListByOwner retrieves all of an owner's properties
func (r *PropertyRepository) ListByOwner(ownerID string) ([]*property.Property, error) {
	ctx := context.Background()

	rows, err := r.db.pool.Query(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var properties []*property.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, p)
	}

	return properties, rows.Err()
}

// Update updates a property within its owner scope
func (r *PropertyRepository) Update(p *property.Property) error {
	ctx := context.Background()
	now := time.Now()

	tag, err := r.db.pool.Exec(ctx, `
		UPDATE properties
		SET name = $3, address = $4, property_type = $5, bedrooms = $6, bathrooms = $7, area_sqft = $8, monthly_rent_cents = $9, updated_at = $10
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, p.ID, p.OwnerID, p.Name, p.Address, p.PropertyType, p.Bedrooms, p.Bathrooms, p.AreaSqft, p.MonthlyRentCents, now)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return property.ErrPropertyNotFound
	}

	p.UpdatedAt = now

	return nil
}

// Delete soft-deletes a property within its owner scope
func (r *PropertyRepository) Delete(ownerID, id string) error {
	ctx := context.Background()

	tag, err := r.db.pool.Exec(ctx, `
		UPDATE properties SET deleted_at = $3 WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`, id, ownerID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return property.ErrPropertyNotFound
	}

	return nil
}

// CountByOwner counts an owner's properties
func (r *PropertyRepository) CountByOwner(ownerID string) (int, error) {
	ctx := context.Background()

	var count int
	err := r.db.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM properties WHERE owner_id = $1 AND deleted_at IS NULL
	`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}

	return count, nil
}

// MonthlyRentTotal sums monthly rent across an owner's properties
func (r *PropertyRepository) MonthlyRentTotal(ownerID string) (int64, error) {
	ctx := context.Background()

	var total int64
	err := r.db.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(monthly_rent_cents), 0) FROM properties WHERE owner_id = $1 AND deleted_at IS NULL
	`, ownerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum monthly rent: %w", err)
	}

	return total, nil
}
