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

	"github.com/rentledger/rentledger/internal/tenancy"
)

// TenantRepository implements tenancy.Repository
type TenantRepository struct {
	db *DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *DB) *TenantRepository {
	return &TenantRepository{db: db}
}

const tenantColumns = `t.id, t.property_id, t.name, t.email, t.phone, t.whatsapp_number, t.lease_start, t.lease_end, t.security_deposit_cents, t.active, t.created_at, t.updated_at`

func scanTenant(row pgx.Row) (*tenancy.Tenant, error) {
	var t tenancy.Tenant
	var leaseStart, leaseEnd sql.NullTime
	err := row.Scan(
		&t.ID, &t.PropertyID, &t.Name, &t.Email, &t.Phone, &t.WhatsAppNumber,
		&leaseStart, &leaseEnd, &t.SecurityDepositCents, &t.Active,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if leaseStart.Valid {
		t.LeaseStart = &leaseStart.Time
	}
	if leaseEnd.Valid {
		t.LeaseEnd = &leaseEnd.Time
	}
	return &t, nil
}

// Create creates a new tenant
func (r *TenantRepository) Create(t *tenancy.Tenant) error {
	ctx := context.Background()
	now := time.Now()

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO tenants (id, property_id, name, email, phone, whatsapp_number, lease_start, lease_end, security_deposit_cents, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, t.ID, t.PropertyID, t.Name, t.Email, t.Phone, t.WhatsAppNumber, t.LeaseStart, t.LeaseEnd, t.SecurityDepositCents, t.Active, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", err)
	}

	t.CreatedAt = now
	t.UpdatedAt = now

	return nil
}

// GetByID retrieves a tenant within the owner's scope
func (r *TenantRepository) GetByID(ownerID, id string) (*tenancy.Tenant, error) {
	ctx := context.Background()

	t, err := scanTenant(r.db.pool.QueryRow(ctx, `
		SELECT `+tenantColumns+`
		FROM tenants t
		JOIN properties p ON p.id = t.property_id AND p.deleted_at IS NULL
		WHERE t.id = $1 AND p.owner_id = $2
	`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tenancy.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to query tenant: %w", err)
	}

	return t, nil
}

func (r *TenantRepository) list(query string, args ...any) ([]*tenancy.Tenant, error) {
	ctx := context.Background()

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenancy.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}

	return tenants, rows.Err()
}

// ListByOwner retrieves all tenants across an owner's properties
func (r *TenantRepository) ListByOwner(ownerID string) ([]*tenancy.Tenant, error) {
	return r.list(`
		SELECT `+tenantColumns+`
		FROM tenants t
		JOIN properties p ON p.id = t.property_id AND p.deleted_at IS NULL
		WHERE p.owner_id = $1
		ORDER BY t.created_at DESC
	`, ownerID)
}

// ListByProperty retrieves tenants of one property within the owner's scope
func (r *TenantRepository) ListByProperty(ownerID, propertyID string) ([]*tenancy.Tenant, error) {
	return r.list(`
		SELECT `+tenantColumns+`
		FROM tenants t
		JOIN properties p ON p.id = t.property_id AND p.deleted_at IS NULL
		WHERE t.property_id = $1 AND p.owner_id = $2
		ORDER BY t.created_at DESC
	`, propertyID, ownerID)
}

// Update updates a tenant within the owner's scope
func (r *TenantRepository) Update(ownerID string, t *tenancy.Tenant) error {
	ctx := context.Background()
	now := time.Now()

	tag, err := r.db.pool.Exec(ctx, `
		UPDATE tenants t
		SET name = $3, email = $4, phone = $5, whatsapp_number = $6, lease_start = $7, lease_end = $8, security_deposit_cents = $9, active = $10, updated_at = $11
		FROM properties p
		WHERE t.id = $1 AND t.property_id = p.id AND p.owner_id = $2 AND p.deleted_at IS NULL
	`, t.ID, ownerID, t.Name, t.Email, t.Phone, t.WhatsAppNumber, t.LeaseStart, t.LeaseEnd, t.SecurityDepositCents, t.Active, now)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenancy.ErrTenantNotFound
	}

	t.UpdatedAt = now

	return nil
}

// CountActiveByOwner counts active tenants across an owner's properties
func (r *TenantRepository) CountActiveByOwner(ownerID string) (int, error) {
	ctx := context.Background()

	var count int
	err := r.db.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM tenants t
		JOIN properties p ON p.id = t.property_id AND p.deleted_at IS NULL
		WHERE p.owner_id = $1 AND t.active
	`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tenants: %w", err)
	}

	return count, nil
}
