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

	"github.com/rentledger/rentledger/internal/maintenance"
)

// MaintenanceRepository implements maintenance.Repository
type MaintenanceRepository struct {
	db *DB
}

// NewMaintenanceRepository creates a new maintenance repository
func NewMaintenanceRepository(db *DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const requestColumns = `m.id, m.property_id, m.tenant_id, m.issue_type, m.priority, m.status, m.description, m.cost_cents, m.reported_at, m.resolved_at, m.created_at, m.updated_at`

func scanRequest(row pgx.Row) (*maintenance.Request, error) {
	var req maintenance.Request
	var tenantID sql.NullString
	var resolvedAt sql.NullTime
	err := row.Scan(
		&req.ID, &req.PropertyID, &tenantID, &req.IssueType, &req.Priority,
		&req.Status, &req.Description, &req.CostCents, &req.ReportedAt,
		&resolvedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.TenantID = tenantID.String
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}
	return &req, nil
}

// Create creates a new maintenance request
func (r *MaintenanceRepository) Create(req *maintenance.Request) error {
	ctx := context.Background()
	now := time.Now()

	var tenantID any
	if req.TenantID != "" {
		tenantID = req.TenantID
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO maintenance_requests (id, property_id, tenant_id, issue_type, priority, status, description, cost_cents, reported_at, resolved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, req.ID, req.PropertyID, tenantID, req.IssueType, req.Priority, req.Status, req.Description, req.CostCents, req.ReportedAt, req.ResolvedAt, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert maintenance request: %w", err)
	}

	req.CreatedAt = now
	req.UpdatedAt = now

	return nil
}

// GetByID retrieves a request within the owner's scope
func (r *MaintenanceRepository) GetByID(ownerID, id string) (*maintenance.Request, error) {
	ctx := context.Background()

	req, err := scanRequest(r.db.pool.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM maintenance_requests m
		JOIN properties p ON p.id = m.property_id AND p.deleted_at IS NULL
		WHERE m.id = $1 AND p.owner_id = $2
	`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, maintenance.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to query maintenance request: %w", err)
	}

	return req, nil
}

func (r *MaintenanceRepository) list(query string, args ...any) ([]*maintenance.Request, error) {
	ctx := context.Background()

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query maintenance requests: %w", err)
	}
	defer rows.Close()

	var requests []*maintenance.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan maintenance request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// ListByOwner retrieves all of an owner's maintenance requests, newest first
func (r *MaintenanceRepository) ListByOwner(ownerID string) ([]*maintenance.Request, error) {
	return r.list(`
		SELECT `+requestColumns+`
		FROM maintenance_requests m
		JOIN properties p ON p.id = m.property_id AND p.deleted_at IS NULL
		WHERE p.owner_id = $1
		ORDER BY m.reported_at DESC
	`, ownerID)
}

// ListByProperty retrieves the requests of one property within the owner's scope
func (r *MaintenanceRepository) ListByProperty(ownerID, propertyID string) ([]*maintenance.Request, error) {
	return r.list(`
		SELECT `+requestColumns+`
		FROM maintenance_requests m
		JOIN properties p ON p.id = m.property_id AND p.deleted_at IS NULL
		WHERE m.property_id = $1 AND p.owner_id = $2
		ORDER BY m.reported_at DESC
	`, propertyID, ownerID)
}

// Update updates a request within the owner's scope
func (r *MaintenanceRepository) Update(ownerID string, req *maintenance.Request) error {
	ctx := context.Background()
	now := time.Now()

	tag, err := r.db.pool.Exec(ctx, `
		UPDATE maintenance_requests m
		SET status = $3, priority = $4, cost_cents = $5, resolved_at = $6, updated_at = $7
		FROM properties p
		WHERE m.id = $1 AND m.property_id = p.id AND p.owner_id = $2 AND p.deleted_at IS NULL
	`, req.ID, ownerID, req.Status, req.Priority, req.CostCents, req.ResolvedAt, now)
	if err != nil {
		return fmt.Errorf("failed to update maintenance request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return maintenance.ErrRequestNotFound
	}

	req.UpdatedAt = now

	return nil
}

// CountPending counts an owner's unresolved requests
func (r *MaintenanceRepository) CountPending(ownerID string) (int, error) {
	ctx := context.Background()

	var count int
	err := r.db.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM maintenance_requests m
		JOIN properties p ON p.id = m.property_id AND p.deleted_at IS NULL
		WHERE p.owner_id = $1 AND m.status <> $2
	`, ownerID, maintenance.StatusCompleted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	return count, nil
}
