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

	"github.com/rentledger/rentledger/internal/ledger"
)

// PaymentRepository implements ledger.PaymentRepository
type PaymentRepository struct {
	db *DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `pay.id, pay.property_id, pay.tenant_id, pay.amount_cents, pay.paid_on, pay.method, pay.payment_type, pay.status, pay.notes, pay.created_at`

func scanPayment(row pgx.Row) (*ledger.Payment, error) {
	var p ledger.Payment
	var tenantID sql.NullString
	err := row.Scan(
		&p.ID, &p.PropertyID, &tenantID, &p.AmountCents, &p.PaidOn,
		&p.Method, &p.Type, &p.Status, &p.Notes, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.TenantID = tenantID.String
	return &p, nil
}

// Create creates a new payment
func (r *PaymentRepository) Create(p *ledger.Payment) error {
	ctx := context.Background()
	now := time.Now()

	var tenantID any
	if p.TenantID != "" {
		tenantID = p.TenantID
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO payments (id, property_id, tenant_id, amount_cents, paid_on, method, payment_type, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.PropertyID, tenantID, p.AmountCents, p.PaidOn, p.Method, p.Type, p.Status, p.Notes, now)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	p.CreatedAt = now

	return nil
}

// GetByID retrieves a payment within the owner's scope
func (r *PaymentRepository) GetByID(ownerID, id string) (*ledger.Payment, error) {
	ctx := context.Background()

	p, err := scanPayment(r.db.pool.QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments pay
		JOIN properties p ON p.id = pay.property_id AND p.deleted_at IS NULL
		WHERE pay.id = $1 AND p.owner_id = $2
	`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}

	return p, nil
}

func (r *PaymentRepository) list(query string, args ...any) ([]*ledger.Payment, error) {
	ctx := context.Background()

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*ledger.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// ListByOwner retrieves an owner's payments, newest first
func (r *PaymentRepository) ListByOwner(ownerID string) ([]*ledger.Payment, error) {
	return r.list(`
		SELECT `+paymentColumns+`
		FROM payments pay
		JOIN properties p ON p.id = pay.property_id AND p.deleted_at IS NULL
		WHERE p.owner_id = $1
		ORDER BY pay.paid_on DESC
	`, ownerID)
}

// ListByProperty retrieves payments of one property within the owner's scope
func (r *PaymentRepository) ListByProperty(ownerID, propertyID string) ([]*ledger.Payment, error) {
	return r.list(`
		SELECT `+paymentColumns+`
		FROM payments pay
		JOIN properties p ON p.id = pay.property_id AND p.deleted_at IS NULL
		WHERE pay.property_id = $1 AND p.owner_id = $2
		ORDER BY pay.paid_on DESC
	`, propertyID, ownerID)
}

// RecentByOwner retrieves the most recent payments, newest first
func (r *PaymentRepository) RecentByOwner(ownerID string, limit int) ([]*ledger.Payment, error) {
	return r.list(`
		SELECT `+paymentColumns+`
		FROM payments pay
		JOIN properties p ON p.id = pay.property_id AND p.deleted_at IS NULL
		WHERE p.owner_id = $1
		ORDER BY pay.paid_on DESC
		LIMIT $2
	`, ownerID, limit)
}

// CompletedTotalByProperty sums completed payment amounts for a property
func (r *PaymentRepository) CompletedTotalByProperty(ownerID, propertyID string) (int64, error) {
	ctx := context.Background()

	var total int64
	err := r.db.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(pay.amount_cents), 0)
		FROM payments pay
		JOIN properties p ON p.id = pay.property_id AND p.deleted_at IS NULL
		WHERE pay.property_id = $1 AND p.owner_id = $2 AND pay.status = $3
	`, propertyID, ownerID, ledger.StatusCompleted).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}

	return total, nil
}
