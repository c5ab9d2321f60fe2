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
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rentledger/rentledger/internal/ledger"
)

// ExpenseRepository implements ledger.ExpenseRepository
type ExpenseRepository struct {
	db *DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

const expenseColumns = `e.id, e.property_id, e.category, e.description, e.amount_cents, e.incurred_on, e.vendor, e.receipt_url, e.created_at`

func scanExpense(row pgx.Row) (*ledger.Expense, error) {
	var e ledger.Expense
	err := row.Scan(
		&e.ID, &e.PropertyID, &e.Category, &e.Description, &e.AmountCents,
		&e.IncurredOn, &e.Vendor, &e.ReceiptURL, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create creates a new expense
func (r *ExpenseRepository) Create(e *ledger.Expense) error {
	ctx := context.Background()
	now := time.Now()

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO expenses (id, property_id, category, description, amount_cents, incurred_on, vendor, receipt_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.PropertyID, e.Category, e.Description, e.AmountCents, e.IncurredOn, e.Vendor, e.ReceiptURL, now)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	e.CreatedAt = now

	return nil
}

func (r *ExpenseRepository) list(query string, args ...any) ([]*ledger.Expense, error) {
	ctx := context.Background()

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*ledger.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// ListByOwner retrieves an owner's expenses, newest first
func (r *ExpenseRepository) ListByOwner(ownerID string) ([]*ledger.Expense, error) {
	return r.list(`
		SELECT `+expenseColumns+`
		FROM expenses e
		JOIN properties p ON p.id = e.property_id AND p.deleted_at IS NULL
		WHERE p.owner_id = $1
		ORDER BY e.incurred_on DESC
	`, ownerID)
}

// ListByProperty retrieves expenses of one property within the owner's scope
func (r *ExpenseRepository) ListByProperty(ownerID, propertyID string) ([]*ledger.Expense, error) {
	return r.list(`
		SELECT `+expenseColumns+`
		FROM expenses e
		JOIN properties p ON p.id = e.property_id AND p.deleted_at IS NULL
		WHERE e.property_id = $1 AND p.owner_id = $2
		ORDER BY e.incurred_on DESC
	`, propertyID, ownerID)
}

// TotalByProperty sums expense amounts for a property
func (r *ExpenseRepository) TotalByProperty(ownerID, propertyID string) (int64, error) {
	ctx := context.Background()

	var total int64
	err := r.db.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(e.amount_cents), 0)
		FROM expenses e
		JOIN properties p ON p.id = e.property_id AND p.deleted_at IS NULL
		WHERE e.property_id = $1 AND p.owner_id = $2
	`, propertyID, ownerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return total, nil
}
