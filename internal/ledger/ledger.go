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

// Package ledger records the money flows of the portfolio: payments in,
// expenses out, and the aggregates the dashboard shows. Amounts are
// integer cents throughout so totals are exact.
package ledger

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidPayment  = errors.New("invalid payment")
	ErrInvalidExpense  = errors.New("invalid expense")
	ErrTenantMismatch  = errors.New("tenant does not belong to the payment's property")
)

// Payment methods
const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodOnline       = "online"
)

// Payment types
const (
	PaymentRent            = "rent"
	PaymentSecurityDeposit = "security_deposit"
	PaymentMaintenance     = "maintenance"
)

// Payment statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Expense categories
const (
	ExpenseMaintenance = "maintenance"
	ExpenseUtilities   = "utilities"
	ExpenseTaxes       = "taxes"
	ExpenseInsurance   = "insurance"
	ExpenseOther       = "other"
)

// Payment is money received against a property, optionally tied to the
// tenant who paid.
type Payment struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	TenantID    string    `json:"tenant_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	PaidOn      time.Time `json:"paid_on"`
	Method      string    `json:"method"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expense is money spent on a property.
type Expense struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	IncurredOn  time.Time `json:"incurred_on"`
	Vendor      string    `json:"vendor,omitempty"`
	ReceiptURL  string    `json:"receipt_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardStats is the per-owner summary shown on the landing view.
type DashboardStats struct {
	TotalProperties    int        `json:"total_properties"`
	ActiveTenants      int        `json:"active_tenants"`
	MonthlyIncomeCents int64      `json:"monthly_income_cents"`
	PendingMaintenance int        `json:"pending_maintenance"`
	RecentPayments     []*Payment `json:"recent_payments"`
}

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m string) bool {
	return m == MethodCash || m == MethodBankTransfer || m == MethodOnline
}

// ValidPaymentType reports whether t is a known payment type.
func ValidPaymentType(t string) bool {
	return t == PaymentRent || t == PaymentSecurityDeposit || t == PaymentMaintenance
}

// ValidStatus reports whether s is a known payment status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted || s == StatusFailed
}

// ValidCategory reports whether c is a known expense category.
func ValidCategory(c string) bool {
	switch c {
	case ExpenseMaintenance, ExpenseUtilities, ExpenseTaxes, ExpenseInsurance, ExpenseOther:
		return true
	}
	return false
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Create creates a new payment
	Create(p *Payment) error

	// GetByID retrieves a payment within the owner's scope
	GetByID(ownerID, id string) (*Payment, error)

	// ListByOwner retrieves an owner's payments, newest first
	ListByOwner(ownerID string) ([]*Payment, error)

	// ListByProperty retrieves payments of one property within the owner's scope
	ListByProperty(ownerID, propertyID string) ([]*Payment, error)

	// RecentByOwner retrieves the most recent payments, newest first
	RecentByOwner(ownerID string, limit int) ([]*Payment, error)

	// CompletedTotalByProperty sums completed payment amounts for a property
	CompletedTotalByProperty(ownerID, propertyID string) (int64, error)
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// Create creates a new expense
	Create(e *Expense) error

	// ListByOwner retrieves an owner's expenses, newest first
	ListByOwner(ownerID string) ([]*Expense, error)

	// ListByProperty retrieves expenses of one property within the owner's scope
	ListByProperty(ownerID, propertyID string) ([]*Expense, error)

	// TotalByProperty sums expense amounts for a property
	TotalByProperty(ownerID, propertyID string) (int64, error)
}

// MaintenanceCounter reports open maintenance work for the dashboard.
type MaintenanceCounter interface {
	CountPending(ownerID string) (int, error)
}
