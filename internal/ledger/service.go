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

package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/id"
	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/tenancy"
)

const recentPaymentsLimit = 5

// Service provides payment, expense and dashboard business logic
type Service struct {
	payments    PaymentRepository
	expenses    ExpenseRepository
	properties  property.Repository
	tenants     tenancy.Repository
	maintenance MaintenanceCounter
	auditLogger audit.Logger
}

// NewService creates a new ledger service
func NewService(
	payments PaymentRepository,
	expenses ExpenseRepository,
	properties property.Repository,
	tenants tenancy.Repository,
	maintenance MaintenanceCounter,
	auditLogger audit.Logger,
) *Service {
	return &Service{
		payments:    payments,
		expenses:    expenses,
		properties:  properties,
		tenants:     tenants,
		maintenance: maintenance,
		auditLogger: auditLogger,
	}
}

// RecordPayment records money received against one of the owner's
// properties. When a tenant is named it must live on that property.
func (s *Service) RecordPayment(ctx context.Context, ownerID string, p *Payment) (*Payment, error) {
	if p.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidPayment)
	}
	if !ValidMethod(p.Method) {
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidPayment, p.Method)
	}
	if !ValidPaymentType(p.Type) {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidPayment, p.Type)
	}
	if p.Status == "" {
		p.Status = StatusCompleted
	}
	if !ValidStatus(p.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidPayment, p.Status)
	}

	if _, err := s.properties.GetByID(ownerID, p.PropertyID); err != nil {
		return nil, err
	}

	if p.TenantID != "" {
		t, err := s.tenants.GetByID(ownerID, p.TenantID)
		if err != nil {
			return nil, err
		}
		if t.PropertyID != p.PropertyID {
			return nil, ErrTenantMismatch
		}
	}

	p.ID = id.NewUUIDv7()
	if p.PaidOn.IsZero() {
		p.PaidOn = time.Now()
	}

	if err := s.payments.Create(p); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePaymentRecorded,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "payment",
		Metadata: map[string]any{
			"payment_id":   p.ID,
			"property_id":  p.PropertyID,
			"amount_cents": p.AmountCents,
			"type":         p.Type,
		},
	})

	return p, nil
}

// ListPayments retrieves the owner's payments, newest first.
func (s *Service) ListPayments(ctx context.Context, ownerID string) ([]*Payment, error) {
	return s.payments.ListByOwner(ownerID)
}

// ListPaymentsByProperty retrieves the payments of one owned property.
func (s *Service) ListPaymentsByProperty(ctx context.Context, ownerID, propertyID string) ([]*Payment, error) {
	if _, err := s.properties.GetByID(ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.payments.ListByProperty(ownerID, propertyID)
}

// PaymentTotal sums completed payments for one owned property.
func (s *Service) PaymentTotal(ctx context.Context, ownerID, propertyID string) (int64, error) {
	if _, err := s.properties.GetByID(ownerID, propertyID); err != nil {
		return 0, err
	}
	return s.payments.CompletedTotalByProperty(ownerID, propertyID)
}

// RecordExpense records money spent on one of the owner's properties.
func (s *Service) RecordExpense(ctx context.Context, ownerID string, e *Expense) (*Expense, error) {
	if e.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	}
	if !ValidCategory(e.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidExpense, e.Category)
	}

	if _, err := s.properties.GetByID(ownerID, e.PropertyID); err != nil {
		return nil, err
	}

	e.ID = id.NewUUIDv7()
	if e.IncurredOn.IsZero() {
		e.IncurredOn = time.Now()
	}

	if err := s.expenses.Create(e); err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeExpenseRecorded,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "expense",
		Metadata: map[string]any{
			"expense_id":   e.ID,
			"property_id":  e.PropertyID,
			"amount_cents": e.AmountCents,
			"category":     e.Category,
		},
	})

	return e, nil
}

// ListExpenses retrieves the owner's expenses, newest first.
func (s *Service) ListExpenses(ctx context.Context, ownerID string) ([]*Expense, error) {
	return s.expenses.ListByOwner(ownerID)
}

// ListExpensesByProperty retrieves the expenses of one owned property.
func (s *Service) ListExpensesByProperty(ctx context.Context, ownerID, propertyID string) ([]*Expense, error) {
	if _, err := s.properties.GetByID(ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.expenses.ListByProperty(ownerID, propertyID)
}

// ExpenseTotal sums expenses for one owned property.
func (s *Service) ExpenseTotal(ctx context.Context, ownerID, propertyID string) (int64, error) {
	if _, err := s.properties.GetByID(ownerID, propertyID); err != nil {
		return 0, err
	}
	return s.expenses.TotalByProperty(ownerID, propertyID)
}

// Dashboard aggregates the owner's portfolio summary. Every figure is
// computed from the underlying rows at call time; nothing is cached,
// so the totals always equal the sum of the records they summarize.
func (s *Service) Dashboard(ctx context.Context, ownerID string) (*DashboardStats, error) {
	totalProperties, err := s.properties.CountByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	activeTenants, err := s.tenants.CountActiveByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tenants: %w", err)
	}

	monthlyIncome, err := s.properties.MonthlyRentTotal(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum monthly rent: %w", err)
	}

	pendingMaintenance, err := s.maintenance.CountPending(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending maintenance: %w", err)
	}

	recent, err := s.payments.RecentByOwner(ownerID, recentPaymentsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent payments: %w", err)
	}

	return &DashboardStats{
		TotalProperties:    totalProperties,
		ActiveTenants:      activeTenants,
		MonthlyIncomeCents: monthlyIncome,
		PendingMaintenance: pendingMaintenance,
		RecentPayments:     recent,
	}, nil
}
