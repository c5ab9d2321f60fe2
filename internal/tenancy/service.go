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

package tenancy

import (
	"context"
	"fmt"
	"time"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/id"
	"github.com/rentledger/rentledger/internal/property"
)

// Service provides tenant and lease business logic
type Service struct {
	repo        Repository
	properties  property.Repository
	auditLogger audit.Logger
}

// NewService creates a new tenancy service
func NewService(repo Repository, properties property.Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		properties:  properties,
		auditLogger: auditLogger,
	}
}

// Add places a tenant on one of the owner's properties. The property
// lookup doubles as the ownership check.
func (s *Service) Add(ctx context.Context, ownerID string, t *Tenant) (*Tenant, error) {
	if t.Name == "" || t.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrInvalidTenant)
	}
	if t.SecurityDepositCents < 0 {
		return nil, fmt.Errorf("%w: security deposit cannot be negative", ErrInvalidTenant)
	}
	if t.LeaseStart != nil && t.LeaseEnd != nil && !t.LeaseEnd.After(*t.LeaseStart) {
		return nil, ErrInvalidLease
	}

	if _, err := s.properties.GetByID(ownerID, t.PropertyID); err != nil {
		return nil, err
	}

	t.ID = id.NewUUIDv7()
	t.Active = true

	if err := s.repo.Create(t); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeTenantAdded,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "tenant",
		Metadata: map[string]any{"tenant_id": t.ID, "property_id": t.PropertyID},
	})

	return t, nil
}

// Get retrieves a tenant in the owner's scope.
func (s *Service) Get(ctx context.Context, ownerID, tenantID string) (*Tenant, error) {
	return s.repo.GetByID(ownerID, tenantID)
}

// ListByOwner retrieves every tenant across the owner's properties.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*Tenant, error) {
	return s.repo.ListByOwner(ownerID)
}

// ListByProperty retrieves the tenants of one property. The property
// lookup enforces the owner scope even when the property has no tenants.
func (s *Service) ListByProperty(ctx context.Context, ownerID, propertyID string) ([]*Tenant, error) {
	if _, err := s.properties.GetByID(ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.repo.ListByProperty(ownerID, propertyID)
}

// Update updates a tenant's contact and lease details.
func (s *Service) Update(ctx context.Context, ownerID string, t *Tenant) (*Tenant, error) {
	existing, err := s.repo.GetByID(ownerID, t.ID)
	if err != nil {
		return nil, err
	}

	if t.Name == "" || t.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrInvalidTenant)
	}
	if t.LeaseStart != nil && t.LeaseEnd != nil && !t.LeaseEnd.After(*t.LeaseStart) {
		return nil, ErrInvalidLease
	}

	existing.Name = t.Name
	existing.Email = t.Email
	existing.Phone = t.Phone
	existing.WhatsAppNumber = t.WhatsAppNumber
	existing.LeaseStart = t.LeaseStart
	existing.LeaseEnd = t.LeaseEnd
	existing.SecurityDepositCents = t.SecurityDepositCents

	if err := s.repo.Update(ownerID, existing); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	return existing, nil
}

// EndLease deactivates a tenant and closes the lease. The lease end is
// stamped with the current time unless it already lies in the past.
func (s *Service) EndLease(ctx context.Context, ownerID, tenantID string) error {
	t, err := s.repo.GetByID(ownerID, tenantID)
	if err != nil {
		return err
	}

	now := time.Now()
	if t.LeaseEnd == nil || t.LeaseEnd.After(now) {
		t.LeaseEnd = &now
	}
	t.Active = false

	if err := s.repo.Update(ownerID, t); err != nil {
		return fmt.Errorf("failed to end lease: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLeaseEnded,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "tenant",
		Metadata: map[string]any{"tenant_id": tenantID},
	})

	return nil
}
