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

package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/id"
	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/tenancy"
)

// Service provides maintenance request operations.
type Service struct {
	repo        Repository
	properties  property.Repository
	tenants     tenancy.Repository
	auditLogger audit.Logger
}

// NewService creates a new maintenance service.
func NewService(repo Repository, properties property.Repository, tenants tenancy.Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		properties:  properties,
		tenants:     tenants,
		auditLogger: auditLogger,
	}
}

// Open files a new maintenance request against one of the owner's
// properties. When a tenant is named it must live on that property.
func (s *Service) Open(ctx context.Context, ownerID string, r *Request) (*Request, error) {
	if r.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidRequest)
	}
	if !ValidIssueType(r.IssueType) {
		return nil, fmt.Errorf("%w: unknown issue type %q", ErrInvalidRequest, r.IssueType)
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !ValidPriority(r.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidRequest, r.Priority)
	}
	if r.CostCents < 0 {
		return nil, fmt.Errorf("%w: cost cannot be negative", ErrInvalidRequest)
	}

	if _, err := s.properties.GetByID(ownerID, r.PropertyID); err != nil {
		return nil, err
	}
	if r.TenantID != "" {
		tenant, err := s.tenants.GetByID(ownerID, r.TenantID)
		if err != nil {
			return nil, err
		}
		if tenant.PropertyID != r.PropertyID {
			return nil, fmt.Errorf("%w: tenant does not live on this property", ErrInvalidRequest)
		}
	}

	r.ID = id.NewUUIDv7()
	r.Status = StatusOpen
	r.ResolvedAt = nil
	if r.ReportedAt.IsZero() {
		r.ReportedAt = time.Now()
	}

	if err := s.repo.Create(r); err != nil {
		return nil, fmt.Errorf("failed to open maintenance request: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeMaintenanceOpened,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "maintenance_request",
		Metadata: map[string]any{
			"request_id":  r.ID,
			"property_id": r.PropertyID,
			"issue_type":  r.IssueType,
			"priority":    r.Priority,
		},
	})

	return r, nil
}

// Get retrieves one of the owner's maintenance requests.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Request, error) {
	return s.repo.GetByID(ownerID, id)
}

// ListByOwner retrieves the owner's maintenance requests, optionally
// narrowed to one status. An empty status returns everything.
func (s *Service) ListByOwner(ctx context.Context, ownerID, status string) ([]*Request, error) {
	if status != "" && !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}
	requests, err := s.repo.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return requests, nil
	}
	filtered := requests[:0]
	for _, r := range requests {
		if r.Status == status {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// ListByProperty retrieves the requests filed against one property.
func (s *Service) ListByProperty(ctx context.Context, ownerID, propertyID string) ([]*Request, error) {
	if _, err := s.properties.GetByID(ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.repo.ListByProperty(ownerID, propertyID)
}

// UpdateStatus moves a request to a new status. Requests only move
// forward; reaching completed stamps the resolution time, and a cost
// may be recorded at the same time.
func (s *Service) UpdateStatus(ctx context.Context, ownerID, requestID, status string, costCents int64) (*Request, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, status)
	}
	if costCents < 0 {
		return nil, fmt.Errorf("%w: cost cannot be negative", ErrInvalidRequest)
	}

	r, err := s.repo.GetByID(ownerID, requestID)
	if err != nil {
		return nil, err
	}

	if !ValidTransition(r.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, status)
	}

	from := r.Status
	r.Status = status
	if costCents > 0 {
		r.CostCents = costCents
	}
	if status == StatusCompleted {
		now := time.Now()
		r.ResolvedAt = &now
	}

	if err := s.repo.Update(ownerID, r); err != nil {
		return nil, fmt.Errorf("failed to update maintenance request: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeMaintenanceMoved,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "maintenance_request",
		Metadata: map[string]any{
			"request_id": r.ID,
			"from":       from,
			"to":         status,
		},
	})

	return r, nil
}
