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

package property

import (
	"context"
	"fmt"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/id"
)

// Service provides property business logic. Every operation is scoped
// to the calling owner; a property outside that scope behaves as if it
// does not exist.
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new property service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		auditLogger: auditLogger,
	}
}

// Create creates a property under the owner.
func (s *Service) Create(ctx context.Context, ownerID string, p *Property) (*Property, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProperty)
	}
	if p.PropertyType != "" && !ValidType(p.PropertyType) {
		return nil, fmt.Errorf("%w: unknown property type %q", ErrInvalidProperty, p.PropertyType)
	}
	if p.MonthlyRentCents < 0 {
		return nil, fmt.Errorf("%w: monthly rent cannot be negative", ErrInvalidProperty)
	}

	p.ID = id.NewUUIDv7()
	p.OwnerID = ownerID

	if err := s.repo.Create(p); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePropertyCreated,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "property",
		Metadata: map[string]any{"property_id": p.ID, "name": p.Name},
	})

	return p, nil
}

// Get retrieves one of the owner's properties.
func (s *Service) Get(ctx context.Context, ownerID, propertyID string) (*Property, error) {
	return s.repo.GetByID(ownerID, propertyID)
}

// List retrieves all of the owner's properties.
func (s *Service) List(ctx context.Context, ownerID string) ([]*Property, error) {
	return s.repo.ListByOwner(ownerID)
}

// Update updates a property the owner holds. The stored record is
// fetched first so the owner scope is checked before any write.
func (s *Service) Update(ctx context.Context, ownerID string, p *Property) (*Property, error) {
	existing, err := s.repo.GetByID(ownerID, p.ID)
	if err != nil {
		return nil, err
	}

	if p.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProperty)
	}
	if p.PropertyType != "" && !ValidType(p.PropertyType) {
		return nil, fmt.Errorf("%w: unknown property type %q", ErrInvalidProperty, p.PropertyType)
	}
	if p.MonthlyRentCents < 0 {
		return nil, fmt.Errorf("%w: monthly rent cannot be negative", ErrInvalidProperty)
	}

	existing.Name = p.Name
	existing.Address = p.Address
	existing.PropertyType = p.PropertyType
	existing.Bedrooms = p.Bedrooms
	existing.Bathrooms = p.Bathrooms
	existing.AreaSqft = p.AreaSqft
	existing.MonthlyRentCents = p.MonthlyRentCents

	if err := s.repo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	return existing, nil
}

// Delete soft-deletes one of the owner's properties.
func (s *Service) Delete(ctx context.Context, ownerID, propertyID string) error {
	if err := s.repo.Delete(ownerID, propertyID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePropertyDeleted,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "property",
		Metadata: map[string]any{"property_id": propertyID},
	})

	return nil
}
