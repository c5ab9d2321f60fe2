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

// Package tenancy holds tenant and lease records. "Tenant" here is a
// renter on a property, not an isolation domain; isolation domains are
// owners (see the owner package).
package tenancy

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrInvalidTenant  = errors.New("invalid tenant")
	ErrInvalidLease   = errors.New("lease end must be after lease start")
)

// Tenant is a renter on exactly one property, holding the lease terms.
type Tenant struct {
	ID                   string     `json:"id"`
	PropertyID           string     `json:"property_id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	Phone                string     `json:"phone"`
	WhatsAppNumber       string     `json:"whatsapp_number"`
	LeaseStart           *time.Time `json:"lease_start"`
	LeaseEnd             *time.Time `json:"lease_end"`
	SecurityDepositCents int64      `json:"security_deposit_cents"`
	Active               bool       `json:"active"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Repository defines the interface for tenant persistence. All lookups
// are scoped to the owner through the tenant's property.
type Repository interface {
	// Create creates a new tenant
	Create(t *Tenant) error

	// GetByID retrieves a tenant within the owner's scope
	GetByID(ownerID, id string) (*Tenant, error)

	// ListByOwner retrieves all tenants across an owner's properties
	ListByOwner(ownerID string) ([]*Tenant, error)

	// ListByProperty retrieves tenants of one property within the owner's scope
	ListByProperty(ownerID, propertyID string) ([]*Tenant, error)

	// Update updates a tenant within the owner's scope
	Update(ownerID string, t *Tenant) error

	// CountActiveByOwner counts active tenants across an owner's properties
	CountActiveByOwner(ownerID string) (int, error)
}
