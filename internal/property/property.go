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
	"errors"
	"time"
)

// Domain errors
var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrInvalidProperty  = errors.New("invalid property")
)

// Property types
const (
	TypeApartment  = "apartment"
	TypeHouse      = "house"
	TypeCommercial = "commercial"
)

// Property is a rental unit belonging to exactly one owner. All money
// amounts are integer cents.
type Property struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"owner_id"`
	Name             string     `json:"name"`
	Address          string     `json:"address"`
	PropertyType     string     `json:"property_type"`
	Bedrooms         int        `json:"bedrooms"`
	Bathrooms        int        `json:"bathrooms"`
	AreaSqft         float64    `json:"area_sqft"`
	MonthlyRentCents int64      `json:"monthly_rent_cents"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"-"`
}

// ValidType reports whether t is a known property type.
func ValidType(t string) bool {
	return t == TypeApartment || t == TypeHouse || t == TypeCommercial
}

// Repository defines the interface for property persistence. Every
// lookup takes the owner ID so scoping cannot be skipped at a call site.
type Repository interface {
	// Create creates a new property
	Create(p *Property) error

	// GetByID retrieves a property owned by ownerID
	GetByID(ownerID, id string) (*Property, error)

	// ListByOwner retrieves all of an owner's properties
	ListByOwner(ownerID string) ([]*Property, error)

	// Update updates a property within its owner scope
	Update(p *Property) error

	// Delete soft-deletes a property within its owner scope
	Delete(ownerID, id string) error

	// CountByOwner counts an owner's properties
	CountByOwner(ownerID string) (int, error)

	// MonthlyRentTotal sums monthly rent across an owner's properties
	MonthlyRentTotal(ownerID string) (int64, error)
}
