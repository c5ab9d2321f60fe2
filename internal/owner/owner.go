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

package owner

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrOwnerAlreadyExists = errors.New("owner already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password does not meet security requirements")
	ErrAccountLocked      = errors.New("account is locked")
)

// Owner is a property-management account holder: the root of an
// ownership tree of properties, tenants, payments and expenses.
// Every other record in the system belongs to exactly one Owner.
type Owner struct {
	ID                  string
	Username            string
	Email               string
	Phone               string
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// Credentials represents owner authentication credentials
type Credentials struct {
	OwnerID      string
	PasswordHash string
	UpdatedAt    time.Time
}

// Repository defines the interface for owner persistence
type Repository interface {
	// Create creates a new owner account
	Create(owner *Owner) error

	// AddCredentials adds credentials for an owner
	AddCredentials(credentials *Credentials) error

	// GetByID retrieves an owner by ID
	GetByID(id string) (*Owner, error)

	// GetByEmail retrieves an owner by email
	GetByEmail(email string) (*Owner, error)

	// GetByUsername retrieves an owner by username
	GetByUsername(username string) (*Owner, error)

	// Update updates owner information
	Update(owner *Owner) error

	// UpdateLockout updates owner lockout status
	UpdateLockout(ownerID string, failedAttempts int, lockedUntil *time.Time) error

	// Delete soft-deletes an owner
	Delete(id string) error

	// GetCredentials retrieves owner credentials
	GetCredentials(ownerID string) (*Credentials, error)

	// UpdatePassword updates owner password
	UpdatePassword(ownerID string, passwordHash string) error
}
