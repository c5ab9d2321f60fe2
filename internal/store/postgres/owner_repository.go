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

	"github.com/rentledger/rentledger/internal/owner"
)

// OwnerRepository implements owner.Repository
type OwnerRepository struct {
	db *DB
}

// NewOwnerRepository creates a new owner repository
func NewOwnerRepository(db *DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// Create creates a new owner account
func (r *OwnerRepository) Create(o *owner.Owner) error {
	ctx := context.Background()
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO owners (id, username, email, phone, failed_login_attempts, locked_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, o.ID, o.Username, o.Email, o.Phone, o.FailedLoginAttempts, o.LockedUntil, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert owner: %w", err)
	}

	o.CreatedAt = now
	o.UpdatedAt = now

	return nil
}

// AddCredentials adds credentials for an owner
func (r *OwnerRepository) AddCredentials(credentials *owner.Credentials) error {
	ctx := context.Background()
	now := time.Now()

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO credentials (owner_id, password_hash, updated_at)
		VALUES ($1, $2, $3)
	`, credentials.OwnerID, credentials.PasswordHash, now)
	if err != nil {
		return fmt.Errorf("failed to insert credentials: %w", err)
	}

	credentials.UpdatedAt = now

	return nil
}

const ownerColumns = `id, username, email, phone, failed_login_attempts, locked_until, created_at, updated_at, deleted_at`

func (r *OwnerRepository) getBy(where string, arg any) (*owner.Owner, error) {
	ctx := context.Background()

	var o owner.Owner
	var lockedUntil, deletedAt sql.NullTime

	err := r.db.pool.QueryRow(ctx,
		`SELECT `+ownerColumns+` FROM owners WHERE `+where+` AND deleted_at IS NULL`, arg,
	).Scan(
		&o.ID, &o.Username, &o.Email, &o.Phone, &o.FailedLoginAttempts,
		&lockedUntil, &o.CreatedAt, &o.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, owner.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to query owner: %w", err)
	}

	if lockedUntil.Valid {
		o.LockedUntil = &lockedUntil.Time
	}
	if deletedAt.Valid {
		o.DeletedAt = &deletedAt.Time
	}

	return &o, nil
}

// GetByID retrieves an owner by ID
func (r *OwnerRepository) GetByID(id string) (*owner.Owner, error) {
	return r.getBy("id = $1", id)
}

// GetByEmail retrieves an owner by email
func (r *OwnerRepository) GetByEmail(email string) (*owner.Owner, error) {
	return r.getBy("email = $1", email)
}

// GetByUsername retrieves an owner by username
func (r *OwnerRepository) GetByUsername(username string) (*owner.Owner, error) {
	return r.getBy("username = $1", username)
}

// Update updates owner information
func (r *OwnerRepository) Update(o *owner.Owner) error {
	ctx := context.Background()
	now := time.Now()

	tag, err := r.db.pool.Exec(ctx, `
		UPDATE owners
		SET username = $2, email = $3, phone = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`, o.ID, o.Username, o.Email, o.Phone, now)
	if err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return owner.ErrOwnerNotFound
	}

	o.UpdatedAt = now

	return nil
}

// UpdateLockout updates owner lockout status
func (r *OwnerRepository) UpdateLockout(ownerID string, failedAttempts int, lockedUntil *time.Time) error {
	ctx := context.Background()

	_, err := r.db.pool.Exec(ctx, `
		UPDATE owners
		SET failed_login_attempts = $2, locked_until = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`, ownerID, failedAttempts, lockedUntil, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update lockout: %w", err)
	}

	return nil
}

// Delete soft-deletes an owner
func (r *OwnerRepository) Delete(id string) error {
	ctx := context.Background()

	tag, err := r.db.pool.Exec(ctx, `
		UPDATE owners SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL
	`, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return owner.ErrOwnerNotFound
	}

	return nil
}

// GetCredentials retrieves owner credentials
func (r *OwnerRepository) GetCredentials(ownerID string) (*owner.Credentials, error) {
	ctx := context.Background()

	var c owner.Credentials
	err := r.db.pool.QueryRow(ctx, `
		SELECT owner_id, password_hash, updated_at FROM credentials WHERE owner_id = $1
	`, ownerID).Scan(&c.OwnerID, &c.PasswordHash, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, owner.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}

	return &c, nil
}

// UpdatePassword updates owner password
func (r *OwnerRepository) UpdatePassword(ownerID string, passwordHash string) error {
	ctx := context.Background()

	tag, err := r.db.pool.Exec(ctx, `
		UPDATE credentials SET password_hash = $2, updated_at = $3 WHERE owner_id = $1
	`, ownerID, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return owner.ErrOwnerNotFound
	}

	return nil
}
