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

	"github.com/rentledger/rentledger/internal/reminder"
)

// LeaseRepository implements reminder.LeaseSource
type LeaseRepository struct {
	db *DB
}

// NewLeaseRepository creates a new lease repository
func NewLeaseRepository(db *DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

// DueLeases lists active leases whose rent is due on the given day of
// the month. The due day is the lease start's day of month, clamped to
// the length of the current month so a lease starting on the 31st still
// comes due in shorter months; leases already ended are excluded.
func (r *LeaseRepository) DueLeases(dayOfMonth int) ([]*reminder.DueLease, error) {
	ctx := context.Background()

	rows, err := r.db.pool.Query(ctx, `
		SELECT p.owner_id, t.id, t.name, t.whatsapp_number, p.name, p.monthly_rent_cents
		FROM tenants t
		JOIN properties p ON p.id = t.property_id AND p.deleted_at IS NULL
		WHERE t.active
		  AND t.whatsapp_number <> ''
		  AND t.lease_start IS NOT NULL
		  AND LEAST(
		        EXTRACT(DAY FROM t.lease_start),
		        EXTRACT(DAY FROM (date_trunc('month', NOW()) + INTERVAL '1 month' - INTERVAL '1 day'))
		      ) = $1
		  AND (t.lease_end IS NULL OR t.lease_end > NOW())
	`, dayOfMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query due leases: %w", err)
	}
	defer rows.Close()

	var leases []*reminder.DueLease
	for rows.Next() {
		var l reminder.DueLease
		if err := rows.Scan(&l.OwnerID, &l.TenantID, &l.TenantName, &l.WhatsAppNumber, &l.PropertyName, &l.MonthlyRentCents); err != nil {
			return nil, fmt.Errorf("failed to scan due lease: %w", err)
		}
		leases = append(leases, &l)
	}

	return leases, rows.Err()
}
