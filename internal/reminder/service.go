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

package reminder

import (
	"context"
	"fmt"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/observability/metrics"
	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/tenancy"
)

// Service composes and sends rent reminders.
type Service struct {
	sender      Sender
	tenants     tenancy.Repository
	properties  property.Repository
	auditLogger audit.Logger
	meter       *metrics.Meter
}

// NewService creates a new reminder service.
func NewService(sender Sender, tenants tenancy.Repository, properties property.Repository, auditLogger audit.Logger, meter *metrics.Meter) *Service {
	return &Service{
		sender:      sender,
		tenants:     tenants,
		properties:  properties,
		auditLogger: auditLogger,
		meter:       meter,
	}
}

// SendRentReminder sends a rent reminder to one of the owner's tenants.
// An empty message sends a default composed from the property's rent.
func (s *Service) SendRentReminder(ctx context.Context, ownerID, tenantID, message string) error {
	tenant, err := s.tenants.GetByID(ownerID, tenantID)
	if err != nil {
		return err
	}
	if tenant.WhatsAppNumber == "" {
		return ErrNoWhatsAppNumber
	}

	prop, err := s.properties.GetByID(ownerID, tenant.PropertyID)
	if err != nil {
		return err
	}

	if message == "" {
		message = DefaultMessage(tenant.Name, prop.Name, prop.MonthlyRentCents)
	}

	if err := s.sender.Send(ctx, tenant.WhatsAppNumber, message); err != nil {
		return err
	}

	s.meter.RecordReminder(ctx)
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeReminderSent,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "reminder",
		Metadata: map[string]any{
			"tenant_id":   tenant.ID,
			"property_id": prop.ID,
		},
	})

	return nil
}

// DefaultMessage builds the standard rent reminder text.
func DefaultMessage(tenantName, propertyName string, rentCents int64) string {
	return fmt.Sprintf(
		"Hi %s, this is a friendly reminder that your rent of %s for %s is due. Thank you!",
		tenantName, FormatAmount(rentCents), propertyName,
	)
}

// FormatAmount renders an amount in cents as a decimal string.
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
