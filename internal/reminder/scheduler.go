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
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/observability/metrics"
)

// Scheduler runs the daily rent reminder job. Each run looks up the
// active leases whose rent falls due that day and sends each tenant a
// reminder.
type Scheduler struct {
	cron        *cron.Cron
	leases      LeaseSource
	sender      Sender
	auditLogger audit.Logger
	meter       *metrics.Meter
}

// NewScheduler creates a scheduler firing on the given cron spec
// (e.g. "0 9 * * *" for nine every morning).
func NewScheduler(spec string, leases LeaseSource, sender Sender, auditLogger audit.Logger, meter *metrics.Meter) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		leases:      leases,
		sender:      sender,
		auditLogger: auditLogger,
		meter:       meter,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing scheduled runs in a background goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	ctx := context.Background()
	sent, err := s.SendDue(ctx, time.Now())
	if err != nil {
		slog.Error("rent reminder run failed", slog.String("error", err.Error()))
		return
	}
	slog.Info("rent reminder run finished", slog.Int("sent", sent))
}

// SendDue sends a reminder for every active lease whose rent is due on
// now's day of the month. A failed send is logged and skipped; the run
// continues with the remaining leases. Returns the number sent.
func (s *Scheduler) SendDue(ctx context.Context, now time.Time) (int, error) {
	leases, err := s.leases.DueLeases(now.Day())
	if err != nil {
		return 0, fmt.Errorf("failed to list due leases: %w", err)
	}

	sent := 0
	for _, lease := range leases {
		if lease.WhatsAppNumber == "" {
			continue
		}
		body := DefaultMessage(lease.TenantName, lease.PropertyName, lease.MonthlyRentCents)
		if err := s.sender.Send(ctx, lease.WhatsAppNumber, body); err != nil {
			slog.Error("failed to send rent reminder",
				slog.String("tenant_id", lease.TenantID),
				slog.String("error", err.Error()))
			continue
		}
		sent++
		s.meter.RecordReminder(ctx)
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeReminderSent,
			OwnerID:  lease.OwnerID,
			Resource: "reminder",
			Metadata: map[string]any{"tenant_id": lease.TenantID, "scheduled": true},
		})
	}
	return sent, nil
}
