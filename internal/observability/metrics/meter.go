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

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps the OpenTelemetry meter and the instruments the service
// records on its hot paths.
type Meter struct {
	meter metric.Meter

	logins    metric.Int64Counter
	payments  metric.Int64Counter
	reminders metric.Int64Counter
}

// New creates a new meter instance with the domain instruments registered.
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	var meter metric.Meter
	if !cfg.Enabled {
		meter = otel.Meter("noop")
	} else {
		// Meter provider with exporters is configured by the SDK from env.
		meter = otel.Meter(serviceName)
	}

	m := &Meter{meter: meter}

	var err error
	if m.logins, err = meter.Int64Counter("auth_logins_total",
		metric.WithDescription("Login attempts by result")); err != nil {
		return nil, fmt.Errorf("failed to create login counter: %w", err)
	}
	if m.payments, err = meter.Int64Counter("payments_recorded_total",
		metric.WithDescription("Payments recorded")); err != nil {
		return nil, fmt.Errorf("failed to create payment counter: %w", err)
	}
	if m.reminders, err = meter.Int64Counter("rent_reminders_sent_total",
		metric.WithDescription("Rent reminders dispatched")); err != nil {
		return nil, fmt.Errorf("failed to create reminder counter: %w", err)
	}

	return m, nil
}

// RecordLogin counts a login attempt. result is "success" or "failure".
func (m *Meter) RecordLogin(ctx context.Context, result string) {
	m.logins.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordPayment counts a recorded payment by type.
func (m *Meter) RecordPayment(ctx context.Context, paymentType string) {
	m.payments.Add(ctx, 1, metric.WithAttributes(attribute.String("type", paymentType)))
}

// RecordReminder counts a dispatched rent reminder.
func (m *Meter) RecordReminder(ctx context.Context) {
	m.reminders.Add(ctx, 1)
}
