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

// Package reminder sends rent reminders to tenants over WhatsApp, on
// demand and on a daily schedule for leases with rent falling due.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var (
	// ErrNoWhatsAppNumber is returned when the tenant has no WhatsApp
	// number on file.
	ErrNoWhatsAppNumber = errors.New("tenant has no whatsapp number")

	// ErrSendFailed is returned when the messaging provider rejects or
	// fails the send.
	ErrSendFailed = errors.New("failed to send reminder")
)

// Sender delivers a message to a single recipient.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender sends WhatsApp messages through the Twilio API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender creates a sender authenticated with the given account
// credentials. from is the WhatsApp-enabled number messages are sent from.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

// Send delivers body to the given number over WhatsApp.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(whatsappAddress(to))
	params.SetFrom(whatsappAddress(s.from))
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

func whatsappAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// DueLease describes an active lease whose rent falls due, with enough
// context to compose a reminder.
type DueLease struct {
	OwnerID          string
	TenantID         string
	TenantName       string
	WhatsAppNumber   string
	PropertyName     string
	MonthlyRentCents int64
}

// LeaseSource lists active leases whose rent is due on a given day of
// the month. The due day is derived from the lease start date.
type LeaseSource interface {
	DueLeases(dayOfMonth int) ([]*DueLease, error)
}
