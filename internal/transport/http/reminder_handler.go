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

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rentledger/rentledger/internal/reminder"
	"github.com/rentledger/rentledger/internal/tenancy"
)

// ReminderRequest represents an on-demand rent reminder
type ReminderRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	Message  string `json:"message"`
}

// SendRentReminder sends a rent reminder to one of the owner's tenants
// @Summary Send rent reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ReminderRequest true "Reminder Data"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /reminders/rent [post]
func (h *Handler) SendRentReminder(w http.ResponseWriter, r *http.Request) {
	if h.reminderService == nil {
		respondError(w, http.StatusServiceUnavailable, "reminders are not configured")
		return
	}

	var req ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	err := h.reminderService.SendRentReminder(r.Context(), GetOwnerID(r.Context()), req.TenantID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, tenancy.ErrTenantNotFound):
			respondError(w, http.StatusNotFound, "tenant not found")
		case errors.Is(err, reminder.ErrNoWhatsAppNumber):
			respondError(w, http.StatusUnprocessableEntity, "tenant has no whatsapp number")
		case errors.Is(err, reminder.ErrSendFailed):
			respondError(w, http.StatusBadGateway, "failed to deliver reminder")
		default:
			respondError(w, http.StatusInternalServerError, "failed to send reminder")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "reminder sent",
	})
}
