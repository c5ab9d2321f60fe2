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
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rentledger/rentledger/internal/ledger"
	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/tenancy"
)

// PaymentRequest represents payment recording data
type PaymentRequest struct {
	PropertyID  string     `json:"property_id" validate:"required"`
	TenantID    string     `json:"tenant_id"`
	AmountCents int64      `json:"amount_cents" validate:"required,gt=0"`
	PaidOn      *time.Time `json:"paid_on"`
	Method      string     `json:"method" validate:"required,oneof=cash bank_transfer online"`
	Type        string     `json:"type" validate:"required,oneof=rent security_deposit maintenance"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending completed failed"`
	Notes       string     `json:"notes"`
}

// RecordPayment records a payment against one of the owner's properties
// @Summary Record payment
// @Tags Ledger
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body PaymentRequest true "Payment Data"
// @Success 201 {object} ledger.Payment
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /payments [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	p := &ledger.Payment{
		PropertyID:  req.PropertyID,
		TenantID:    req.TenantID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Type:        req.Type,
		Status:      req.Status,
		Notes:       req.Notes,
	}
	if req.PaidOn != nil {
		p.PaidOn = *req.PaidOn
	}

	created, err := h.ledgerService.RecordPayment(r.Context(), GetOwnerID(r.Context()), p)
	if err != nil {
		switch {
		case errors.Is(err, property.ErrPropertyNotFound):
			respondError(w, http.StatusNotFound, "property not found")
		case errors.Is(err, tenancy.ErrTenantNotFound):
			respondError(w, http.StatusNotFound, "tenant not found")
		case errors.Is(err, ledger.ErrTenantMismatch):
			respondError(w, http.StatusUnprocessableEntity, "tenant does not belong to this property")
		case errors.Is(err, ledger.ErrInvalidPayment):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to record payment")
		}
		return
	}

	h.meter.RecordPayment(r.Context(), created.Type)

	respondJSON(w, http.StatusCreated, created)
}

// ListPayments lists the owner's payments, newest first
// @Summary List payments
// @Tags Ledger
// @Produce json
// @Security CookieAuth
// @Success 200 {array} ledger.Payment
// @Router /payments [get]
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.ledgerService.ListPayments(r.Context(), GetOwnerID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

// ListPropertyPayments lists payments of one property with the completed total
// @Summary List property payments
// @Tags Ledger
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID}/payments [get]
func (h *Handler) ListPropertyPayments(w http.ResponseWriter, r *http.Request) {
	ownerID := GetOwnerID(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	payments, err := h.ledgerService.ListPaymentsByProperty(r.Context(), ownerID, propertyID)
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}

	total, err := h.ledgerService.PaymentTotal(r.Context(), ownerID, propertyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to total payments")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"payments":    payments,
		"total_cents": total,
	})
}

// ExpenseRequest represents expense recording data
type ExpenseRequest struct {
	PropertyID  string     `json:"property_id" validate:"required"`
	Category    string     `json:"category" validate:"required,oneof=maintenance utilities taxes insurance other"`
	Description string     `json:"description"`
	AmountCents int64      `json:"amount_cents" validate:"required,gt=0"`
	IncurredOn  *time.Time `json:"incurred_on"`
	Vendor      string     `json:"vendor"`
	ReceiptURL  string     `json:"receipt_url" validate:"omitempty,url"`
}

// RecordExpense records an expense against one of the owner's properties
// @Summary Record expense
// @Tags Ledger
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ExpenseRequest true "Expense Data"
// @Success 201 {object} ledger.Expense
// @Failure 404 {object} map[string]string
// @Router /expenses [post]
func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	e := &ledger.Expense{
		PropertyID:  req.PropertyID,
		Category:    req.Category,
		Description: req.Description,
		AmountCents: req.AmountCents,
		Vendor:      req.Vendor,
		ReceiptURL:  req.ReceiptURL,
	}
	if req.IncurredOn != nil {
		e.IncurredOn = *req.IncurredOn
	}

	created, err := h.ledgerService.RecordExpense(r.Context(), GetOwnerID(r.Context()), e)
	if err != nil {
		switch {
		case errors.Is(err, property.ErrPropertyNotFound):
			respondError(w, http.StatusNotFound, "property not found")
		case errors.Is(err, ledger.ErrInvalidExpense):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to record expense")
		}
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// ListExpenses lists the owner's expenses, newest first
// @Summary List expenses
// @Tags Ledger
// @Produce json
// @Security CookieAuth
// @Success 200 {array} ledger.Expense
// @Router /expenses [get]
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.ledgerService.ListExpenses(r.Context(), GetOwnerID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

// ListPropertyExpenses lists expenses of one property with the total
// @Summary List property expenses
// @Tags Ledger
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID}/expenses [get]
func (h *Handler) ListPropertyExpenses(w http.ResponseWriter, r *http.Request) {
	ownerID := GetOwnerID(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	expenses, err := h.ledgerService.ListExpensesByProperty(r.Context(), ownerID, propertyID)
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}

	total, err := h.ledgerService.ExpenseTotal(r.Context(), ownerID, propertyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to total expenses")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"expenses":    expenses,
		"total_cents": total,
	})
}
