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

	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/tenancy"
)

// TenantRequest represents tenant create/update data
type TenantRequest struct {
	Name                 string     `json:"name" validate:"required"`
	Email                string     `json:"email" validate:"omitempty,email"`
	Phone                string     `json:"phone" validate:"required"`
	WhatsAppNumber       string     `json:"whatsapp_number"`
	LeaseStart           *time.Time `json:"lease_start"`
	LeaseEnd             *time.Time `json:"lease_end"`
	SecurityDepositCents int64      `json:"security_deposit_cents" validate:"gte=0"`
}

func (req *TenantRequest) toTenant() *tenancy.Tenant {
	return &tenancy.Tenant{
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		WhatsAppNumber:       req.WhatsAppNumber,
		LeaseStart:           req.LeaseStart,
		LeaseEnd:             req.LeaseEnd,
		SecurityDepositCents: req.SecurityDepositCents,
	}
}

func respondTenantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tenancy.ErrTenantNotFound):
		respondError(w, http.StatusNotFound, "tenant not found")
	case errors.Is(err, property.ErrPropertyNotFound):
		respondError(w, http.StatusNotFound, "property not found")
	case errors.Is(err, tenancy.ErrInvalidTenant), errors.Is(err, tenancy.ErrInvalidLease):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "tenant operation failed")
	}
}

// AddTenant adds a tenant to one of the owner's properties
// @Summary Add tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Param request body TenantRequest true "Tenant Data"
// @Success 201 {object} tenancy.Tenant
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID}/tenants [post]
func (h *Handler) AddTenant(w http.ResponseWriter, r *http.Request) {
	var req TenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	t := req.toTenant()
	t.PropertyID = chi.URLParam(r, "propertyID")

	created, err := h.tenancyService.Add(r.Context(), GetOwnerID(r.Context()), t)
	if err != nil {
		respondTenantError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// ListPropertyTenants lists the tenants of one property
// @Summary List property tenants
// @Tags Tenants
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Success 200 {array} tenancy.Tenant
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID}/tenants [get]
func (h *Handler) ListPropertyTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenancyService.ListByProperty(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "propertyID"))
	if err != nil {
		respondTenantError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"tenants": tenants})
}

// ListTenants lists all tenants across the owner's properties
// @Summary List tenants
// @Tags Tenants
// @Produce json
// @Security CookieAuth
// @Success 200 {array} tenancy.Tenant
// @Router /tenants [get]
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenancyService.ListByOwner(r.Context(), GetOwnerID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list tenants")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"tenants": tenants})
}

// GetTenant retrieves one of the owner's tenants
// @Summary Get tenant
// @Tags Tenants
// @Produce json
// @Security CookieAuth
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} tenancy.Tenant
// @Failure 404 {object} map[string]string
// @Router /tenants/{tenantID} [get]
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenancyService.Get(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "tenantID"))
	if err != nil {
		respondTenantError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, t)
}

// UpdateTenant updates one of the owner's tenants
// @Summary Update tenant
// @Tags Tenants
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param tenantID path string true "Tenant ID"
// @Param request body TenantRequest true "Tenant Data"
// @Success 200 {object} tenancy.Tenant
// @Failure 404 {object} map[string]string
// @Router /tenants/{tenantID} [put]
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var req TenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	t := req.toTenant()
	t.ID = chi.URLParam(r, "tenantID")

	updated, err := h.tenancyService.Update(r.Context(), GetOwnerID(r.Context()), t)
	if err != nil {
		respondTenantError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// EndLease deactivates a tenant and stamps the lease end
// @Summary End lease
// @Tags Tenants
// @Produce json
// @Security CookieAuth
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tenants/{tenantID}/end-lease [post]
func (h *Handler) EndLease(w http.ResponseWriter, r *http.Request) {
	err := h.tenancyService.EndLease(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "tenantID"))
	if err != nil {
		respondTenantError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "lease ended",
	})
}
