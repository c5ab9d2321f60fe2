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

	"github.com/go-chi/chi/v5"

	"github.com/rentledger/rentledger/internal/maintenance"
	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/tenancy"
)

// MaintenanceRequestBody represents maintenance request creation data
type MaintenanceRequestBody struct {
	PropertyID  string `json:"property_id" validate:"required"`
	TenantID    string `json:"tenant_id"`
	IssueType   string `json:"issue_type" validate:"required,oneof=plumbing electrical hvac other"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Description string `json:"description" validate:"required"`
}

func respondMaintenanceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, maintenance.ErrRequestNotFound):
		respondError(w, http.StatusNotFound, "maintenance request not found")
	case errors.Is(err, property.ErrPropertyNotFound):
		respondError(w, http.StatusNotFound, "property not found")
	case errors.Is(err, tenancy.ErrTenantNotFound):
		respondError(w, http.StatusNotFound, "tenant not found")
	case errors.Is(err, maintenance.ErrInvalidTransition):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, maintenance.ErrInvalidRequest):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "maintenance operation failed")
	}
}

// OpenMaintenanceRequest files a maintenance request
// @Summary Open maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body MaintenanceRequestBody true "Request Data"
// @Success 201 {object} maintenance.Request
// @Failure 404 {object} map[string]string
// @Router /maintenance [post]
func (h *Handler) OpenMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	var req MaintenanceRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	created, err := h.maintenanceService.Open(r.Context(), GetOwnerID(r.Context()), &maintenance.Request{
		PropertyID:  req.PropertyID,
		TenantID:    req.TenantID,
		IssueType:   req.IssueType,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		respondMaintenanceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// ListMaintenanceRequests lists the owner's requests, optionally
// filtered by ?status=
// @Summary List maintenance requests
// @Tags Maintenance
// @Produce json
// @Security CookieAuth
// @Param status query string false "Status filter"
// @Success 200 {object} map[string]any
// @Router /maintenance [get]
func (h *Handler) ListMaintenanceRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.maintenanceService.ListByOwner(r.Context(), GetOwnerID(r.Context()), r.URL.Query().Get("status"))
	if err != nil {
		respondMaintenanceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

// ListPropertyMaintenance lists the requests filed against one property
// @Summary List property maintenance
// @Tags Maintenance
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Success 200 {array} maintenance.Request
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID}/maintenance [get]
func (h *Handler) ListPropertyMaintenance(w http.ResponseWriter, r *http.Request) {
	requests, err := h.maintenanceService.ListByProperty(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "propertyID"))
	if err != nil {
		respondMaintenanceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

// GetMaintenanceRequest retrieves one of the owner's requests
// @Summary Get maintenance request
// @Tags Maintenance
// @Produce json
// @Security CookieAuth
// @Param requestID path string true "Request ID"
// @Success 200 {object} maintenance.Request
// @Failure 404 {object} map[string]string
// @Router /maintenance/{requestID} [get]
func (h *Handler) GetMaintenanceRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.maintenanceService.Get(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "requestID"))
	if err != nil {
		respondMaintenanceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, req)
}

// UpdateStatusRequest represents a status transition
type UpdateStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=open in_progress completed"`
	CostCents int64  `json:"cost_cents" validate:"gte=0"`
}

// UpdateMaintenanceStatus moves a request through its lifecycle
// @Summary Update maintenance status
// @Tags Maintenance
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param requestID path string true "Request ID"
// @Param request body UpdateStatusRequest true "Status Transition"
// @Success 200 {object} maintenance.Request
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /maintenance/{requestID}/status [patch]
func (h *Handler) UpdateMaintenanceStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	updated, err := h.maintenanceService.UpdateStatus(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "requestID"), req.Status, req.CostCents)
	if err != nil {
		respondMaintenanceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
