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

	"github.com/rentledger/rentledger/internal/property"
)

// PropertyRequest represents property create/update data
type PropertyRequest struct {
	Name             string  `json:"name" validate:"required"`
	Address          string  `json:"address"`
	PropertyType     string  `json:"property_type" validate:"required,oneof=apartment house commercial"`
	Bedrooms         int     `json:"bedrooms" validate:"gte=0"`
	Bathrooms        int     `json:"bathrooms" validate:"gte=0"`
	AreaSqft         float64 `json:"area_sqft" validate:"gte=0"`
	MonthlyRentCents int64   `json:"monthly_rent_cents" validate:"gte=0"`
}

func (req *PropertyRequest) toProperty() *property.Property {
	return &property.Property{
		Name:             req.Name,
		Address:          req.Address,
		PropertyType:     req.PropertyType,
		Bedrooms:         req.Bedrooms,
		Bathrooms:        req.Bathrooms,
		AreaSqft:         req.AreaSqft,
		MonthlyRentCents: req.MonthlyRentCents,
	}
}

// CreateProperty creates a property in the owner's portfolio
// @Summary Create property
// @Tags Properties
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body PropertyRequest true "Property Data"
// @Success 201 {object} property.Property
// @Failure 400 {object} map[string]string
// @Router /properties [post]
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	p, err := h.propertyService.Create(r.Context(), GetOwnerID(r.Context()), req.toProperty())
	if err != nil {
		if errors.Is(err, property.ErrInvalidProperty) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create property")
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// ListProperties lists the owner's properties
// @Summary List properties
// @Tags Properties
// @Produce json
// @Security CookieAuth
// @Success 200 {array} property.Property
// @Router /properties [get]
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.propertyService.List(r.Context(), GetOwnerID(r.Context()))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list properties")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"properties": properties})
}

// GetProperty retrieves one of the owner's properties
// @Summary Get property
// @Tags Properties
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Success 200 {object} property.Property
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID} [get]
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.propertyService.Get(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "propertyID"))
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to get property")
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// UpdateProperty updates one of the owner's properties
// @Summary Update property
// @Tags Properties
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Param request body PropertyRequest true "Property Data"
// @Success 200 {object} property.Property
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID} [put]
func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	var req PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	p := req.toProperty()
	p.ID = chi.URLParam(r, "propertyID")

	updated, err := h.propertyService.Update(r.Context(), GetOwnerID(r.Context()), p)
	if err != nil {
		switch {
		case errors.Is(err, property.ErrPropertyNotFound):
			respondError(w, http.StatusNotFound, "property not found")
		case errors.Is(err, property.ErrInvalidProperty):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to update property")
		}
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeleteProperty soft-deletes one of the owner's properties
// @Summary Delete property
// @Tags Properties
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID} [delete]
func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	err := h.propertyService.Delete(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "propertyID"))
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete property")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "property deleted",
	})
}
