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

	"github.com/rentledger/rentledger/internal/document"
	"github.com/rentledger/rentledger/internal/property"
)

// DocumentRequest represents document attachment data
type DocumentRequest struct {
	TenantID string `json:"tenant_id"`
	DocType  string `json:"doc_type" validate:"required,oneof=lease insurance inspection receipt"`
	FileName string `json:"file_name" validate:"required"`
	FileURL  string `json:"file_url" validate:"required,url"`
}

// AddDocument attaches a document to one of the owner's properties
// @Summary Add document
// @Tags Documents
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Param request body DocumentRequest true "Document Data"
// @Success 201 {object} document.Document
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID}/documents [post]
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	created, err := h.documentService.Add(r.Context(), GetOwnerID(r.Context()), &document.Document{
		PropertyID: chi.URLParam(r, "propertyID"),
		TenantID:   req.TenantID,
		DocType:    req.DocType,
		FileName:   req.FileName,
		FileURL:    req.FileURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, property.ErrPropertyNotFound):
			respondError(w, http.StatusNotFound, "property not found")
		case errors.Is(err, document.ErrInvalidDocument):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to add document")
		}
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// ListDocuments lists the documents attached to one property
// @Summary List documents
// @Tags Documents
// @Produce json
// @Security CookieAuth
// @Param propertyID path string true "Property ID"
// @Success 200 {array} document.Document
// @Failure 404 {object} map[string]string
// @Router /properties/{propertyID}/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	documents, err := h.documentService.ListByProperty(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "propertyID"))
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"documents": documents})
}

// DeleteDocument removes a document reference
// @Summary Delete document
// @Tags Documents
// @Produce json
// @Security CookieAuth
// @Param documentID path string true "Document ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /documents/{documentID} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := h.documentService.Delete(r.Context(), GetOwnerID(r.Context()), chi.URLParam(r, "documentID"))
	if err != nil {
		if errors.Is(err, document.ErrDocumentNotFound) {
			respondError(w, http.StatusNotFound, "document not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "document deleted",
	})
}
