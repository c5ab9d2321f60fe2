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

// Package document keeps references to the paperwork attached to a
// property: leases, insurance certificates, inspection reports and
// receipts. The files themselves live in external storage; only the
// metadata and URL are recorded here.
package document

import (
	"errors"
	"time"
)

var (
	// ErrDocumentNotFound is returned when a document does not exist or
	// belongs to another owner.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidDocument is returned when document data fails validation.
	ErrInvalidDocument = errors.New("invalid document")
)

// Document types.
const (
	TypeLease      = "lease"
	TypeInsurance  = "insurance"
	TypeInspection = "inspection"
	TypeReceipt    = "receipt"
)

// ValidType reports whether t is a known document type.
func ValidType(t string) bool {
	switch t {
	case TypeLease, TypeInsurance, TypeInspection, TypeReceipt:
		return true
	}
	return false
}

// Document is a piece of paperwork attached to a property.
type Document struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	TenantID   string    `json:"tenant_id,omitempty"`
	DocType    string    `json:"doc_type"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Repository defines the interface for document persistence. All reads
// and writes are scoped to the owner of the parent property.
type Repository interface {
	Create(d *Document) error
	GetByID(ownerID, id string) (*Document, error)
	ListByProperty(ownerID, propertyID string) ([]*Document, error)
	Delete(ownerID, id string) error
}
