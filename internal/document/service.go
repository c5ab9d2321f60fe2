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

package document

import (
	"context"
	"fmt"
	"time"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/id"
	"github.com/rentledger/rentledger/internal/property"
)

// Service provides document operations.
type Service struct {
	repo        Repository
	properties  property.Repository
	auditLogger audit.Logger
}

// NewService creates a new document service.
func NewService(repo Repository, properties property.Repository, auditLogger audit.Logger) *Service {
	return &Service{
		repo:        repo,
		properties:  properties,
		auditLogger: auditLogger,
	}
}

// Add attaches a document to one of the owner's properties.
func (s *Service) Add(ctx context.Context, ownerID string, d *Document) (*Document, error) {
	if d.FileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidDocument)
	}
	if d.FileURL == "" {
		return nil, fmt.Errorf("%w: file URL is required", ErrInvalidDocument)
	}
	if !ValidType(d.DocType) {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrInvalidDocument, d.DocType)
	}

	if _, err := s.properties.GetByID(ownerID, d.PropertyID); err != nil {
		return nil, err
	}

	d.ID = id.NewUUIDv7()
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now()
	}

	if err := s.repo.Create(d); err != nil {
		return nil, fmt.Errorf("failed to add document: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeDocumentAdded,
		OwnerID:  ownerID,
		ActorID:  ownerID,
		Resource: "document",
		Metadata: map[string]any{
			"document_id": d.ID,
			"property_id": d.PropertyID,
			"doc_type":    d.DocType,
		},
	})

	return d, nil
}

// Get retrieves one of the owner's documents.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Document, error) {
	return s.repo.GetByID(ownerID, id)
}

// ListByProperty retrieves the documents attached to one property.
func (s *Service) ListByProperty(ctx context.Context, ownerID, propertyID string) ([]*Document, error) {
	if _, err := s.properties.GetByID(ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.repo.ListByProperty(ownerID, propertyID)
}

// Delete removes a document reference. The underlying file in external
// storage is not touched.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.repo.GetByID(ownerID, id); err != nil {
		return err
	}
	return s.repo.Delete(ownerID, id)
}
