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

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rentledger/rentledger/internal/document"
)

// DocumentRepository implements document.Repository
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func scanDocument(row pgx.Row) (*document.Document, error) {
	var d document.Document
	var tenantID sql.NullString
	err := row.Scan(&d.ID, &d.PropertyID, &tenantID, &d.DocType, &d.FileName, &d.FileURL, &d.UploadedAt)
	if err != nil {
		return nil, err
	}
	d.TenantID = tenantID.String
	return &d, nil
}

// Create creates a new document reference
func (r *DocumentRepository) Create(d *document.Document) error {
	ctx := context.Background()

	var tenantID any
	if d.TenantID != "" {
		tenantID = d.TenantID
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO documents (id, property_id, tenant_id, doc_type, file_name, file_url, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.PropertyID, tenantID, d.DocType, d.FileName, d.FileURL, d.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

// GetByID retrieves a document within the owner's scope
func (r *DocumentRepository) GetByID(ownerID, id string) (*document.Document, error) {
	ctx := context.Background()

	d, err := scanDocument(r.db.pool.QueryRow(ctx, `
		SELECT d.id, d.property_id, d.tenant_id, d.doc_type, d.file_name, d.file_url, d.uploaded_at
		FROM documents d
		JOIN properties p ON p.id = d.property_id AND p.deleted_at IS NULL
		WHERE d.id = $1 AND p.owner_id = $2
	`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, document.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return d, nil
}

// ListByProperty retrieves the documents of one property within the owner's scope
func (r *DocumentRepository) ListByProperty(ownerID, propertyID string) ([]*document.Document, error) {
	ctx := context.Background()

	rows, err := r.db.pool.Query(ctx, `
		SELECT d.id, d.property_id, d.tenant_id, d.doc_type, d.file_name, d.file_url, d.uploaded_at
		FROM documents d
		JOIN properties p ON p.id = d.property_id AND p.deleted_at IS NULL
		WHERE d.property_id = $1 AND p.owner_id = $2
		ORDER BY d.uploaded_at DESC
	`, propertyID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var documents []*document.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, d)
	}

	return documents, rows.Err()
}

// Delete removes a document within the owner's scope
func (r *DocumentRepository) Delete(ownerID, id string) error {
	ctx := context.Background()

	tag, err := r.db.pool.Exec(ctx, `
		DELETE FROM documents d
		USING properties p
		WHERE d.id = $1 AND d.property_id = p.id AND p.owner_id = $2 AND p.deleted_at IS NULL
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}

	return nil
}
