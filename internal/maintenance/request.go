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

// Package maintenance tracks repair requests raised against a property,
// from the initial report through to resolution.
package maintenance

import (
	"errors"
	"time"
)

var (
	// ErrRequestNotFound is returned when a maintenance request does not
	// exist or belongs to another owner.
	ErrRequestNotFound = errors.New("maintenance request not found")

	// ErrInvalidRequest is returned when request data fails validation.
	ErrInvalidRequest = errors.New("invalid maintenance request")

	// ErrInvalidTransition is returned when a status change is not
	// allowed from the request's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Issue types.
const (
	IssuePlumbing   = "plumbing"
	IssueElectrical = "electrical"
	IssueHVAC       = "hvac"
	IssueOther      = "other"
)

// Priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Statuses. A request starts open and moves forward only; completed is
// terminal.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidIssueType reports whether t is a known issue type.
func ValidIssueType(t string) bool {
	switch t {
	case IssuePlumbing, IssueElectrical, IssueHVAC, IssueOther:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ValidTransition reports whether a request may move from one status to
// another.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusOpen:
		return to == StatusInProgress || to == StatusCompleted
	case StatusInProgress:
		return to == StatusCompleted
	}
	return false
}

// Request is a repair request for a property.
type Request struct {
	ID          string     `json:"id"`
	PropertyID  string     `json:"property_id"`
	TenantID    string     `json:"tenant_id,omitempty"`
	IssueType   string     `json:"issue_type"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	CostCents   int64      `json:"cost_cents"`
	ReportedAt  time.Time  `json:"reported_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Resolved reports whether the request has reached its terminal status.
func (r *Request) Resolved() bool {
	return r.Status == StatusCompleted
}

// Repository defines the interface for maintenance request persistence.
// Every read and write is scoped to the owner of the parent property.
type Repository interface {
	Create(r *Request) error
	GetByID(ownerID, id string) (*Request, error)
	ListByOwner(ownerID string) ([]*Request, error)
	ListByProperty(ownerID, propertyID string) ([]*Request, error)
	Update(ownerID string, r *Request) error
	CountPending(ownerID string) (int, error)
}
