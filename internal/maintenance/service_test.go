package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/tenancy"
)

type memoryRepo struct {
	requests map[string]*Request
	ownerOf  map[string]string // property id -> owner id
}

func (m *memoryRepo) owns(ownerID string, r *Request) bool {
	return m.ownerOf[r.PropertyID] == ownerID
}

func (m *memoryRepo) Create(r *Request) error {
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *memoryRepo) GetByID(ownerID, id string) (*Request, error) {
	r, ok := m.requests[id]
	if !ok || !m.owns(ownerID, r) {
		return nil, ErrRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memoryRepo) ListByOwner(ownerID string) ([]*Request, error) {
	var out []*Request
	for _, r := range m.requests {
		if m.owns(ownerID, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListByProperty(ownerID, propertyID string) ([]*Request, error) {
	var out []*Request
	for _, r := range m.requests {
		if r.PropertyID == propertyID && m.owns(ownerID, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(ownerID string, r *Request) error {
	stored, ok := m.requests[r.ID]
	if !ok || !m.owns(ownerID, stored) {
		return ErrRequestNotFound
	}
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *memoryRepo) CountPending(ownerID string) (int, error) {
	n := 0
	for _, r := range m.requests {
		if !r.Resolved() && m.owns(ownerID, r) {
			n++
		}
	}
	return n, nil
}

type stubPropertyRepo struct{ ownerOf map[string]string }

func (s stubPropertyRepo) Create(p *property.Property) error { return nil }
func (s stubPropertyRepo) GetByID(ownerID, id string) (*property.Property, error) {
	if s.ownerOf[id] != ownerID {
		return nil, property.ErrPropertyNotFound
	}
	return &property.Property{ID: id, OwnerID: ownerID}, nil
}
func (s stubPropertyRepo) ListByOwner(ownerID string) ([]*property.Property, error) { return nil, nil }
func (s stubPropertyRepo) Update(p *property.Property) error                        { return nil }
func (s stubPropertyRepo) Delete(ownerID, id string) error                          { return nil }
func (s stubPropertyRepo) CountByOwner(ownerID string) (int, error)                 { return 0, nil }
func (s stubPropertyRepo) MonthlyRentTotal(ownerID string) (int64, error)           { return 0, nil }

type stubTenantRepo struct {
	propertyOf map[string]string // tenant id -> property id
	ownerOf    map[string]string // property id -> owner id
}

func (s stubTenantRepo) Create(t *tenancy.Tenant) error { return nil }
func (s stubTenantRepo) GetByID(ownerID, id string) (*tenancy.Tenant, error) {
	propID, ok := s.propertyOf[id]
	if !ok || s.ownerOf[propID] != ownerID {
		return nil, tenancy.ErrTenantNotFound
	}
	return &tenancy.Tenant{ID: id, PropertyID: propID}, nil
}
func (s stubTenantRepo) ListByOwner(ownerID string) ([]*tenancy.Tenant, error) { return nil, nil }
func (s stubTenantRepo) ListByProperty(ownerID, propertyID string) ([]*tenancy.Tenant, error) {
	return nil, nil
}
func (s stubTenantRepo) Update(ownerID string, t *tenancy.Tenant) error { return nil }
func (s stubTenantRepo) CountActiveByOwner(ownerID string) (int, error) { return 0, nil }

func newTestService() (*Service, *memoryRepo) {
	ownerOf := map[string]string{"prop-1": "owner-1", "prop-2": "owner-1", "prop-x": "owner-2"}
	repo := &memoryRepo{requests: make(map[string]*Request), ownerOf: ownerOf}
	svc := NewService(
		repo,
		stubPropertyRepo{ownerOf: ownerOf},
		stubTenantRepo{propertyOf: map[string]string{"ten-1": "prop-1", "ten-2": "prop-2"}, ownerOf: ownerOf},
		audit.NewSlogLogger(),
	)
	return svc, repo
}

// TestPurpose: Validates opening maintenance requests with field validation and owner scoping.
// Scope: Unit Test
// Security: An owner cannot file a request against someone else's property.
// Expected: Valid requests open with status open and a default priority; bad input and foreign properties are rejected.
// Test Case ID: MNT-01
func TestMaintenance_Service_Open(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	r, err := svc.Open(ctx, "owner-1", &Request{
		PropertyID:  "prop-1",
		TenantID:    "ten-1",
		IssueType:   IssuePlumbing,
		Description: "Kitchen sink leaking",
	})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if r.Status != StatusOpen {
		t.Errorf("expected status open, got %q", r.Status)
	}
	if r.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %q", r.Priority)
	}
	if r.ReportedAt.IsZero() {
		t.Error("reported time should be stamped")
	}

	cases := []struct {
		name string
		req  *Request
	}{
		{"missing description", &Request{PropertyID: "prop-1", IssueType: IssueOther}},
		{"bad issue type", &Request{PropertyID: "prop-1", IssueType: "roof", Description: "x"}},
		{"bad priority", &Request{PropertyID: "prop-1", IssueType: IssueOther, Priority: "now", Description: "x"}},
		{"foreign property", &Request{PropertyID: "prop-x", IssueType: IssueOther, Description: "x"}},
		{"tenant on other property", &Request{PropertyID: "prop-1", TenantID: "ten-2", IssueType: IssueOther, Description: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Open(ctx, "owner-1", tc.req); err == nil {
				t.Errorf("expected rejection")
			}
		})
	}

	if len(repo.requests) != 1 {
		t.Errorf("only the valid request should be stored, found %d", len(repo.requests))
	}
}

// TestPurpose: Validates the request lifecycle: forward-only transitions with a terminal completed status.
// Scope: Unit Test
// Expected: open -> in_progress -> completed succeeds and stamps the resolution time; backward moves and moves out of completed fail.
// Test Case ID: MNT-02
func TestMaintenance_Service_UpdateStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	r, err := svc.Open(ctx, "owner-1", &Request{PropertyID: "prop-1", IssueType: IssueElectrical, Description: "Breaker trips"})
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	r, err = svc.UpdateStatus(ctx, "owner-1", r.ID, StatusInProgress, 0)
	if err != nil {
		t.Fatalf("move to in_progress failed: %v", err)
	}
	if r.ResolvedAt != nil {
		t.Error("resolution time should not be set before completion")
	}

	if _, err := svc.UpdateStatus(ctx, "owner-1", r.ID, StatusOpen, 0); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("backward move should fail with ErrInvalidTransition, got %v", err)
	}

	r, err = svc.UpdateStatus(ctx, "owner-1", r.ID, StatusCompleted, 8500)
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if r.ResolvedAt == nil {
		t.Error("completion should stamp the resolution time")
	}
	if r.CostCents != 8500 {
		t.Errorf("expected cost 8500, got %d", r.CostCents)
	}

	if _, err := svc.UpdateStatus(ctx, "owner-1", r.ID, StatusInProgress, 0); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("completed is terminal, got %v", err)
	}
}

// TestPurpose: Validates owner isolation on reads and updates, and the pending count.
// Scope: Unit Test
// Security: Requests are invisible across owners; the pending count excludes completed requests.
// Test Case ID: MNT-03
func TestMaintenance_Service_Isolation(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, _ := svc.Open(ctx, "owner-1", &Request{PropertyID: "prop-1", IssueType: IssueHVAC, Description: "No heat"})
	second, _ := svc.Open(ctx, "owner-1", &Request{PropertyID: "prop-2", IssueType: IssueOther, Description: "Broken gate"})

	if _, err := svc.Get(ctx, "owner-2", first.ID); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("foreign owner read should fail closed, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "owner-2", first.ID, StatusInProgress, 0); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("foreign owner update should fail closed, got %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, "owner-1", second.ID, StatusCompleted, 0); err != nil {
		t.Fatalf("completion failed: %v", err)
	}

	pending, err := repo.CountPending("owner-1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if pending != 1 {
		t.Errorf("expected 1 pending request, got %d", pending)
	}
}
