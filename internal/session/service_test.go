package session

import (
	"context"
	"testing"
	"time"
)

type memoryRepo struct {
	sessions map[string]*Session
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: make(map[string]*Session)}
}

func (m *memoryRepo) Create(s *Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryRepo) Get(sessionID string) (*Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *memoryRepo) Update(s *Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryRepo) Delete(sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

func (m *memoryRepo) DeleteByOwnerID(ownerID string) error {
	for id, s := range m.sessions {
		if s.OwnerID == ownerID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memoryRepo) DeleteExpired() error {
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

// TestPurpose: Validates session creation and retrieval, and that session IDs are opaque and unique.
// Scope: Unit Test
// Expected: A created session is retrievable and carries distinct, non-empty IDs.
// Test Case ID: SES-01
func TestSession_Service_CreateAndGet(t *testing.T) {
	repo := newMemoryRepo()
	s := NewService(repo, 24*time.Hour, 30*time.Minute)
	ctx := context.Background()

	a, err := s.Create(ctx, "owner-1", "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	b, err := s.Create(ctx, "owner-1", "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("session IDs must be unique and non-empty, got %q and %q", a.ID, b.ID)
	}

	got, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.OwnerID != "owner-1" {
		t.Errorf("expected owner-1, got %s", got.OwnerID)
	}
}

// TestPurpose: Validates that expired and idle sessions are rejected and destroyed on access.
// Scope: Unit Test
// Security: Session fixation/replay resistance
// Expected: ErrSessionExpired on access, and the record is gone afterwards.
// Test Case ID: SES-02
func TestSession_Service_ExpiryAndIdle(t *testing.T) {
	repo := newMemoryRepo()
	s := NewService(repo, 24*time.Hour, 30*time.Minute)
	ctx := context.Background()

	expired := &Session{
		ID:         "expired-session",
		OwnerID:    "owner-1",
		ExpiresAt:  time.Now().Add(-time.Minute),
		CreatedAt:  time.Now().Add(-25 * time.Hour),
		LastSeenAt: time.Now().Add(-time.Minute),
	}
	repo.Create(expired)

	if _, err := s.Get(ctx, expired.ID); err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := repo.Get(expired.ID); err != ErrSessionNotFound {
		t.Error("expired session should have been destroyed on access")
	}

	idle := &Session{
		ID:         "idle-session",
		OwnerID:    "owner-1",
		ExpiresAt:  time.Now().Add(time.Hour),
		CreatedAt:  time.Now().Add(-2 * time.Hour),
		LastSeenAt: time.Now().Add(-time.Hour),
	}
	repo.Create(idle)

	if _, err := s.Get(ctx, idle.ID); err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired for idle session, got %v", err)
	}
}

// TestPurpose: Validates that destroying all sessions for an owner leaves other owners' sessions intact.
// Scope: Unit Test
// Expected: owner-1 sessions gone, owner-2 session remains.
// Test Case ID: SES-03
func TestSession_Service_DestroyAll(t *testing.T) {
	repo := newMemoryRepo()
	s := NewService(repo, 24*time.Hour, 30*time.Minute)
	ctx := context.Background()

	a, _ := s.Create(ctx, "owner-1", "", "")
	b, _ := s.Create(ctx, "owner-1", "", "")
	c, _ := s.Create(ctx, "owner-2", "", "")

	if err := s.DestroyAll(ctx, "owner-1"); err != nil {
		t.Fatalf("destroy all failed: %v", err)
	}

	if _, err := s.Get(ctx, a.ID); err == nil {
		t.Error("owner-1 session should be gone")
	}
	if _, err := s.Get(ctx, b.ID); err == nil {
		t.Error("owner-1 session should be gone")
	}
	if _, err := s.Get(ctx, c.ID); err != nil {
		t.Errorf("owner-2 session should survive, got %v", err)
	}
}
