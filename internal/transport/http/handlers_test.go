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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/observability/metrics"
	"github.com/rentledger/rentledger/internal/owner"
	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/session"
	"github.com/rentledger/rentledger/internal/tenancy"
)

// ----- in-memory repositories -----

type memOwnerRepo struct {
	mu     sync.Mutex
	owners map[string]*owner.Owner
	creds  map[string]*owner.Credentials
}

func newMemOwnerRepo() *memOwnerRepo {
	return &memOwnerRepo{owners: make(map[string]*owner.Owner), creds: make(map[string]*owner.Credentials)}
}

func (m *memOwnerRepo) Create(o *owner.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[o.ID] = o
	return nil
}

func (m *memOwnerRepo) AddCredentials(c *owner.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds[c.OwnerID] = c
	return nil
}

func (m *memOwnerRepo) GetByID(id string) (*owner.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.owners[id]; ok && o.DeletedAt == nil {
		return o, nil
	}
	return nil, owner.ErrOwnerNotFound
}

func (m *memOwnerRepo) GetByEmail(email string) (*owner.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.owners {
		if o.Email == email && o.DeletedAt == nil {
			return o, nil
		}
	}
	return nil, owner.ErrOwnerNotFound
}

func (m *memOwnerRepo) GetByUsername(username string) (*owner.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.owners {
		if o.Username == username && o.DeletedAt == nil {
			return o, nil
		}
	}
	return nil, owner.ErrOwnerNotFound
}

func (m *memOwnerRepo) Update(o *owner.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[o.ID] = o
	return nil
}

func (m *memOwnerRepo) UpdateLockout(ownerID string, failedAttempts int, lockedUntil *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.owners[ownerID]; ok {
		o.FailedLoginAttempts = failedAttempts
		o.LockedUntil = lockedUntil
	}
	return nil
}

func (m *memOwnerRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if o, ok := m.owners[id]; ok {
		o.DeletedAt = &now
	}
	return nil
}

func (m *memOwnerRepo) GetCredentials(ownerID string) (*owner.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.creds[ownerID]; ok {
		return c, nil
	}
	return nil, owner.ErrOwnerNotFound
}

func (m *memOwnerRepo) UpdatePassword(ownerID string, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.creds[ownerID]; ok {
		c.PasswordHash = passwordHash
	}
	return nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*session.Session)}
}

func (m *memSessionRepo) Create(s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessionRepo) Get(sessionID string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s, nil
	}
	return nil, session.ErrSessionNotFound
}

func (m *memSessionRepo) Update(s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessionRepo) Delete(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *memSessionRepo) DeleteByOwnerID(ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.OwnerID == ownerID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memSessionRepo) DeleteExpired() error { return nil }

type memPropertyRepo struct {
	mu         sync.Mutex
	properties map[string]*property.Property
}

func newMemPropertyRepo() *memPropertyRepo {
	return &memPropertyRepo{properties: make(map[string]*property.Property)}
}

func (m *memPropertyRepo) Create(p *property.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.properties[p.ID] = p
	return nil
}

func (m *memPropertyRepo) GetByID(ownerID, id string) (*property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.properties[id]; ok && p.OwnerID == ownerID && p.DeletedAt == nil {
		return p, nil
	}
	return nil, property.ErrPropertyNotFound
}

func (m *memPropertyRepo) ListByOwner(ownerID string) ([]*property.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*property.Property
	for _, p := range m.properties {
		if p.OwnerID == ownerID && p.DeletedAt == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPropertyRepo) Update(p *property.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.properties[p.ID]
	if !ok || stored.OwnerID != p.OwnerID || stored.DeletedAt != nil {
		return property.ErrPropertyNotFound
	}
	m.properties[p.ID] = p
	return nil
}

func (m *memPropertyRepo) Delete(ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[id]
	if !ok || p.OwnerID != ownerID || p.DeletedAt != nil {
		return property.ErrPropertyNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

func (m *memPropertyRepo) CountByOwner(ownerID string) (int, error) {
	ps, _ := m.ListByOwner(ownerID)
	return len(ps), nil
}

func (m *memPropertyRepo) MonthlyRentTotal(ownerID string) (int64, error) {
	ps, _ := m.ListByOwner(ownerID)
	var total int64
	for _, p := range ps {
		total += p.MonthlyRentCents
	}
	return total, nil
}

// ----- harness -----

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	auditLogger := audit.NewSlogLogger()
	hasher := owner.NewPasswordHasher(64*1024, 1, 1, 16, 32)
	meter, err := metrics.New(context.Background(), metrics.Config{Enabled: false}, "test")
	require.NoError(t, err)

	propertyRepo := newMemPropertyRepo()

	ownerService := owner.NewService(newMemOwnerRepo(), hasher, auditLogger, 3, 15*time.Minute)
	sessionService := session.NewService(newMemSessionRepo(), time.Hour, 30*time.Minute)
	propertyService := property.NewService(propertyRepo, auditLogger)
	tenancyService := tenancy.NewService(newMemTenantRepo(propertyRepo), propertyRepo, auditLogger)

	h := NewHandler(
		ownerService, sessionService, propertyService, tenancyService,
		nil, nil, nil, nil,
		auditLogger, meter,
		SessionConfig{
			CookieName:     "session_id",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
			CookieMaxAge:   86400,
		},
	)

	return NewRouter(h, NewRateLimiter(1000, 1000))
}

type memTenantRepo struct {
	mu         sync.Mutex
	tenants    map[string]*tenancy.Tenant
	properties *memPropertyRepo
}

func newMemTenantRepo(properties *memPropertyRepo) *memTenantRepo {
	return &memTenantRepo{tenants: make(map[string]*tenancy.Tenant), properties: properties}
}

func (m *memTenantRepo) owns(ownerID, propertyID string) bool {
	_, err := m.properties.GetByID(ownerID, propertyID)
	return err == nil
}

func (m *memTenantRepo) Create(t *tenancy.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[t.ID] = t
	return nil
}

func (m *memTenantRepo) GetByID(ownerID, id string) (*tenancy.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tenants[id]; ok && m.owns(ownerID, t.PropertyID) {
		return t, nil
	}
	return nil, tenancy.ErrTenantNotFound
}

func (m *memTenantRepo) ListByOwner(ownerID string) ([]*tenancy.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*tenancy.Tenant
	for _, t := range m.tenants {
		if m.owns(ownerID, t.PropertyID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTenantRepo) ListByProperty(ownerID, propertyID string) ([]*tenancy.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*tenancy.Tenant
	for _, t := range m.tenants {
		if t.PropertyID == propertyID && m.owns(ownerID, propertyID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTenantRepo) Update(ownerID string, t *tenancy.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tenants[t.ID]
	if !ok || !m.owns(ownerID, stored.PropertyID) {
		return tenancy.ErrTenantNotFound
	}
	m.tenants[t.ID] = t
	return nil
}

func (m *memTenantRepo) CountActiveByOwner(ownerID string) (int, error) {
	ts, _ := m.ListByOwner(ownerID)
	n := 0
	for _, t := range ts {
		if t.Active {
			n++
		}
	}
	return n, nil
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router http.Handler, username, email string) []*http.Cookie {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username: username, Email: email, Password: "correct-horse-9",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email: email, Password: "correct-horse-9",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "login should set a session cookie")
	return cookies
}

// ----- tests -----

// TestPurpose: Validates input handling on the registration endpoint.
// Scope: Unit Test
// Security: Input sanitization boundary check
// Expected: Missing email, weak password, and malformed JSON all return 400.
// Test Case ID: API-01
func TestAuth_Register_Validation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username: "landlord", Email: "", Password: "validPassword123",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty email should return 400")

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username: "landlord", Email: "a@example.com", Password: "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "weak password should return 400")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(`{invalid_json}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed JSON should return 400")
}

// TestPurpose: Validates duplicate registration and bad-credential login behavior.
// Scope: Unit Test
// Expected: Re-registering an email returns 409; a wrong password returns 401.
// Test Case ID: API-02
func TestAuth_DuplicateAndBadLogin(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router, "landlord", "dup@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", RegisterRequest{
		Username: "landlord2", Email: "dup@example.com", Password: "validPassword123",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code, "duplicate email should return 409")

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email: "dup@example.com", Password: "wrong-password-1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "bad password should return 401")
}

// TestPurpose: Validates the session-cookie flow end to end: login, authenticated read, logout, rejected read.
// Scope: Unit Test
// Security: Session lifecycle
// Expected: /auth/me works with the cookie, 401 without it and after logout.
// Test Case ID: API-03
func TestAuth_SessionFlow(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "no cookie should return 401")

	cookies := registerAndLogin(t, router, "landlord", "flow@example.com")

	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "flow@example.com")

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil, cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "destroyed session should return 401")
}

// TestPurpose: Validates that an authenticated request carrying an X-Owner-ID header is rejected.
// Scope: Unit Test
// Security: Owner context is derived exclusively from the session.
// Expected: Returns 400 when the spoofing header is present.
// Test Case ID: API-04
func TestAuth_OwnerHeaderSpoofing_Rejected(t *testing.T) {
	router := newTestRouter(t)
	cookies := registerAndLogin(t, router, "landlord", "spoof@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("X-Owner-ID", "someone-else")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, "owner header spoofing should be rejected")
}

// TestPurpose: Validates property CRUD over HTTP and cross-owner invisibility.
// Scope: Unit Test
// Security: Per-owner Data Separation (CWE-284)
// Expected: Owner B receives 404 for owner A's property on read, update, and delete.
// Test Case ID: API-05
func TestProperties_OwnerIsolation(t *testing.T) {
	router := newTestRouter(t)
	cookiesA := registerAndLogin(t, router, "owner-a", "a@example.com")
	cookiesB := registerAndLogin(t, router, "owner-b", "b@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/properties", PropertyRequest{
		Name: "Elm Street Duplex", PropertyType: "house", MonthlyRentCents: 150000,
	}, cookiesA)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = doJSON(t, router, http.MethodGet, "/api/v1/properties/"+created.ID, nil, cookiesA)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/properties/"+created.ID, nil, cookiesB)
	assert.Equal(t, http.StatusNotFound, w.Code, "cross-owner read should be 404")

	w = doJSON(t, router, http.MethodPut, "/api/v1/properties/"+created.ID, PropertyRequest{
		Name: "Stolen", PropertyType: "house",
	}, cookiesB)
	assert.Equal(t, http.StatusNotFound, w.Code, "cross-owner update should be 404")

	w = doJSON(t, router, http.MethodDelete, "/api/v1/properties/"+created.ID, nil, cookiesB)
	assert.Equal(t, http.StatusNotFound, w.Code, "cross-owner delete should be 404")

	// Owner A still sees it untouched.
	w = doJSON(t, router, http.MethodGet, "/api/v1/properties/"+created.ID, nil, cookiesA)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Elm Street Duplex")
}

// TestPurpose: Validates tenant creation under a property and lease ending over HTTP.
// Scope: Unit Test
// Expected: A tenant is created under the owner's property; ending the lease deactivates them; a foreign owner gets 404.
// Test Case ID: API-06
func TestTenants_Lifecycle(t *testing.T) {
	router := newTestRouter(t)
	cookiesA := registerAndLogin(t, router, "owner-a", "ta@example.com")
	cookiesB := registerAndLogin(t, router, "owner-b", "tb@example.com")

	w := doJSON(t, router, http.MethodPost, "/api/v1/properties", PropertyRequest{
		Name: "Oak Flat", PropertyType: "apartment",
	}, cookiesA)
	require.Equal(t, http.StatusCreated, w.Code)
	var prop struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prop))

	w = doJSON(t, router, http.MethodPost, "/api/v1/properties/"+prop.ID+"/tenants", TenantRequest{
		Name: "Dana", Phone: "+15550001111",
	}, cookiesA)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ten struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ten))

	// Owner B cannot attach a tenant to owner A's property.
	w = doJSON(t, router, http.MethodPost, "/api/v1/properties/"+prop.ID+"/tenants", TenantRequest{
		Name: "Mallory", Phone: "+15550002222",
	}, cookiesB)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/tenants/"+ten.ID+"/end-lease", nil, cookiesA)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/tenants/"+ten.ID, nil, cookiesA)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":false`)
}
