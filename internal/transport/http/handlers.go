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

// @title RentLedger API
// @version 1.0.0
// @description Rental-property management service
// @termsOfService http://swagger.io/terms/

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name rentledger_session

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rentledger/rentledger/internal/audit"
	"github.com/rentledger/rentledger/internal/document"
	"github.com/rentledger/rentledger/internal/ledger"
	"github.com/rentledger/rentledger/internal/maintenance"
	"github.com/rentledger/rentledger/internal/observability/logger"
	"github.com/rentledger/rentledger/internal/observability/metrics"
	"github.com/rentledger/rentledger/internal/owner"
	"github.com/rentledger/rentledger/internal/property"
	"github.com/rentledger/rentledger/internal/reminder"
	"github.com/rentledger/rentledger/internal/session"
	"github.com/rentledger/rentledger/internal/tenancy"
)

var validate = validator.New()

// Handler holds HTTP handlers and dependencies
type Handler struct {
	ownerService       *owner.Service
	sessionService     *session.Service
	propertyService    *property.Service
	tenancyService     *tenancy.Service
	ledgerService      *ledger.Service
	maintenanceService *maintenance.Service
	documentService    *document.Service
	reminderService    *reminder.Service // nil when reminders are disabled
	auditLogger        audit.Logger
	meter              *metrics.Meter
	sessionConfig      SessionConfig
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
	CookieMaxAge   int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	ownerService *owner.Service,
	sessionService *session.Service,
	propertyService *property.Service,
	tenancyService *tenancy.Service,
	ledgerService *ledger.Service,
	maintenanceService *maintenance.Service,
	documentService *document.Service,
	reminderService *reminder.Service,
	auditLogger audit.Logger,
	meter *metrics.Meter,
	sessionConfig SessionConfig,
) *Handler {
	return &Handler{
		ownerService:       ownerService,
		sessionService:     sessionService,
		propertyService:    propertyService,
		tenancyService:     tenancyService,
		ledgerService:      ledgerService,
		maintenanceService: maintenanceService,
		documentService:    documentService,
		reminderService:    reminderService,
		auditLogger:        auditLogger,
		meter:              meter,
		sessionConfig:      sessionConfig,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/health", h.HealthCheck)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Get("/auth/me", h.GetCurrentOwner)

			r.Get("/owner/profile", h.GetProfile)
			r.Put("/owner/profile", h.UpdateProfile)
			r.Post("/owner/change-password", h.ChangePassword)

			r.Get("/dashboard", h.Dashboard)

			r.Route("/properties", func(r chi.Router) {
				r.Post("/", h.CreateProperty)
				r.Get("/", h.ListProperties)
				r.Route("/{propertyID}", func(r chi.Router) {
					r.Get("/", h.GetProperty)
					r.Put("/", h.UpdateProperty)
					r.Delete("/", h.DeleteProperty)
					r.Post("/tenants", h.AddTenant)
					r.Get("/tenants", h.ListPropertyTenants)
					r.Get("/payments", h.ListPropertyPayments)
					r.Get("/expenses", h.ListPropertyExpenses)
					r.Get("/maintenance", h.ListPropertyMaintenance)
					r.Post("/documents", h.AddDocument)
					r.Get("/documents", h.ListDocuments)
				})
			})

			r.Route("/tenants", func(r chi.Router) {
				r.Get("/", h.ListTenants)
				r.Route("/{tenantID}", func(r chi.Router) {
					r.Get("/", h.GetTenant)
					r.Put("/", h.UpdateTenant)
					r.Post("/end-lease", h.EndLease)
				})
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/", h.RecordPayment)
				r.Get("/", h.ListPayments)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", h.RecordExpense)
				r.Get("/", h.ListExpenses)
			})

			r.Route("/maintenance", func(r chi.Router) {
				r.Post("/", h.OpenMaintenanceRequest)
				r.Get("/", h.ListMaintenanceRequests)
				r.Get("/{requestID}", h.GetMaintenanceRequest)
				r.Patch("/{requestID}/status", h.UpdateMaintenanceStatus)
			})

			r.Delete("/documents/{documentID}", h.DeleteDocument)

			r.Post("/reminders/rent", h.SendRentReminder)
		})
	})

	return r
}

// HealthCheck returns the health status
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "rentledger",
	})
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register handles owner registration
// @Summary Register a new owner
// @Description Create an owner account with login credentials
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration Data"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	o, err := h.ownerService.Register(r.Context(), req.Username, req.Email, req.Phone, req.Password)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to register owner",
			logger.Error(err),
			logger.Email(req.Email),
		)

		switch {
		case errors.Is(err, owner.ErrOwnerAlreadyExists):
			respondError(w, http.StatusConflict, "account already exists")
		case errors.Is(err, owner.ErrInvalidEmail):
			respondError(w, http.StatusBadRequest, "invalid email address")
		case errors.Is(err, owner.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, "password does not meet security requirements")
		default:
			respondError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"owner_id": o.ID,
		"username": o.Username,
		"email":    o.Email,
	})
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles owner login
// @Summary Login
// @Description Authenticate an owner and create a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	o, err := h.ownerService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.meter.RecordLogin(r.Context(), "failure")
		if errors.Is(err, owner.ErrAccountLocked) {
			respondError(w, http.StatusUnauthorized, "account temporarily locked")
			return
		}
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := h.sessionService.Create(r.Context(), o.ID, getIPAddress(r), r.UserAgent())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to create session", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.setSessionCookie(w, sess.ID)
	h.meter.RecordLogin(r.Context(), "success")

	respondJSON(w, http.StatusOK, map[string]any{
		"owner_id": o.ID,
		"username": o.Username,
		"email":    o.Email,
	})
}

// Logout handles owner logout
// @Summary Logout
// @Description Destroy the current session and clear the cookie
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := h.getSessionFromCookie(r)
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	sess, err := h.sessionService.Get(r.Context(), sessionID)
	if err == nil {
		h.auditLogger.Log(r.Context(), audit.Event{
			Type:      audit.TypeLogout,
			OwnerID:   sess.OwnerID,
			ActorID:   sess.OwnerID,
			Resource:  "session",
			IPAddress: getIPAddress(r),
			UserAgent: r.UserAgent(),
			Metadata:  map[string]any{"session_id": sess.ID},
		})
		h.sessionService.Destroy(r.Context(), sessionID)
	}

	h.clearSessionCookie(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// GetCurrentOwner returns the authenticated owner
// @Summary Current owner
// @Description Return the account behind the session
// @Tags Auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *Handler) GetCurrentOwner(w http.ResponseWriter, r *http.Request) {
	ownerID := GetOwnerID(r.Context())

	o, err := h.ownerService.GetOwner(r.Context(), ownerID)
	if err != nil {
		respondError(w, http.StatusNotFound, "account not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"owner_id": o.ID,
		"username": o.Username,
		"email":    o.Email,
		"phone":    o.Phone,
	})
}

// GetProfile returns the owner profile
// @Summary Get profile
// @Tags Owner
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /owner/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.GetCurrentOwner(w, r)
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Phone    string `json:"phone"`
}

// UpdateProfile updates the owner profile
// @Summary Update profile
// @Tags Owner
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body UpdateProfileRequest true "Profile Data"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /owner/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := GetOwnerID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	if err := h.ownerService.UpdateProfile(r.Context(), ownerID, req.Username, req.Phone); err != nil {
		if errors.Is(err, owner.ErrOwnerAlreadyExists) {
			respondError(w, http.StatusConflict, "username already taken")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "profile updated successfully",
	})
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword changes the owner password
// @Summary Change password
// @Tags Owner
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /owner/change-password [post]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ownerID := GetOwnerID(r.Context())

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	err := h.ownerService.ChangePassword(r.Context(), ownerID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, owner.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "invalid old password")
		case errors.Is(err, owner.ErrWeakPassword):
			respondError(w, http.StatusBadRequest, "new password does not meet security requirements")
		default:
			respondError(w, http.StatusInternalServerError, "failed to change password")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "password changed successfully",
	})
}

// Dashboard returns the owner's portfolio summary
// @Summary Dashboard
// @Description Portfolio counts, monthly income, and recent payments
// @Tags Dashboard
// @Produce json
// @Security CookieAuth
// @Success 200 {object} ledger.DashboardStats
// @Router /dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledgerService.Dashboard(r.Context(), GetOwnerID(r.Context()))
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to build dashboard", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Helper functions
func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,
		MaxAge:   h.sessionConfig.CookieMaxAge,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

func getIPAddress(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
