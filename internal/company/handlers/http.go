// Package handlers provides the HTTP boundary for the company service:
// routing, request/response schemas and translation of domain errors to
// status codes.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gartstein/companyd/internal/company/auth"
	"github.com/gartstein/companyd/internal/company/controller"
	"github.com/gartstein/companyd/internal/company/domain"
	e "github.com/gartstein/companyd/internal/company/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyController defines the business logic interface the HTTP
// handlers invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, in controller.CreateInput) (*domain.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	ListCompanies(ctx context.Context, offset, limit int) ([]*domain.Company, error)
	UpdateCompany(ctx context.Context, in controller.UpdateInput) (*domain.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}

// CompanyHandler serves the /api/v1/companies endpoints.
type CompanyHandler struct {
	svc    CompanyController
	logger *zap.Logger
}

// NewCompanyHandler constructs the HTTP handler for company endpoints.
func NewCompanyHandler(svc CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{svc: svc, logger: logger.Named("http")}
}

// Routes builds the router. Mutating endpoints require a bearer token;
// reads are open.
func (h *CompanyHandler) Routes(jwtSecret string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1/companies", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return auth.HTTPMiddleware(next, jwtSecret)
			})
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
	return r
}

// ErrorResponse is the JSON body for all error statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateRequest is the body for POST /api/v1/companies.
type CreateRequest struct {
	Name      string          `json:"company_name"`
	CountryID uuid.UUID       `json:"country_id"`
	Details   []DetailPayload `json:"details,omitempty"`
	Types     []TypePayload   `json:"company_types,omitempty"`
}

// UpdateRequest is the body for PUT /api/v1/companies/{id}.
// Absent fields are left untouched.
type UpdateRequest struct {
	Name      *string    `json:"company_name,omitempty"`
	CountryID *uuid.UUID `json:"country_id,omitempty"`
}

// Create handles POST /api/v1/companies.
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	in := controller.CreateInput{
		Name:      req.Name,
		CountryID: req.CountryID,
	}
	for _, d := range req.Details {
		in.Details = append(in.Details, toDetail(d))
	}
	for _, t := range req.Types {
		in.Types = append(in.Types, toCompanyType(t))
	}

	created, err := h.svc.CreateCompany(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, toResponse(created), http.StatusCreated)
}

// Get handles GET /api/v1/companies/{id}.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "invalid company ID", http.StatusBadRequest)
		return
	}

	company, err := h.svc.GetCompany(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, toResponse(company), http.StatusOK)
}

// List handles GET /api/v1/companies.
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	companies, err := h.svc.ListCompanies(r.Context(), offset, limit)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	out := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, toResponse(c))
	}
	h.respondJSON(w, out, http.StatusOK)
}

// Update handles PUT /api/v1/companies/{id}.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "invalid company ID", http.StatusBadRequest)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	updated, err := h.svc.UpdateCompany(r.Context(), controller.UpdateInput{
		ID:        id,
		Name:      req.Name,
		CountryID: req.CountryID,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	h.respondJSON(w, toResponse(updated), http.StatusOK)
}

// Delete handles DELETE /api/v1/companies/{id}.
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, "invalid company ID", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteCompany(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps domain errors to HTTP status codes. Dispatcher
// and handler failures never reach this path; they are logged downstream.
func (h *CompanyHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		h.respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, e.ErrAlreadyExists):
		h.respondError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, e.ErrValidation):
		h.respondError(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("Internal error", zap.Error(err))
		h.respondError(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *CompanyHandler) respondJSON(w http.ResponseWriter, payload interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *CompanyHandler) respondError(w http.ResponseWriter, msg string, status int) {
	h.respondJSON(w, ErrorResponse{Error: msg}, status)
}
