package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/service"
	"go.uber.org/zap"
)

type DealHandler struct {
	dealService *service.DealService
	logger      *zap.Logger
}

func NewDealHandler(dealService *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		logger:      logger,
	}
}

// @Summary List deals
// @Description List deals with optional filters
// @Tags Deals
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (lead, quoting, proposed, won, lost)"
// @Param ownerId query string false "Filter by owner ID"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals [get]
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	var status *domain.DealStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.DealStatus(s)
		if !st.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown deal status")
			return
		}
		status = &st
	}

	var ownerID *string
	if o := r.URL.Query().Get("ownerId"); o != "" {
		ownerID = &o
	}

	result, err := h.dealService.List(r.Context(), page, pageSize, status, ownerID)
	if err != nil {
		h.logger.Error("failed to list deals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list deals")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Create deal
// @Description Creates the anchor record quote versions attach to
// @Tags Deals
// @Accept json
// @Produce json
// @Param request body domain.CreateDealRequest true "Deal"
// @Success 201 {object} domain.DealDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals [post]
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, "Unknown deal status")
			return
		}
		h.logger.Error("failed to create deal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create deal")
		return
	}

	respondJSON(w, http.StatusCreated, deal)
}

// @Summary Get deal
// @Tags Deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} domain.DealDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id} [get]
func (h *DealHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	deal, err := h.dealService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDealNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to get deal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// @Summary Update deal
// @Tags Deals
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.CreateDealRequest true "Deal"
// @Success 200 {object} domain.DealDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id} [put]
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var req domain.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDealNotFound):
			respondWithError(w, http.StatusNotFound, "Deal not found")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "Unknown deal status")
		default:
			h.logger.Error("failed to update deal", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to update deal")
		}
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// @Summary Delete deal
// @Tags Deals
// @Param id path string true "Deal ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id} [delete]
func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	if err := h.dealService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrDealNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to delete deal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete deal")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
