package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/repository"
	"github.com/meridianscan/sales-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogHandler serves read-only catalog and rate table views. Catalog and
// rate management happen out of band; this API only exposes what pricing
// runs against.
type CatalogHandler struct {
	catalogService *service.CatalogService
	rateRepo       *repository.RateTableRepository
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, rateRepo *repository.RateTableRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		rateRepo:       rateRepo,
		logger:         logger,
	}
}

// @Summary List catalog entries
// @Tags Catalog
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Param buildingCategory query string false "Filter by building category"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /catalog [get]
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 50
	}

	var category *domain.BuildingCategory
	if c := r.URL.Query().Get("buildingCategory"); c != "" {
		cat := domain.BuildingCategory(c)
		if !cat.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Unknown building category")
			return
		}
		category = &cat
	}

	skus, total, err := h.catalogService.List(r.Context(), page, pageSize, category)
	if err != nil {
		h.logger.Error("failed to list catalog", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list catalog")
		return
	}

	dtos := make([]*domain.ProductSkuDTO, 0, len(skus))
	for i := range skus {
		dtos = append(dtos, domain.NewProductSkuDTO(&skus[i]))
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// @Summary Get catalog entry
// @Tags Catalog
// @Produce json
// @Param code path string true "SKU code"
// @Success 200 {object} domain.ProductSkuDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /catalog/{code} [get]
func (h *CatalogHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	sku, err := h.catalogService.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(w, http.StatusNotFound, "Catalog entry not found")
			return
		}
		h.logger.Error("failed to get catalog entry", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get catalog entry")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewProductSkuDTO(sku))
}

// @Summary Get active rate table
// @Tags Rates
// @Produce json
// @Success 200 {object} domain.RateTable
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /rates/active [get]
func (h *CatalogHandler) GetActiveRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.rateRepo.GetActive(r.Context())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(w, http.StatusNotFound, "No active rate table")
			return
		}
		h.logger.Error("failed to get active rate table", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get active rate table")
		return
	}

	respondJSON(w, http.StatusOK, rates)
}

// @Summary List rate table versions
// @Tags Rates
// @Produce json
// @Success 200 {array} domain.RateTableRecord
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /rates [get]
func (h *CatalogHandler) ListRateVersions(w http.ResponseWriter, r *http.Request) {
	records, err := h.rateRepo.ListVersions(r.Context())
	if err != nil {
		h.logger.Error("failed to list rate table versions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list rate table versions")
		return
	}

	respondJSON(w, http.StatusOK, records)
}
