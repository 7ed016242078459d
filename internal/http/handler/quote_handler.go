package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meridianscan/sales-api/internal/domain"
	"github.com/meridianscan/sales-api/internal/service"
	"go.uber.org/zap"
)

// QuoteHandler serves stateless pricing operations: SKU resolution and
// manifest generation without persisting a version.
type QuoteHandler struct {
	quoteService *service.QuoteVersionService
	resolver     *service.SkuResolverService
	logger       *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteVersionService, resolver *service.SkuResolverService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		resolver:     resolver,
		logger:       logger,
	}
}

// @Summary Resolve catalog SKU
// @Description Resolves the best-matching catalog entry for a single-area attribute set
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.ResolveSkuRequest true "Attribute set"
// @Success 200 {object} domain.ResolveSkuResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/areas/resolve-sku [post]
func (h *QuoteHandler) ResolveSku(w http.ResponseWriter, r *http.Request) {
	var req domain.ResolveSkuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}
	if !req.BuildingCategory.IsValid() || !req.LOD.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Unknown building category or LOD")
		return
	}
	if req.Discipline != nil && !req.Discipline.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Unknown discipline")
		return
	}
	if req.Scope != nil && !req.Scope.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Unknown scope")
		return
	}

	sku, found := h.resolver.Resolve(req.BuildingCategory, req.Discipline, req.LOD, req.Scope)

	resp := domain.ResolveSkuResponse{Found: found}
	if found {
		resp.Sku = &sku.Code
		resp.Product = domain.NewProductSkuDTO(sku)
	}
	respondJSON(w, http.StatusOK, resp)
}

// @Summary Generate proposal line items
// @Description Prices a full configuration against current rates and returns the ordered manifest
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.QuoteConfiguration true "Quote configuration"
// @Success 200 {array} domain.ProposalLineItem
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/generate-skus [post]
func (h *QuoteHandler) GenerateSkus(w http.ResponseWriter, r *http.Request) {
	var config domain.QuoteConfiguration
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, manifest, err := h.quoteService.Price(r.Context(), &config)
	if err != nil {
		h.respondPricingError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, manifest)
}

// @Summary Price a configuration
// @Description Computes the pricing breakdown and manifest without saving a version
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.QuoteConfiguration true "Quote configuration"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotes/price [post]
func (h *QuoteHandler) Price(w http.ResponseWriter, r *http.Request) {
	var config domain.QuoteConfiguration
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	breakdown, manifest, err := h.quoteService.Price(r.Context(), &config)
	if err != nil {
		h.respondPricingError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"breakdown": breakdown,
		"manifest":  manifest,
	})
}

func (h *QuoteHandler) respondPricingError(w http.ResponseWriter, err error) {
	var configErr *domain.ConfigValidationError
	if errors.As(err, &configErr) {
		respondConfigError(w, configErr)
		return
	}
	var rateErr *domain.RateNotFoundError
	if errors.As(err, &rateErr) {
		respondWithError(w, http.StatusBadRequest, rateErr.Error())
		return
	}
	if errors.Is(err, service.ErrNoActiveRateTable) {
		h.logger.Error("pricing failed: no active rate table")
		respondWithError(w, http.StatusInternalServerError, "No active rate table")
		return
	}
	h.logger.Error("pricing failed", zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "Failed to price configuration")
}
