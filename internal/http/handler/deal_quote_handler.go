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

// DealQuoteHandler serves a deal's append-only quote version history
type DealQuoteHandler struct {
	quoteService *service.QuoteVersionService
	logger       *zap.Logger
}

func NewDealQuoteHandler(quoteService *service.QuoteVersionService, logger *zap.Logger) *DealQuoteHandler {
	return &DealQuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// @Summary Create quote version
// @Description Prices the configuration and appends it as the deal's new current version
// @Tags Quote Versions
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param request body domain.QuoteConfiguration true "Quote configuration"
// @Success 201 {object} domain.QuoteVersionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/quotes [post]
func (h *DealQuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	dealID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	var config domain.QuoteConfiguration
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	version, err := h.quoteService.CreateVersion(r.Context(), dealID, &config)
	if err != nil {
		h.respondVersionError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, version)
}

// @Summary List quote versions
// @Description Lists a deal's quote version summaries, newest first
// @Tags Quote Versions
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {array} domain.QuoteVersionSummaryDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/quotes [get]
func (h *DealQuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	dealID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	versions, err := h.quoteService.ListVersions(r.Context(), dealID)
	if err != nil {
		h.respondVersionError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, versions)
}

// @Summary Get quote version
// @Description Returns one full frozen version: configuration, breakdown and manifest
// @Tags Quote Versions
// @Produce json
// @Param id path string true "Deal ID"
// @Param sequence path int true "Version sequence"
// @Success 200 {object} domain.QuoteVersionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/quotes/{sequence} [get]
func (h *DealQuoteHandler) GetBySequence(w http.ResponseWriter, r *http.Request) {
	dealID, sequence, ok := h.parseVersionParams(w, r)
	if !ok {
		return
	}

	version, err := h.quoteService.GetVersion(r.Context(), dealID, sequence)
	if err != nil {
		h.respondVersionError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, version)
}

// @Summary Restore quote version
// @Description Appends a new current version from a historical configuration, repriced at current rates
// @Tags Quote Versions
// @Produce json
// @Param id path string true "Deal ID"
// @Param sequence path int true "Version sequence to restore"
// @Success 201 {object} domain.RestoreVersionResponse
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/quotes/{sequence}/restore [post]
func (h *DealQuoteHandler) Restore(w http.ResponseWriter, r *http.Request) {
	dealID, sequence, ok := h.parseVersionParams(w, r)
	if !ok {
		return
	}

	result, err := h.quoteService.RestoreVersion(r.Context(), dealID, sequence)
	if err != nil {
		h.respondVersionError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// @Summary Diff quote versions
// @Description Structurally compares the frozen configurations of two versions
// @Tags Quote Versions
// @Produce json
// @Param id path string true "Deal ID"
// @Param a query int true "First sequence"
// @Param b query int true "Second sequence"
// @Success 200 {object} domain.DiffVersionsResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /deals/{id}/quotes/diff [get]
func (h *DealQuoteHandler) Diff(w http.ResponseWriter, r *http.Request) {
	dealID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return
	}

	seqA, errA := strconv.Atoi(r.URL.Query().Get("a"))
	seqB, errB := strconv.Atoi(r.URL.Query().Get("b"))
	if errA != nil || errB != nil || seqA < 1 || seqB < 1 {
		respondWithError(w, http.StatusBadRequest, "Query parameters 'a' and 'b' must be positive sequence numbers")
		return
	}

	diff, err := h.quoteService.DiffVersions(r.Context(), dealID, seqA, seqB)
	if err != nil {
		h.respondVersionError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, diff)
}

func (h *DealQuoteHandler) parseVersionParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	dealID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return uuid.Nil, 0, false
	}

	sequence, err := strconv.Atoi(chi.URLParam(r, "sequence"))
	if err != nil || sequence < 1 {
		respondWithError(w, http.StatusBadRequest, "Invalid version sequence")
		return uuid.Nil, 0, false
	}

	return dealID, sequence, true
}

func (h *DealQuoteHandler) respondVersionError(w http.ResponseWriter, err error) {
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
	switch {
	case errors.Is(err, service.ErrDealNotFound):
		respondWithError(w, http.StatusNotFound, "Deal not found")
	case errors.Is(err, service.ErrVersionNotFound):
		respondWithError(w, http.StatusNotFound, "Quote version not found")
	case errors.Is(err, service.ErrVersionConflict):
		respondWithError(w, http.StatusConflict, "A concurrent save created a newer version; refresh and retry")
	case errors.Is(err, service.ErrNoActiveRateTable):
		h.logger.Error("quote operation failed: no active rate table")
		respondWithError(w, http.StatusInternalServerError, "No active rate table")
	default:
		h.logger.Error("quote version operation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Quote version operation failed")
	}
}
