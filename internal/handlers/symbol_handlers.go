package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/epeers/stockdata/internal/csvimport"
	"github.com/epeers/stockdata/internal/models"
	"github.com/epeers/stockdata/internal/repository"
	"github.com/epeers/stockdata/internal/services"
	"github.com/gin-gonic/gin"
)

// SymbolHandler handles Symbol Registry and domain metadata endpoints
type SymbolHandler struct {
	lookup *services.SymbolLookup
}

// NewSymbolHandler creates a new SymbolHandler
func NewSymbolHandler(lookup *services.SymbolLookup) *SymbolHandler {
	return &SymbolHandler{lookup: lookup}
}

// GetSymbol handles GET /symbols/:symbol
// @Summary Look up a symbol
// @Description Report whether a ticker is in the Symbol Registry (case-insensitive) and return its entry
// @Tags symbols
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Success 200 {object} models.SymbolResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /symbols/{symbol} [get]
func (h *SymbolHandler) GetSymbol(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "symbol is required",
		})
		return
	}

	ctx := c.Request.Context()
	exists, err := h.lookup.Exists(ctx, symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	if !exists {
		c.JSON(http.StatusOK, models.SymbolResponse{Exists: false, Symbol: symbol})
		return
	}

	// the entry may have been removed since the existence check
	info, err := h.lookup.Info(ctx, symbol)
	if errors.Is(err, repository.ErrSymbolNotFound) {
		c.JSON(http.StatusOK, models.SymbolResponse{Exists: false, Symbol: symbol})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SymbolResponse{Exists: true, Symbol: info.Symbol, Info: info})
}

// ListImportDomains handles GET /import-domains
// @Summary List import domains
// @Description Column sets, natural keys, number formats and size limits of every importable domain
// @Tags import
// @Produce json
// @Success 200 {object} models.ImportDomainsResponse
// @Security BearerAuth
// @Router /import-domains [get]
func (h *SymbolHandler) ListImportDomains(c *gin.Context) {
	specs := csvimport.All()
	resp := models.ImportDomainsResponse{Domains: make([]models.ImportRowSpec, len(specs))}
	for i, s := range specs {
		resp.Domains[i] = *s
	}
	c.JSON(http.StatusOK, resp)
}
