package handlers

import (
	"fmt"
	"net/http"

	"github.com/epeers/stockdata/internal/models"
	"github.com/epeers/stockdata/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ExportHandler handles the per-domain CSV export endpoints
type ExportHandler struct {
	exportSvc *services.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportSvc *services.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Export returns the download handler for one domain.
//
// @Summary Export a domain as CSV
// @Description Stream the domain table as CSV with the same header the import expects
// @Tags import
// @Produce text/csv
// @Security BearerAuth
// @Param route path string true "Domain route" Enums(stocks, stock-info, stock-daily, stock-assets, stock-eps, stock-metrics, stock-pe)
// @Success 200 {file} file
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /{route}/export [get]
func (h *ExportHandler) Export(spec *models.ImportRowSpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, spec.Domain))
		c.Status(http.StatusOK)

		n, err := h.exportSvc.ExportCSV(c.Request.Context(), spec, c.Writer)
		if err != nil {
			// headers are already sent; the truncated body is all the client gets
			log.Errorf("Export %s failed after %d rows: %v", spec.Domain, n, err)
			return
		}
		log.Debugf("Exported %d %s rows", n, spec.Domain)
	}
}
