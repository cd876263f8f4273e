package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/epeers/stockdata/internal/csvimport"
	"github.com/epeers/stockdata/internal/models"
	"github.com/epeers/stockdata/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// multipartOverhead is the slack allowed on top of a domain's file ceiling
// for multipart boundaries and headers
const multipartOverhead = 1 << 20

// statusClientClosedRequest is logged when the caller went away mid-import
const statusClientClosedRequest = 499

// ImportHandler handles the per-domain CSV upload endpoints
type ImportHandler struct {
	importSvc *services.ImportService
	uploadDir string
}

// NewImportHandler creates a new ImportHandler. Uploads are staged in uploadDir.
func NewImportHandler(importSvc *services.ImportService, uploadDir string) *ImportHandler {
	return &ImportHandler{
		importSvc: importSvc,
		uploadDir: uploadDir,
	}
}

// Import returns the upload handler for one domain.
//
// @Summary Import a domain CSV
// @Description Upload a CSV file (multipart field "file") and upsert its rows into the domain table.
// @Description Rows are matched on the natural key; existing rows get every non-key column overwritten, including with empty values.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param route path string true "Domain route" Enums(stocks, stock-info, stock-daily, stock-assets, stock-eps, stock-metrics, stock-pe)
// @Param file formData file true "CSV file"
// @Success 200 {object} models.ImportResponse
// @Failure 400 {object} models.ImportResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /{route}/import [post]
func (h *ImportHandler) Import(spec *models.ImportRowSpec) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, spec.MaxUploadBytes+multipartOverhead)

		fh, err := c.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:   "file_too_large",
					Message: fmt.Sprintf("%s uploads are limited to %d bytes", spec.Domain, spec.MaxUploadBytes),
				})
				return
			}
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid_request",
				Message: "No file uploaded: " + err.Error(),
			})
			return
		}

		if err := validateUpload(fh, spec.MaxUploadBytes); err != nil {
			code := "invalid_file"
			if errors.Is(err, ErrFileTooLarge) {
				code = "file_too_large"
			}
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   code,
				Message: err.Error(),
			})
			return
		}

		path, err := saveUpload(fh, h.uploadDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: err.Error(),
			})
			return
		}

		log.Infof("Import %s: %s (%d bytes) staged at %s", spec.Domain, fh.Filename, fh.Size, path)
		result, err := h.importSvc.ImportFile(c.Request.Context(), spec, path)
		if err != nil {
			h.writeImportError(c, spec, result, err)
			return
		}

		message := fmt.Sprintf("Imported %d of %d rows into %s", result.ImportedCount, result.TotalRows, spec.Domain)
		c.JSON(http.StatusOK, models.NewImportResponse(message, result))
	}
}

func (h *ImportHandler) writeImportError(c *gin.Context, spec *models.ImportRowSpec, result *models.ImportResult, err error) {
	switch {
	case errors.Is(err, services.ErrNoValidData) && result != nil:
		c.JSON(http.StatusBadRequest, models.NewImportResponse("No valid data found in file", result))
	case errors.Is(err, csvimport.ErrEmptyFile), errors.Is(err, csvimport.ErrMissingColumns), errors.Is(err, services.ErrNoValidData):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_file",
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrSymbolRegistryEmpty):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "No symbols found in stock_info; import stock-info first",
		})
	case errors.Is(err, context.Canceled):
		log.Warnf("Import %s aborted by client: %v", spec.Domain, err)
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		log.Errorf("Import %s failed: %v", spec.Domain, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
