package handlers

import (
	"github.com/epeers/stockdata/internal/csvimport"
	"github.com/gin-gonic/gin"
)

// RegisterImportRoutes adds POST /{route}/import and GET /{route}/export for
// every domain. rg is expected to carry the admin gate.
func RegisterImportRoutes(rg *gin.RouterGroup, imp *ImportHandler, exp *ExportHandler, limit gin.HandlerFunc) {
	for _, spec := range csvimport.All() {
		rg.POST("/"+spec.Route+"/import", limit, imp.Import(spec))
		rg.GET("/"+spec.Route+"/export", exp.Export(spec))
	}
}
