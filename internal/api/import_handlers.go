package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"rolldepot/internal/schedule"
)

const maxWorkbookSize = 50 * 1024 * 1024

func (s *Server) registerImportRoutes(group *gin.RouterGroup) {
	group.POST("/import", func(c *gin.Context) {
		file, fileHeader, err := c.Request.FormFile("file")
		if err != nil || fileHeader == nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file_required"})
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if ext != ".xlsx" && ext != ".xls" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unsupported_file"})
			return
		}
		if fileHeader.Size > maxWorkbookSize {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file_too_large"})
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, maxWorkbookSize+1))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "read_failed"})
			return
		}

		mapping, fromDB := s.Mappings.Current(c.Request.Context())
		if !fromDB {
			s.diag().Warn("using default field mappings", map[string]any{
				"fileName": fileHeader.Filename,
			})
		}

		importer := schedule.Importer{Mappings: mapping, Diag: s.Diag}
		model, summary, err := importer.ImportWorkbook(data, fileHeader.Filename)
		if err != nil {
			s.Metrics.ImportFailures.Inc()
			if errors.Is(err, schedule.ErrMappingsNotLoaded) {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error":   "mappings_not_loaded",
					"message": "Field mappings are not loaded yet. Try again.",
				})
				return
			}
			// Catastrophic failure: discard the previous aggregate rather
			// than leave a stale model behind a fresh error.
			s.Store.Clear()
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s.Store.Replace(model)
		s.Metrics.RecordsImported.Add(float64(summary.Records))
		s.Metrics.SheetsSkipped.Add(float64(summary.SkippedSheets))
		s.Metrics.DuplicatesSkipped.Add(float64(summary.DuplicatesSkipped))

		c.JSON(http.StatusOK, gin.H{
			"summary": summary,
			"message": importMessage(summary),
		})
	})
}

func importMessage(summary schedule.Summary) string {
	return fmt.Sprintf("Imported %d records, %d stations, %d vehicles",
		summary.Records, summary.Stations, summary.Vehicles)
}
