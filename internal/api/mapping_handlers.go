package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerMappingRoutes(group *gin.RouterGroup) {
	group.GET("/field-mappings", func(c *gin.Context) {
		mapping, fromDB := s.Mappings.Current(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"mappings": mapping, "source": mappingSource(fromDB)})
	})

	group.PUT("/field-mappings", func(c *gin.Context) {
		var mapping map[string]string
		if err := c.ShouldBindJSON(&mapping); err != nil || len(mapping) == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "mappings_required"})
			return
		}
		if err := s.Mappings.Replace(c.Request.Context(), mapping); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": len(mapping)})
	})
}

func mappingSource(fromDB bool) string {
	if fromDB {
		return "database"
	}
	return "default"
}
