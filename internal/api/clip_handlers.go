package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"rolldepot/internal/clip"
)

const maxClipSize = 10 * 1024 * 1024

func (s *Server) registerClipRoutes(group *gin.RouterGroup) {
	group.POST("/clip/import", func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxClipSize))
		if err != nil || len(body) == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "text_required"})
			return
		}
		count, err := s.Clip.ImportFromText(c.Request.Context(), string(body))
		if err != nil {
			if errors.Is(err, clip.ErrNoRecords) {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_format",
					"message": "Import failed: unsupported data format.",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		s.Metrics.ClipRecords.Add(float64(count))
		c.JSON(http.StatusOK, gin.H{"records": count})
	})

	group.GET("/clip/records", func(c *gin.Context) {
		depot := c.Query("depot")
		date := c.Query("date")
		if depot == "" || date == "" {
			c.JSON(http.StatusOK, gin.H{"records": s.Clip.Records()})
			return
		}
		timeRange := clip.TimeRange(c.DefaultQuery("range", string(clip.RangeAll)))
		c.JSON(http.StatusOK, s.Clip.Filter(depot, date, timeRange))
	})

	group.GET("/clip/turnarounds", func(c *gin.Context) {
		depot := c.Query("depot")
		if depot == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "depot_required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"turnarounds": s.Clip.Turnarounds(depot)})
	})

	group.GET("/clip/depots", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"depots": s.Clip.Depots()})
	})

	group.GET("/clip/dates", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"dates": s.Clip.Dates()})
	})

	group.PATCH("/clip/records/:id/track", func(c *gin.Context) {
		var body struct {
			TargetTrack   string `json:"targetTrack"`
			StartingTrack string `json:"startingTrack"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
			return
		}
		id := c.Param("id")
		if !s.Clip.UpdateRecord(id, body.TargetTrack, body.StartingTrack) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "record_not_found"})
			return
		}
		if body.TargetTrack != "" {
			s.persistTrack(c.Request.Context(), id, body.TargetTrack)
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	})
}
