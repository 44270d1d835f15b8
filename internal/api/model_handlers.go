package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerModelRoutes(group *gin.RouterGroup) {
	group.GET("/records", func(c *gin.Context) {
		views := s.Store.FilterRecords(c.Query("sheet"), c.Query("date"))
		c.JSON(http.StatusOK, gin.H{"stations": views})
	})

	group.GET("/stations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"stations": s.Store.Current().Stations})
	})

	group.GET("/vehicles", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"vehicles": s.Store.Current().Vehicles})
	})

	group.GET("/vehicle-workings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"vehicleWorkings": s.Store.Current().VehicleWorkings})
	})

	group.GET("/staff", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"staff": s.Store.Current().Staff})
	})

	group.GET("/duties", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"duties": s.Store.Current().Duties})
	})

	group.GET("/dates", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"dates": s.Store.Current().AvailableDates()})
	})

	group.GET("/trains/:date", func(c *gin.Context) {
		trains := s.Store.Current().TrainsByDate(c.Param("date"))
		c.JSON(http.StatusOK, gin.H{"trains": trains})
	})

	group.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Store.Statistics())
	})

	group.GET("/export", func(c *gin.Context) {
		snapshot := s.Store.Snapshot(time.Now())
		filename := fmt.Sprintf("movements-export-%s.json", time.Now().Format("2006-01-02"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.JSON(http.StatusOK, snapshot)
	})

	group.PATCH("/records/:id/track", func(c *gin.Context) {
		var body struct {
			Track string `json:"track"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Track == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "track_required"})
			return
		}
		id := c.Param("id")
		if !s.Store.UpdateRecordTrack(id, body.Track) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "record_not_found"})
			return
		}
		s.persistTrack(c.Request.Context(), id, body.Track)
		c.JSON(http.StatusOK, gin.H{"updated": true})
	})
}

// persistTrack merges one assignment into the durable side channel so it can
// be restored after the next rebuild.
func (s *Server) persistTrack(ctx context.Context, recordID, track string) {
	saved, err := s.Tracks.Load(ctx)
	if err != nil {
		s.diag().Error("loading track assignments failed", map[string]any{"error": err.Error()})
		return
	}
	saved[recordID] = track
	if err := s.Tracks.Save(ctx, saved); err != nil {
		s.diag().Error("saving track assignments failed", map[string]any{"error": err.Error()})
	}
}
