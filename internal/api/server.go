package api

import (
	"rolldepot/internal/clip"
	"rolldepot/internal/fieldmaps"
	"rolldepot/internal/metrics"
	"rolldepot/internal/models"
	"rolldepot/internal/schedule"
	"rolldepot/internal/tracks"
)

// Config carries the collaborators the HTTP surface exposes.
type Config struct {
	Store    *models.ModelStore
	Clip     *clip.Store
	Mappings *fieldmaps.Source
	Tracks   tracks.Store
	Diag     schedule.Diag
	Metrics  *metrics.Metrics

	RateLimitRPS   float64
	RateLimitBurst int
}

// Server wires the import engine behind a thin gin router.
type Server struct {
	Store    *models.ModelStore
	Clip     *clip.Store
	Mappings *fieldmaps.Source
	Tracks   tracks.Store
	Diag     schedule.Diag
	Metrics  *metrics.Metrics

	rateLimitRPS   float64
	rateLimitBurst int
}

func NewServer(cfg Config) *Server {
	s := &Server{
		Store:          cfg.Store,
		Clip:           cfg.Clip,
		Mappings:       cfg.Mappings,
		Tracks:         cfg.Tracks,
		Diag:           cfg.Diag,
		Metrics:        cfg.Metrics,
		rateLimitRPS:   cfg.RateLimitRPS,
		rateLimitBurst: cfg.RateLimitBurst,
	}
	if s.Store == nil {
		s.Store = models.NewModelStore()
	}
	if s.Tracks == nil {
		s.Tracks = tracks.NewMemoryStore()
	}
	if s.Clip == nil {
		s.Clip = clip.NewStore(s.Tracks, s.Diag)
	}
	if s.Metrics == nil {
		s.Metrics = metrics.New()
	}
	if s.rateLimitRPS <= 0 {
		s.rateLimitRPS = 10
	}
	if s.rateLimitBurst <= 0 {
		s.rateLimitBurst = 20
	}
	return s
}

func (s *Server) diag() schedule.Diag {
	if s.Diag == nil {
		return schedule.SlogDiag{}
	}
	return s.Diag
}
