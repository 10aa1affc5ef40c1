package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"atenciones-backend/internal/cache"
	"atenciones-backend/internal/metrics"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"

	"go.uber.org/zap"
)

// mediumBuckets are the only medium/subtype pairs reported on the dashboard
var mediumBuckets = [][2]string{
	{models.MedioPresencial, models.SubtipoOficina},
	{models.MedioPresencial, models.SubtipoFinca},
	{models.MedioVirtual, models.SubtipoTeams},
	{models.MedioVirtual, models.SubtipoTelefonico},
	{models.MedioVirtual, models.SubtipoCorreo},
}

// Compute derives the dashboard over the full visit collection. Regions keep
// their listed order and appear even with zero visits; activities appear in
// first-seen order.
func Compute(visits []*models.Visit, agencies []*models.Agency, regions []*models.Region) models.DashboardStats {
	regionOfAgency := make(map[string]string, len(agencies))
	for _, a := range agencies {
		regionOfAgency[a.ID] = a.RegionID
	}

	var (
		producers      = make(map[string]struct{})
		byRegion       = make(map[string]int, len(regions))
		byActivity     = make(map[string]int)
		activityOrder  []string
		byMedium       = make(map[[2]string]int, len(mediumBuckets))
		conSeguimiento int
		presenciales   int
	)

	for _, v := range visits {
		producers[v.ProductorID] = struct{}{}
		if v.RequiereSeguimiento {
			conSeguimiento++
		}
		if v.MedioAtencionTipo == models.MedioPresencial {
			presenciales++
		}
		if regionID, ok := regionOfAgency[v.AgenciaID]; ok {
			byRegion[regionID]++
		}
		if _, seen := byActivity[v.Actividad]; !seen {
			activityOrder = append(activityOrder, v.Actividad)
		}
		byActivity[v.Actividad]++
		byMedium[[2]string{v.MedioAtencionTipo, v.MedioAtencionSubtipo}]++
	}

	stats := models.DashboardStats{
		TotalAtenciones:          len(visits),
		ProductoresUnicos:        len(producers),
		AtencionesConSeguimiento: conSeguimiento,
		AtencionesPresenciales:   presenciales,
		AtencionesRegion:         make([]models.Stat, 0, len(regions)),
		AtencionesActividad:      make([]models.Stat, 0, len(activityOrder)),
		AtencionesMediaAtencion:  make([]models.Stat, 0, len(mediumBuckets)),
		AtencionesSeguimiento: []models.Stat{
			{Name: models.ConSeguimiento, Value: conSeguimiento},
			{Name: models.SinSeguimiento, Value: len(visits) - conSeguimiento},
		},
	}
	for _, r := range regions {
		stats.AtencionesRegion = append(stats.AtencionesRegion, models.Stat{Name: r.Nombre, Value: byRegion[r.ID]})
	}
	for _, a := range activityOrder {
		stats.AtencionesActividad = append(stats.AtencionesActividad, models.Stat{Name: a, Value: byActivity[a]})
	}
	for _, b := range mediumBuckets {
		stats.AtencionesMediaAtencion = append(stats.AtencionesMediaAtencion,
			models.Stat{Name: b[0] + " - " + b[1], Value: byMedium[b]})
	}
	return stats
}

// StatsService serves dashboard statistics through the cache
type StatsService struct {
	Store  repositories.Store
	Cache  *cache.Cache
	TTL    time.Duration
	logger *zap.Logger
}

func NewStatsService(store repositories.Store, c *cache.Cache, logger *zap.Logger) *StatsService {
	return &StatsService{Store: store, Cache: c, TTL: cache.DefaultTTL, logger: logger}
}

// statsKey names the dashboard entry for one cache generation
func statsKey(gen int64) string {
	return fmt.Sprintf("%s:%d", cache.DashboardStatsKey, gen)
}

// Statistics returns the cached dashboard or computes and caches it. Entries
// are keyed by generation, so a result computed before an Invalidate is never
// served after it.
func (s *StatsService) Statistics(ctx context.Context) (*models.DashboardStats, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.Cache != nil {
		gen, cacheable = s.Cache.Generation(ctx, cache.DashboardGeneration)
	}
	if cacheable {
		if data, ok := s.Cache.GetCached(ctx, statsKey(gen)); ok {
			var stats models.DashboardStats
			if err := json.Unmarshal(data, &stats); err == nil {
				metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
				return &stats, nil
			}
			s.logger.Warn("discarding unreadable cached dashboard stats")
		}
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
	}

	visits, err := s.Store.Visits.List(ctx)
	if err != nil {
		return nil, err
	}
	agencies, err := s.Store.Agencies.List(ctx)
	if err != nil {
		return nil, err
	}
	regions, err := s.Store.Regions.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := Compute(visits, agencies, regions)

	if cacheable {
		// skip the write when a mutation landed while computing
		if now, ok := s.Cache.Generation(ctx, cache.DashboardGeneration); ok && now == gen {
			if data, err := json.Marshal(stats); err == nil {
				s.Cache.SetCached(ctx, statsKey(gen), data, s.TTL)
			}
		}
	}
	return &stats, nil
}

// Invalidate drops cached aggregates after a mutation
func (s *StatsService) Invalidate(ctx context.Context) {
	if s == nil || s.Cache == nil {
		return
	}
	s.Cache.BumpGeneration(ctx, cache.DashboardGeneration)
	s.Cache.InvalidateDashboard(ctx)
}
