package services

import (
	"context"
	"strings"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
)

// CatalogService serves the read-only region and agency reference sets
type CatalogService struct {
	Store repositories.Store
}

func NewCatalogService(store repositories.Store) *CatalogService {
	return &CatalogService{Store: store}
}

func (s *CatalogService) ListRegions(ctx context.Context) ([]*models.Region, error) {
	return s.Store.Regions.List(ctx)
}

// ListAgencies returns agencies with their region, optionally restricted to one region
func (s *CatalogService) ListAgencies(ctx context.Context, regionID string) ([]*models.AgencyWithRegion, error) {
	var (
		agencies []*models.Agency
		err      error
	)
	if r := strings.TrimSpace(regionID); r != "" && !strings.EqualFold(r, RegionAll) {
		agencies, err = s.Store.Agencies.ListByRegion(ctx, r)
	} else {
		agencies, err = s.Store.Agencies.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	regions, err := s.Store.Regions.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Region, len(regions))
	for _, r := range regions {
		byID[r.ID] = r
	}

	out := make([]*models.AgencyWithRegion, 0, len(agencies))
	for _, a := range agencies {
		out = append(out, &models.AgencyWithRegion{Agency: *a, Region: byID[a.RegionID]})
	}
	return out, nil
}
