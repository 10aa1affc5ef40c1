package repositories

import (
	"context"

	"atenciones-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RegionRepository struct {
	DB *pgxpool.Pool
}

func NewRegionRepository(db *pgxpool.Pool) *RegionRepository {
	return &RegionRepository{DB: db}
}

func (r *RegionRepository) Create(ctx context.Context, region *models.Region) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO regiones(id, nombre)
         VALUES(COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2)
         RETURNING id`,
		region.ID, region.Nombre,
	).Scan(&region.ID)
	return translate(err)
}

func (r *RegionRepository) Get(ctx context.Context, id string) (*models.Region, error) {
	var region models.Region
	err := r.DB.QueryRow(ctx, `SELECT id, nombre FROM regiones WHERE id=$1`, id).
		Scan(&region.ID, &region.Nombre)
	if err != nil {
		return nil, translate(err)
	}
	return &region, nil
}

// List returns regions in seed order
func (r *RegionRepository) List(ctx context.Context) ([]*models.Region, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, nombre FROM regiones ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []*models.Region
	for rows.Next() {
		var region models.Region
		if err := rows.Scan(&region.ID, &region.Nombre); err != nil {
			return nil, err
		}
		regions = append(regions, &region)
	}
	return regions, rows.Err()
}

type AgencyRepository struct {
	DB *pgxpool.Pool
}

func NewAgencyRepository(db *pgxpool.Pool) *AgencyRepository {
	return &AgencyRepository{DB: db}
}

func (r *AgencyRepository) Create(ctx context.Context, a *models.Agency) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO agencias(id, nombre, telefono, region_id)
         VALUES(COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4)
         RETURNING id`,
		a.ID, a.Nombre, a.Telefono, a.RegionID,
	).Scan(&a.ID)
	return translate(err)
}

func (r *AgencyRepository) Get(ctx context.Context, id string) (*models.Agency, error) {
	var a models.Agency
	err := r.DB.QueryRow(ctx,
		`SELECT id, nombre, telefono, region_id FROM agencias WHERE id=$1`, id).
		Scan(&a.ID, &a.Nombre, &a.Telefono, &a.RegionID)
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AgencyRepository) List(ctx context.Context) ([]*models.Agency, error) {
	return r.ListByRegion(ctx, "")
}

// ListByRegion returns the agencies of one region, or all when regionID is empty
func (r *AgencyRepository) ListByRegion(ctx context.Context, regionID string) ([]*models.Agency, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, nombre, telefono, region_id FROM agencias
         WHERE $1 = '' OR region_id = $1
         ORDER BY seq`, regionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agencies []*models.Agency
	for rows.Next() {
		var a models.Agency
		if err := rows.Scan(&a.ID, &a.Nombre, &a.Telefono, &a.RegionID); err != nil {
			return nil, err
		}
		agencies = append(agencies, &a)
	}
	return agencies, rows.Err()
}
