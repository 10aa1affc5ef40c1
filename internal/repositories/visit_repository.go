package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// consecutivoLockClass namespaces the per-year advisory lock taken while numbering visits
const consecutivoLockClass = 7301

const visitColumns = `id, consecutivo, tipo_contacto, fecha, funcionario_id, agencia_id, productor_id,
	actividad, area_atendida, medio_atencion_tipo, medio_atencion_subtipo, asunto_recomendacion,
	COALESCE(observacion, ''), requiere_seguimiento, created_at, updated_at`

type VisitRepository struct {
	DB *pgxpool.Pool
}

func NewVisitRepository(db *pgxpool.Pool) *VisitRepository {
	return &VisitRepository{DB: db}
}

// Create numbers and inserts the visit in one transaction. The advisory lock
// serializes numbering per year; UNIQUE(consecutivo) backs it up.
func (r *VisitRepository) Create(ctx context.Context, v *models.Visit, year int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if v.Consecutivo == "" {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1::int, $2::int)`, consecutivoLockClass, year); err != nil {
			return fmt.Errorf("failed to lock consecutivo sequence: %w", err)
		}

		var max int
		err = tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(CAST(split_part(consecutivo, '-', 2) AS INTEGER)), 0)
             FROM atenciones
             WHERE consecutivo LIKE $1 || '-%' AND split_part(consecutivo, '-', 2) ~ '^[0-9]+$'`,
			strconv.Itoa(year),
		).Scan(&max)
		if err != nil {
			return fmt.Errorf("failed to read last consecutivo: %w", err)
		}
		v.Consecutivo = FormatConsecutivo(year, max+1)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO atenciones(id, consecutivo, tipo_contacto, fecha, funcionario_id, agencia_id, productor_id,
		     actividad, area_atendida, medio_atencion_tipo, medio_atencion_subtipo, asunto_recomendacion,
		     observacion, requiere_seguimiento)
         VALUES(COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4::date, $5, $6, $7,
             $8, $9, $10, $11, $12, NULLIF($13, ''), $14)
         RETURNING id, created_at, updated_at`,
		v.ID, v.Consecutivo, v.TipoContacto, v.Fecha.In(timeutil.Zone()).Format(timeutil.DateLayout), v.FuncionarioID, v.AgenciaID,
		v.ProductorID, v.Actividad, v.AreaAtendida, v.MedioAtencionTipo, v.MedioAtencionSubtipo,
		v.AsuntoRecomendacion, v.Observacion, v.RequiereSeguimiento,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return translate(err)
	}

	return tx.Commit(ctx)
}

func (r *VisitRepository) Get(ctx context.Context, id string) (*models.Visit, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+visitColumns+` FROM atenciones WHERE id=$1`, id)
	v, err := scanVisit(row)
	if err != nil {
		return nil, translate(err)
	}
	return v, nil
}

// List returns every visit in insertion order
func (r *VisitRepository) List(ctx context.Context) ([]*models.Visit, error) {
	return r.query(ctx, `SELECT `+visitColumns+` FROM atenciones ORDER BY created_at, id`)
}

func (r *VisitRepository) ListByProducer(ctx context.Context, producerID string) ([]*models.Visit, error) {
	return r.query(ctx,
		`SELECT `+visitColumns+` FROM atenciones WHERE productor_id=$1 ORDER BY created_at, id`, producerID)
}

func (r *VisitRepository) CountByProducer(ctx context.Context, producerID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM atenciones WHERE productor_id=$1`, producerID).Scan(&n)
	return n, err
}

// Update rewrites the mutable columns; consecutivo and created_at never change
func (r *VisitRepository) Update(ctx context.Context, v *models.Visit) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE atenciones SET tipo_contacto=$1, fecha=$2::date, funcionario_id=$3, agencia_id=$4, productor_id=$5,
		     actividad=$6, area_atendida=$7, medio_atencion_tipo=$8, medio_atencion_subtipo=$9,
		     asunto_recomendacion=$10, observacion=NULLIF($11, ''), requiere_seguimiento=$12,
		     updated_at=CURRENT_TIMESTAMP
         WHERE id=$13
         RETURNING consecutivo, created_at, updated_at`,
		v.TipoContacto, v.Fecha.In(timeutil.Zone()).Format(timeutil.DateLayout), v.FuncionarioID, v.AgenciaID, v.ProductorID,
		v.Actividad, v.AreaAtendida, v.MedioAtencionTipo, v.MedioAtencionSubtipo,
		v.AsuntoRecomendacion, v.Observacion, v.RequiereSeguimiento, v.ID,
	).Scan(&v.Consecutivo, &v.CreatedAt, &v.UpdatedAt)
	return translate(err)
}

func (r *VisitRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM atenciones WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *VisitRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Visit, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visits := []*models.Visit{}
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func scanVisit(row pgx.Row) (*models.Visit, error) {
	var v models.Visit
	var fecha time.Time
	err := row.Scan(&v.ID, &v.Consecutivo, &v.TipoContacto, &fecha, &v.FuncionarioID, &v.AgenciaID,
		&v.ProductorID, &v.Actividad, &v.AreaAtendida, &v.MedioAtencionTipo, &v.MedioAtencionSubtipo,
		&v.AsuntoRecomendacion, &v.Observacion, &v.RequiereSeguimiento, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// DATE columns scan as UTC midnight; the day is meant in the business zone
	v.Fecha = time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, timeutil.Zone())
	return &v, nil
}
