package repositories

import (
	"context"
	"sort"
	"strings"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/textutil"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProducerRepository struct {
	DB *pgxpool.Pool
}

func NewProducerRepository(db *pgxpool.Pool) *ProducerRepository {
	return &ProducerRepository{DB: db}
}

func (r *ProducerRepository) Create(ctx context.Context, p *models.Producer) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO productores(id, cedula, nombre, telefono, correo)
         VALUES(COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, NULLIF($5, ''))
         RETURNING id, created_at, updated_at`,
		p.ID, p.Cedula, p.Nombre, p.Telefono, p.Correo,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate(err)
}

func (r *ProducerRepository) Get(ctx context.Context, id string) (*models.Producer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, cedula, nombre, telefono, COALESCE(correo, ''), created_at, updated_at
         FROM productores WHERE id=$1`, id)

	var p models.Producer
	if err := row.Scan(&p.ID, &p.Cedula, &p.Nombre, &p.Telefono, &p.Correo, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProducerRepository) GetByCedula(ctx context.Context, cedula string) (*models.Producer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, cedula, nombre, telefono, COALESCE(correo, ''), created_at, updated_at
         FROM productores WHERE cedula=$1`, cedula)

	var p models.Producer
	if err := row.Scan(&p.ID, &p.Cedula, &p.Nombre, &p.Telefono, &p.Correo, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Search lists producers matching search in any contact field, with their visit counts
func (r *ProducerRepository) Search(ctx context.Context, search string) ([]*models.ProducerWithCount, error) {
	search = strings.TrimSpace(search)
	rows, err := r.DB.Query(ctx,
		`SELECT p.id, p.cedula, p.nombre, p.telefono, COALESCE(p.correo, ''), p.created_at, p.updated_at,
		        (SELECT COUNT(*) FROM atenciones a WHERE a.productor_id = p.id)
         FROM productores p
         WHERE $1 = ''
            OR p.nombre ILIKE $2 ESCAPE '\'
            OR p.cedula ILIKE $2 ESCAPE '\'
            OR p.telefono ILIKE $2 ESCAPE '\'
            OR p.correo ILIKE $2 ESCAPE '\'
         ORDER BY p.nombre ASC`, search, ContainsPattern(search))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	producers := []*models.ProducerWithCount{}
	for rows.Next() {
		var p models.ProducerWithCount
		err := rows.Scan(&p.ID, &p.Cedula, &p.Nombre, &p.Telefono, &p.Correo, &p.CreatedAt, &p.UpdatedAt,
			&p.TotalAtenciones)
		if err != nil {
			return nil, err
		}
		producers = append(producers, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// collation order differs between servers; match the memory store
	sort.SliceStable(producers, func(i, j int) bool {
		return textutil.Fold(producers[i].Nombre) < textutil.Fold(producers[j].Nombre)
	})
	return producers, nil
}

func (r *ProducerRepository) Update(ctx context.Context, p *models.Producer) error {
	err := r.DB.QueryRow(ctx,
		`UPDATE productores SET cedula=$1, nombre=$2, telefono=$3, correo=NULLIF($4, ''), updated_at=CURRENT_TIMESTAMP
         WHERE id=$5
         RETURNING created_at, updated_at`,
		p.Cedula, p.Nombre, p.Telefono, p.Correo, p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return translate(err)
}

// Delete relies on the ON DELETE RESTRICT foreign key from atenciones
func (r *ProducerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM productores WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
