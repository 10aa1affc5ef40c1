package repositories

import (
	"context"

	"atenciones-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Rol == "" {
		u.Rol = models.RoleConsulta // Default role
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(id, nombre, email, password_hash, rol, agencia_id)
         VALUES(COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3, $4, $5, NULLIF($6, ''))
         RETURNING id`,
		u.ID, u.Nombre, u.Email, u.PasswordHash, u.Rol, u.AgenciaID,
	).Scan(&u.ID)
	return translate(err)
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, nombre, email, password_hash, rol, COALESCE(agencia_id, '')
         FROM users WHERE id=$1`, id)

	var user models.User
	err := row.Scan(&user.ID, &user.Nombre, &user.Email, &user.PasswordHash, &user.Rol, &user.AgenciaID)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, nombre, email, password_hash, rol, COALESCE(agencia_id, '')
         FROM users WHERE lower(email)=lower($1)`, email)

	var user models.User
	err := row.Scan(&user.ID, &user.Nombre, &user.Email, &user.PasswordHash, &user.Rol, &user.AgenciaID)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List returns all users
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, nombre, email, rol, COALESCE(agencia_id, '')
         FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Nombre, &user.Email, &user.Rol, &user.AgenciaID); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
