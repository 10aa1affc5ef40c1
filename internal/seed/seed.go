// Package seed loads reference data (users, regions, agencies) and sample
// records into a store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"atenciones-backend/internal/auth"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
	"atenciones-backend/internal/timeutil"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultData []byte

type User struct {
	ID        string `yaml:"id"`
	Nombre    string `yaml:"nombre"`
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	Rol       string `yaml:"rol"`
	AgenciaID string `yaml:"agenciaId"`
}

type Visit struct {
	ID                   string `yaml:"id"`
	Consecutivo          string `yaml:"consecutivo"`
	TipoContacto         string `yaml:"tipoContacto"`
	Fecha                string `yaml:"fecha"`
	FuncionarioID        string `yaml:"funcionarioId"`
	AgenciaID            string `yaml:"agenciaId"`
	ProductorID          string `yaml:"productorId"`
	Actividad            string `yaml:"actividad"`
	AreaAtendida         string `yaml:"areaAtendida"`
	MedioAtencionTipo    string `yaml:"medioAtencionTipo"`
	MedioAtencionSubtipo string `yaml:"medioAtencionSubtipo"`
	AsuntoRecomendacion  string `yaml:"asuntoRecomendacion"`
	Observacion          string `yaml:"observacion"`
	RequiereSeguimiento  bool   `yaml:"requiereSeguimiento"`
}

type Producer struct {
	ID       string `yaml:"id"`
	Cedula   string `yaml:"cedula"`
	Nombre   string `yaml:"nombre"`
	Telefono string `yaml:"telefono"`
	Correo   string `yaml:"correo"`
}

type Region struct {
	ID     string `yaml:"id"`
	Nombre string `yaml:"nombre"`
}

type Agency struct {
	ID       string `yaml:"id"`
	Nombre   string `yaml:"nombre"`
	Telefono string `yaml:"telefono"`
	RegionID string `yaml:"regionId"`
}

// Data is the seed file layout
type Data struct {
	Users      []User     `yaml:"users"`
	Regions    []Region   `yaml:"regiones"`
	Agencies   []Agency   `yaml:"agencias"`
	Producers  []Producer `yaml:"productores"`
	Atenciones []Visit    `yaml:"atenciones"`
}

// Result counts inserted and already present records
type Result struct {
	Inserted int
	Skipped  int
}

// Load reads path, or the embedded data set when path is empty
func Load(path string) (*Data, error) {
	raw := defaultData
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}

	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &d, nil
}

// Apply inserts d into store in dependency order. Records whose id or unique
// key already exists are skipped, so seeding twice is harmless.
func Apply(ctx context.Context, store repositories.Store, d *Data, logger *zap.Logger) (Result, error) {
	var res Result
	track := func(kind, id string, err error) error {
		switch {
		case err == nil:
			res.Inserted++
		case errors.Is(err, repositories.ErrDuplicate):
			res.Skipped++
		default:
			return fmt.Errorf("seed %s %s: %w", kind, id, err)
		}
		return nil
	}

	for _, r := range d.Regions {
		if err := track("region", r.ID, store.Regions.Create(ctx, &models.Region{ID: r.ID, Nombre: r.Nombre})); err != nil {
			return res, err
		}
	}
	for _, a := range d.Agencies {
		err := store.Agencies.Create(ctx, &models.Agency{ID: a.ID, Nombre: a.Nombre, Telefono: a.Telefono, RegionID: a.RegionID})
		if err := track("agencia", a.ID, err); err != nil {
			return res, err
		}
	}
	for _, u := range d.Users {
		if !models.ValidRole(u.Rol) {
			return res, fmt.Errorf("seed user %s: unknown rol %q", u.ID, u.Rol)
		}
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return res, err
		}
		err = store.Users.Create(ctx, &models.User{
			ID: u.ID, Nombre: u.Nombre, Email: u.Email, PasswordHash: hash, Rol: u.Rol, AgenciaID: u.AgenciaID,
		})
		if err := track("user", u.ID, err); err != nil {
			return res, err
		}
	}
	for _, p := range d.Producers {
		err := store.Producers.Create(ctx, &models.Producer{
			ID: p.ID, Cedula: p.Cedula, Nombre: p.Nombre, Telefono: p.Telefono, Correo: p.Correo,
		})
		if err := track("productor", p.ID, err); err != nil {
			return res, err
		}
	}
	for _, v := range d.Atenciones {
		fecha, err := timeutil.ParseDate(v.Fecha)
		if err != nil {
			return res, fmt.Errorf("seed atencion %s: fecha %q: %w", v.ID, v.Fecha, err)
		}
		visit := &models.Visit{
			ID:                   v.ID,
			Consecutivo:          v.Consecutivo,
			TipoContacto:         v.TipoContacto,
			Fecha:                fecha,
			FuncionarioID:        v.FuncionarioID,
			AgenciaID:            v.AgenciaID,
			ProductorID:          v.ProductorID,
			Actividad:            v.Actividad,
			AreaAtendida:         v.AreaAtendida,
			MedioAtencionTipo:    v.MedioAtencionTipo,
			MedioAtencionSubtipo: v.MedioAtencionSubtipo,
			AsuntoRecomendacion:  v.AsuntoRecomendacion,
			Observacion:          v.Observacion,
			RequiereSeguimiento:  v.RequiereSeguimiento,
		}
		if err := track("atencion", v.ID, store.Visits.Create(ctx, visit, fecha.Year())); err != nil {
			return res, err
		}
	}

	logger.Info("seed applied", zap.Int("inserted", res.Inserted), zap.Int("skipped", res.Skipped))
	return res, nil
}
