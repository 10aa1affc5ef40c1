package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"atenciones-backend/internal/metrics"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
	"atenciones-backend/internal/timeutil"

	"go.uber.org/zap"
)

type VisitService struct {
	Store    repositories.Store
	Resolver *Resolver
	Stats    *StatsService
	logger   *zap.Logger
	// now supplies the year used to number new visits
	now func() time.Time
}

func NewVisitService(store repositories.Store, resolver *Resolver, stats *StatsService, logger *zap.Logger) *VisitService {
	return &VisitService{
		Store:    store,
		Resolver: resolver,
		Stats:    stats,
		logger:   logger,
		now:      timeutil.Now,
	}
}

// CreateVisit records a visit on behalf of caller. The producer is looked up by
// cedula and registered on the fly when unseen; the consecutivo is assigned by the store.
func (s *VisitService) CreateVisit(ctx context.Context, caller models.Caller, req *models.CreateVisitRequest) (*models.Visit, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	fecha, err := validateVisitFields(req)
	if err != nil {
		return nil, err
	}
	tipo, subtipo, err := resolveMedium("", "", req.MedioAtencion)
	if err != nil {
		return nil, err
	}
	if _, err := s.Store.Agencies.Get(ctx, req.AgenciaID); err != nil {
		return nil, fmt.Errorf("agencia %s: %w", req.AgenciaID, err)
	}

	producer, err := s.findOrCreateProducer(ctx, req)
	if err != nil {
		return nil, err
	}

	visit := &models.Visit{
		TipoContacto:         req.TipoContacto,
		Fecha:                fecha,
		FuncionarioID:        caller.ID,
		AgenciaID:            req.AgenciaID,
		ProductorID:          producer.ID,
		Actividad:            strings.TrimSpace(req.Actividad),
		AreaAtendida:         strings.TrimSpace(req.AreaAtendida),
		MedioAtencionTipo:    tipo,
		MedioAtencionSubtipo: subtipo,
		AsuntoRecomendacion:  strings.TrimSpace(req.AsuntoRecomendacion),
		Observacion:          strings.TrimSpace(req.Observacion),
		RequiereSeguimiento:  req.RequiereSeguimiento,
	}

	if err := s.Store.Visits.Create(ctx, visit, s.now().Year()); err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}

	metrics.VisitsCreatedTotal.Inc()
	s.Stats.Invalidate(ctx)
	s.logger.Info("visit created",
		zap.String("id", visit.ID),
		zap.String("consecutivo", visit.Consecutivo),
		zap.String("funcionario", caller.Nombre))
	return visit, nil
}

func (s *VisitService) findOrCreateProducer(ctx context.Context, req *models.CreateVisitRequest) (*models.Producer, error) {
	cedula := strings.TrimSpace(req.CedulaProductor)
	existing, err := s.Store.Producers.GetByCedula(ctx, cedula)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	if strings.TrimSpace(req.NombreProductor) == "" {
		return nil, fmt.Errorf("%w: nombreProductor is required for a new producer", ErrInvalidInput)
	}
	producer := &models.Producer{
		Cedula:   cedula,
		Nombre:   strings.TrimSpace(req.NombreProductor),
		Telefono: strings.TrimSpace(req.TelefonoProductor),
		Correo:   strings.TrimSpace(req.CorreoProductor),
	}
	err = s.Store.Producers.Create(ctx, producer)
	if errors.Is(err, repositories.ErrDuplicate) {
		// registered concurrently by another request
		return s.Store.Producers.GetByCedula(ctx, cedula)
	}
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}

	metrics.ProducersAutoCreatedTotal.Inc()
	s.logger.Info("producer registered from visit", zap.String("cedula", cedula))
	return producer, nil
}

func validateVisitFields(req *models.CreateVisitRequest) (time.Time, error) {
	var missing []string
	for name, v := range map[string]string{
		"cedulaProductor": req.CedulaProductor,
		"fecha":           req.Fecha,
		"agenciaId":       req.AgenciaID,
		"actividad":       req.Actividad,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return time.Time{}, fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if !models.ValidContactType(req.TipoContacto) {
		return time.Time{}, fmt.Errorf("%w: tipoContacto %q", ErrInvalidInput, req.TipoContacto)
	}
	fecha, err := parseDay(strings.TrimSpace(req.Fecha))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q", ErrInvalidInput, req.Fecha)
	}
	return fecha, nil
}

// resolveMedium applies a submitted medium over the current one. A missing
// subtype keeps the current one when the type is unchanged and otherwise falls
// back to the type's default. A subtype foreign to the type is rejected.
func resolveMedium(currentTipo, currentSubtipo string, m models.MedioAtencion) (string, string, error) {
	tipo := strings.TrimSpace(m.Tipo)
	if tipo == "" {
		tipo = currentTipo
	}
	if !models.ValidMedium(tipo) {
		return "", "", fmt.Errorf("%w: medioAtencion.tipo %q", ErrInvalidInput, m.Tipo)
	}

	subtipo := strings.TrimSpace(m.Subtipo)
	switch {
	case models.ValidSubtype(tipo, subtipo):
		return tipo, subtipo, nil
	case subtipo != "":
		return "", "", fmt.Errorf("%w: subtipo %q is not valid for %s", ErrInvalidInput, subtipo, tipo)
	case tipo == currentTipo && models.ValidSubtype(tipo, currentSubtipo):
		return tipo, currentSubtipo, nil
	}
	return tipo, models.DefaultSubtype(tipo), nil
}

// GetVisit returns the denormalized visit
func (s *VisitService) GetVisit(ctx context.Context, id string) (*models.VisitDetail, error) {
	v, err := s.Store.Visits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Resolver.Resolve(ctx, v)
}

// FilteredVisits resolves, filters and orders the whole collection
func (s *VisitService) FilteredVisits(ctx context.Context, filter models.VisitFilter) ([]*models.VisitDetail, error) {
	// validate before touching the store
	if _, err := compileFilter(filter); err != nil {
		return nil, err
	}
	visits, err := s.Store.Visits.List(ctx)
	if err != nil {
		return nil, err
	}
	details, err := s.Resolver.ResolveAll(ctx, visits)
	if err != nil {
		return nil, err
	}
	return FilterVisits(details, filter)
}

// ListVisits returns one page of filtered visits, newest first
func (s *VisitService) ListVisits(ctx context.Context, filter models.VisitFilter, page models.Pagination) (*models.VisitPage, error) {
	details, err := s.FilteredVisits(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := Paginate(details, page)
	return &result, nil
}

// UpdateVisit applies a partial update. Consecutivo and officer never change.
func (s *VisitService) UpdateVisit(ctx context.Context, caller models.Caller, id string, req *models.UpdateVisitRequest) (*models.VisitDetail, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	v, err := s.Store.Visits.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TipoContacto != nil {
		if !models.ValidContactType(*req.TipoContacto) {
			return nil, fmt.Errorf("%w: tipoContacto %q", ErrInvalidInput, *req.TipoContacto)
		}
		v.TipoContacto = *req.TipoContacto
	}
	if req.Fecha != nil {
		fecha, err := parseDay(strings.TrimSpace(*req.Fecha))
		if err != nil {
			return nil, fmt.Errorf("%w: fecha %q", ErrInvalidInput, *req.Fecha)
		}
		v.Fecha = fecha
	}
	if req.AgenciaID != nil {
		if _, err := s.Store.Agencies.Get(ctx, *req.AgenciaID); err != nil {
			return nil, fmt.Errorf("agencia %s: %w", *req.AgenciaID, err)
		}
		v.AgenciaID = *req.AgenciaID
	}
	if req.ProductorID != nil {
		if _, err := s.Store.Producers.Get(ctx, *req.ProductorID); err != nil {
			return nil, fmt.Errorf("productor %s: %w", *req.ProductorID, err)
		}
		v.ProductorID = *req.ProductorID
	}
	if req.Actividad != nil {
		if strings.TrimSpace(*req.Actividad) == "" {
			return nil, fmt.Errorf("%w: actividad cannot be empty", ErrInvalidInput)
		}
		v.Actividad = strings.TrimSpace(*req.Actividad)
	}
	if req.AreaAtendida != nil {
		v.AreaAtendida = strings.TrimSpace(*req.AreaAtendida)
	}
	if req.MedioAtencion != nil {
		tipo, subtipo, err := resolveMedium(v.MedioAtencionTipo, v.MedioAtencionSubtipo, *req.MedioAtencion)
		if err != nil {
			return nil, err
		}
		v.MedioAtencionTipo, v.MedioAtencionSubtipo = tipo, subtipo
	}
	if req.AsuntoRecomendacion != nil {
		v.AsuntoRecomendacion = strings.TrimSpace(*req.AsuntoRecomendacion)
	}
	if req.Observacion != nil {
		v.Observacion = strings.TrimSpace(*req.Observacion)
	}
	if req.RequiereSeguimiento != nil {
		v.RequiereSeguimiento = *req.RequiereSeguimiento
	}

	if err := s.Store.Visits.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update visit: %w", err)
	}

	s.Stats.Invalidate(ctx)
	s.logger.Info("visit updated", zap.String("id", v.ID), zap.String("by", caller.ID))
	return s.Resolver.Resolve(ctx, v)
}

// DeleteVisit removes a visit; visits carry no referential guard
func (s *VisitService) DeleteVisit(ctx context.Context, caller models.Caller, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	if err := s.Store.Visits.Delete(ctx, id); err != nil {
		return err
	}

	s.Stats.Invalidate(ctx)
	s.logger.Info("visit deleted", zap.String("id", id), zap.String("by", caller.ID))
	return nil
}
