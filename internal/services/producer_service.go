package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"

	"go.uber.org/zap"
)

type ProducerService struct {
	Store    repositories.Store
	Resolver *Resolver
	Stats    *StatsService
	logger   *zap.Logger
}

func NewProducerService(store repositories.Store, resolver *Resolver, stats *StatsService, logger *zap.Logger) *ProducerService {
	return &ProducerService{Store: store, Resolver: resolver, Stats: stats, logger: logger}
}

// ListProducers returns producers ordered by nombre with their visit counts
func (s *ProducerService) ListProducers(ctx context.Context, search string) ([]*models.ProducerWithCount, error) {
	return s.Store.Producers.Search(ctx, strings.TrimSpace(search))
}

func (s *ProducerService) CreateProducer(ctx context.Context, caller models.Caller, req *models.CreateProducerRequest) (*models.Producer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	p := &models.Producer{
		Cedula:   strings.TrimSpace(req.Cedula),
		Nombre:   strings.TrimSpace(req.Nombre),
		Telefono: strings.TrimSpace(req.Telefono),
		Correo:   strings.TrimSpace(req.Correo),
	}
	if p.Cedula == "" || p.Nombre == "" {
		return nil, fmt.Errorf("%w: cedula and nombre are required", ErrInvalidInput)
	}

	if err := s.Store.Producers.Create(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: cedula %s already registered", ErrConflict, p.Cedula)
		}
		return nil, fmt.Errorf("create producer: %w", err)
	}

	s.logger.Info("producer created", zap.String("id", p.ID), zap.String("cedula", p.Cedula))
	return p, nil
}

// GetProducer returns the producer with its visit history, newest first
func (s *ProducerService) GetProducer(ctx context.Context, id string) (*models.ProducerDetail, error) {
	p, err := s.Store.Producers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withHistory(ctx, p)
}

// GetProducerByCedula is used by the visit form to prefill producer fields
func (s *ProducerService) GetProducerByCedula(ctx context.Context, cedula string) (*models.Producer, error) {
	return s.Store.Producers.GetByCedula(ctx, strings.TrimSpace(cedula))
}

func (s *ProducerService) withHistory(ctx context.Context, p *models.Producer) (*models.ProducerDetail, error) {
	visits, err := s.Store.Visits.ListByProducer(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	details, err := s.Resolver.ResolveAll(ctx, visits)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Fecha.After(details[j].Fecha)
	})
	return &models.ProducerDetail{Producer: *p, Atenciones: details}, nil
}

func (s *ProducerService) UpdateProducer(ctx context.Context, caller models.Caller, id string, req *models.UpdateProducerRequest) (*models.Producer, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	p, err := s.Store.Producers.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Cedula != nil {
		cedula := strings.TrimSpace(*req.Cedula)
		if cedula == "" {
			return nil, fmt.Errorf("%w: cedula cannot be empty", ErrInvalidInput)
		}
		if cedula != p.Cedula {
			other, err := s.Store.Producers.GetByCedula(ctx, cedula)
			if err == nil && other.ID != p.ID {
				return nil, fmt.Errorf("%w: cedula %s already registered", ErrConflict, cedula)
			}
			if err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
		}
		p.Cedula = cedula
	}
	if req.Nombre != nil {
		nombre := strings.TrimSpace(*req.Nombre)
		if nombre == "" {
			return nil, fmt.Errorf("%w: nombre cannot be empty", ErrInvalidInput)
		}
		p.Nombre = nombre
	}
	if req.Telefono != nil {
		p.Telefono = strings.TrimSpace(*req.Telefono)
	}
	if req.Correo != nil {
		p.Correo = strings.TrimSpace(*req.Correo)
	}

	if err := s.Store.Producers.Update(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("%w: cedula %s already registered", ErrConflict, p.Cedula)
		}
		return nil, fmt.Errorf("update producer: %w", err)
	}

	s.logger.Info("producer updated", zap.String("id", p.ID), zap.String("by", caller.ID))
	return p, nil
}

// DeleteProducer refuses while any visit still references the producer
func (s *ProducerService) DeleteProducer(ctx context.Context, caller models.Caller, id string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	if _, err := s.Store.Producers.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.Store.Visits.CountByProducer(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: producer has %d visits", ErrReferentialIntegrity, n)
	}

	if err := s.Store.Producers.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrReferenced) {
			return fmt.Errorf("%w: producer has visits", ErrReferentialIntegrity)
		}
		return err
	}

	s.Stats.Invalidate(ctx)
	s.logger.Info("producer deleted", zap.String("id", id), zap.String("by", caller.ID))
	return nil
}
