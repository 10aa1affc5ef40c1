package services

import (
	"context"
	"errors"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/repositories"
)

// Resolver denormalizes visits by following their foreign keys
type Resolver struct {
	Store repositories.Store
}

func NewResolver(store repositories.Store) *Resolver {
	return &Resolver{Store: store}
}

// lookup holds the reference sets keyed by id
type lookup struct {
	producers map[string]*models.Producer
	agencies  map[string]*models.Agency
	regions   map[string]*models.Region
	officers  map[string]*models.Officer
}

func (r *Resolver) loadLookup(ctx context.Context) (*lookup, error) {
	producers, err := r.Store.Producers.Search(ctx, "")
	if err != nil {
		return nil, err
	}
	agencies, err := r.Store.Agencies.List(ctx)
	if err != nil {
		return nil, err
	}
	regions, err := r.Store.Regions.List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := r.Store.Users.List(ctx)
	if err != nil {
		return nil, err
	}

	l := &lookup{
		producers: make(map[string]*models.Producer, len(producers)),
		agencies:  make(map[string]*models.Agency, len(agencies)),
		regions:   make(map[string]*models.Region, len(regions)),
		officers:  make(map[string]*models.Officer, len(users)),
	}
	for _, p := range producers {
		prod := p.Producer
		l.producers[p.ID] = &prod
	}
	for _, a := range agencies {
		l.agencies[a.ID] = a
	}
	for _, reg := range regions {
		l.regions[reg.ID] = reg
	}
	for _, u := range users {
		l.officers[u.ID] = officerOf(u)
	}
	return l, nil
}

func (l *lookup) resolve(v *models.Visit) *models.VisitDetail {
	d := &models.VisitDetail{
		Visit:       *v,
		Productor:   l.producers[v.ProductorID],
		Funcionario: l.officers[v.FuncionarioID],
	}
	if a, ok := l.agencies[v.AgenciaID]; ok {
		d.Agencia = &models.AgencyWithRegion{Agency: *a, Region: l.regions[a.RegionID]}
	}
	return d
}

// ResolveAll resolves a slice against one snapshot of the reference sets
func (r *Resolver) ResolveAll(ctx context.Context, visits []*models.Visit) ([]*models.VisitDetail, error) {
	l, err := r.loadLookup(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]*models.VisitDetail, 0, len(visits))
	for _, v := range visits {
		details = append(details, l.resolve(v))
	}
	return details, nil
}

// Resolve follows each relation of one visit; relations that do not resolve stay nil
func (r *Resolver) Resolve(ctx context.Context, v *models.Visit) (*models.VisitDetail, error) {
	d := &models.VisitDetail{Visit: *v}

	p, err := r.Store.Producers.Get(ctx, v.ProductorID)
	if err := ignoreNotFound(err); err != nil {
		return nil, err
	}
	d.Productor = p

	a, err := r.Store.Agencies.Get(ctx, v.AgenciaID)
	if err := ignoreNotFound(err); err != nil {
		return nil, err
	}
	if a != nil {
		region, err := r.Store.Regions.Get(ctx, a.RegionID)
		if err := ignoreNotFound(err); err != nil {
			return nil, err
		}
		d.Agencia = &models.AgencyWithRegion{Agency: *a, Region: region}
	}

	u, err := r.Store.Users.Get(ctx, v.FuncionarioID)
	if err := ignoreNotFound(err); err != nil {
		return nil, err
	}
	if u != nil {
		d.Funcionario = officerOf(u)
	}
	return d, nil
}

func officerOf(u *models.User) *models.Officer {
	return &models.Officer{ID: u.ID, Nombre: u.Nombre, Email: u.Email}
}

func ignoreNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}
