package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"atenciones-backend/internal/models"
	"atenciones-backend/internal/textutil"
	"atenciones-backend/internal/timeutil"
)

// Pagination defaults
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// RegionAll disables the region filter
const RegionAll = "all"

// visitQuery is a compiled VisitFilter
type visitQuery struct {
	from, to *time.Time
	region   string
	match    textutil.Matcher
}

// compileFilter validates f. dateTo is widened to the end of its day.
func compileFilter(f models.VisitFilter) (visitQuery, error) {
	q := visitQuery{match: textutil.NewMatcher(f.Search)}

	if s := strings.TrimSpace(f.DateFrom); s != "" {
		d, err := parseDay(s)
		if err != nil {
			return q, fmt.Errorf("%w: dateFrom %q", ErrInvalidInput, f.DateFrom)
		}
		from := timeutil.StartOfDay(d)
		q.from = &from
	}
	if s := strings.TrimSpace(f.DateTo); s != "" {
		d, err := parseDay(s)
		if err != nil {
			return q, fmt.Errorf("%w: dateTo %q", ErrInvalidInput, f.DateTo)
		}
		to := timeutil.EndOfDay(d)
		q.to = &to
	}

	if r := strings.TrimSpace(f.Region); r != "" && !strings.EqualFold(r, RegionAll) {
		q.region = r
	}
	return q, nil
}

// parseDay accepts YYYY-MM-DD or an RFC 3339 timestamp and returns that day
// at midnight in the business zone
func parseDay(s string) (time.Time, error) {
	if d, err := timeutil.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.StartOfDay(t), nil
}

func (q visitQuery) matches(d *models.VisitDetail) bool {
	if q.from != nil && d.Fecha.Before(*q.from) {
		return false
	}
	if q.to != nil && d.Fecha.After(*q.to) {
		return false
	}
	if q.region != "" {
		r := d.Region()
		// region id is canonical; the region name is accepted as well
		if r == nil || (r.ID != q.region && !strings.EqualFold(r.Nombre, q.region)) {
			return false
		}
	}
	if q.match.Empty() {
		return true
	}
	var nombre, cedula string
	if d.Productor != nil {
		nombre, cedula = d.Productor.Nombre, d.Productor.Cedula
	}
	return q.match.Any(nombre, cedula, d.Consecutivo, d.Actividad)
}

// FilterVisits applies f and orders by fecha descending. Input order is kept
// for equal dates, so callers pass visits in insertion order.
func FilterVisits(details []*models.VisitDetail, f models.VisitFilter) ([]*models.VisitDetail, error) {
	q, err := compileFilter(f)
	if err != nil {
		return nil, err
	}

	out := make([]*models.VisitDetail, 0, len(details))
	for _, d := range details {
		if q.matches(d) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Fecha.After(out[j].Fecha)
	})
	return out, nil
}

// ParsePagination reads page/limit query values. Missing, non-numeric or
// non-positive values fall back to the defaults.
func ParsePagination(page, limit string) models.Pagination {
	p, _ := strconv.Atoi(strings.TrimSpace(page))
	l, _ := strconv.Atoi(strings.TrimSpace(limit))
	return NormalizePagination(models.Pagination{Page: p, Limit: l})
}

// NormalizePagination clamps p to valid values
func NormalizePagination(p models.Pagination) models.Pagination {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Paginate cuts one page out of an already filtered and ordered slice
func Paginate(details []*models.VisitDetail, p models.Pagination) models.VisitPage {
	p = NormalizePagination(p)
	total := len(details)

	start := (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}

	data := make([]*models.VisitDetail, end-start)
	copy(data, details[start:end])

	return models.VisitPage{
		Data: data,
		Meta: models.PageMeta{
			Total:      total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: (total + p.Limit - 1) / p.Limit,
		},
	}
}
