package services

import (
	"context"
	"errors"
	"fmt"

	"atenciones-backend/internal/archive"
	"atenciones-backend/internal/export"
	"atenciones-backend/internal/metrics"
	"atenciones-backend/internal/models"
	"atenciones-backend/internal/timeutil"

	"go.uber.org/zap"
)

// ExportRequest is the body of POST /api/exportar
type ExportRequest struct {
	Fields  export.FieldMask   `json:"fields"`
	Filters models.VisitFilter `json:"filters"`
	Format  string             `json:"format"`
}

type ExportService struct {
	Visits   *VisitService
	Archiver archive.Archiver
	logger   *zap.Logger
}

func NewExportService(visits *VisitService, archiver archive.Archiver, logger *zap.Logger) *ExportService {
	if archiver == nil {
		archiver = archive.Nop{}
	}
	return &ExportService{Visits: visits, Archiver: archiver, logger: logger}
}

// ExportVisits renders every visit matching the filters. There is no
// pagination; the whole filtered set goes into one file.
func (s *ExportService) ExportVisits(ctx context.Context, caller models.Caller, req ExportRequest) (*export.File, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Fields.Empty() {
		return nil, fmt.Errorf("%w: select at least one field", ErrInvalidInput)
	}

	visits, err := s.Visits.FilteredVisits(ctx, req.Filters)
	if err != nil {
		return nil, err
	}

	file, err := export.Serialize(visits, req.Fields, format, timeutil.Now())
	if err != nil {
		outcome := "error"
		if errors.Is(err, export.ErrUnsupportedFormat) {
			outcome = "unsupported"
		}
		metrics.ExportsTotal.WithLabelValues(format.String(), outcome).Inc()
		return nil, err
	}
	metrics.ExportsTotal.WithLabelValues(format.String(), "ok").Inc()

	if key, err := s.Archiver.Store(ctx, file.Filename, file.ContentType, file.Content); err != nil {
		// the download still succeeds
		s.logger.Warn("export archive failed", zap.String("file", file.Filename), zap.Error(err))
	} else if key != "" {
		s.logger.Info("export archived", zap.String("key", key))
	}

	s.logger.Info("visits exported",
		zap.String("format", format.String()),
		zap.Int("rows", len(visits)),
		zap.String("by", caller.ID))
	return file, nil
}
