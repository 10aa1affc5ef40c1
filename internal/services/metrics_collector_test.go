package services

import (
	"testing"
	"time"

	"atenciones-backend/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetricsCollectorSamplesRecordCounts(t *testing.T) {
	f := newFixture(t)
	f.create(t, visitRequest("101230456", "2024-05-01"))
	f.create(t, visitRequest("203450678", "2024-05-02"))
	f.create(t, visitRequest("203450678", "2024-05-03"))

	c := NewMetricsCollector(f.store, nil, zap.NewNop(), time.Hour)
	c.Start()
	c.Stop()

	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.RecordsTotal.WithLabelValues("atenciones")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.RecordsTotal.WithLabelValues("productores")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.RecordsTotal.WithLabelValues("agencias")))
}
