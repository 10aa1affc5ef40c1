package services

import (
	"context"
	"sync"
	"time"

	"atenciones-backend/internal/metrics"
	"atenciones-backend/internal/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DefaultCollectInterval is how often record counts are sampled
const DefaultCollectInterval = 30 * time.Second

// MetricsCollector samples record counts and pool usage into Prometheus gauges
type MetricsCollector struct {
	store           repositories.Store
	pool            *pgxpool.Pool
	logger          *zap.Logger
	collectInterval time.Duration
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

// NewMetricsCollector creates a collector; pool is nil for the memory store
func NewMetricsCollector(store repositories.Store, pool *pgxpool.Pool, logger *zap.Logger, interval time.Duration) *MetricsCollector {
	if interval <= 0 {
		interval = DefaultCollectInterval
	}
	return &MetricsCollector{
		store:           store,
		pool:            pool,
		logger:          logger,
		collectInterval: interval,
		stopChan:        make(chan struct{}),
	}
}

// Start collects once and then on every tick until Stop
func (c *MetricsCollector) Start() {
	c.logger.Info("Starting metrics collector", zap.Duration("interval", c.collectInterval))

	c.collectAll()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.collectInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.collectAll()
			case <-c.stopChan:
				c.logger.Info("Stopping metrics collector")
				return
			}
		}
	}()
}

// Stop stops the collection loop and waits for it to exit
func (c *MetricsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}

func (c *MetricsCollector) collectAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.collectRecords(ctx); err != nil {
		c.logger.Warn("Failed to sample record counts", zap.Error(err))
	}
	c.collectPool()
}

func (c *MetricsCollector) collectRecords(ctx context.Context) error {
	visits, err := c.store.Visits.List(ctx)
	if err != nil {
		return err
	}
	producers, err := c.store.Producers.Search(ctx, "")
	if err != nil {
		return err
	}
	agencies, err := c.store.Agencies.List(ctx)
	if err != nil {
		return err
	}

	metrics.RecordsTotal.WithLabelValues("atenciones").Set(float64(len(visits)))
	metrics.RecordsTotal.WithLabelValues("productores").Set(float64(len(producers)))
	metrics.RecordsTotal.WithLabelValues("agencias").Set(float64(len(agencies)))
	return nil
}

func (c *MetricsCollector) collectPool() {
	if c.pool == nil {
		return
	}
	stat := c.pool.Stat()
	metrics.DBConnections.WithLabelValues("acquired").Set(float64(stat.AcquiredConns()))
	metrics.DBConnections.WithLabelValues("idle").Set(float64(stat.IdleConns()))
	metrics.DBConnections.WithLabelValues("total").Set(float64(stat.TotalConns()))
}
