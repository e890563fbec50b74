package metrics

import (
	"context"
	"os"
	"sync"
	"time"

	"photo-catalog/internal/logging"
)

// Stats holds the catalog figures exported as gauges.
type Stats struct {
	Photos          int
	Paths           int
	MetadataPending int
}

// StatsProvider supplies catalog statistics to the collector.
type StatsProvider interface {
	CollectStats(ctx context.Context) (Stats, error)
}

// StatsProviderFunc adapts a function to StatsProvider.
type StatsProviderFunc func(ctx context.Context) (Stats, error)

// CollectStats calls f(ctx).
func (f StatsProviderFunc) CollectStats(ctx context.Context) (Stats, error) {
	return f(ctx)
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	dbPath        string
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
}

// NewCollector creates a new metrics collector. dbPath may be empty, in which
// case database file sizes are not reported.
func NewCollector(provider StatsProvider, dbPath string, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Collector{
		statsProvider: provider,
		dbPath:        dbPath,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	c.wg.Add(1)
	go c.collectLoop()
}

// Stop stops the metrics collection and waits for the loop to exit.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
	c.wg.Wait()
}

func (c *Collector) collectLoop() {
	defer c.wg.Done()

	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	c.collectFileSizes()

	if c.statsProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.interval)
	defer cancel()

	stats, err := c.statsProvider.CollectStats(ctx)
	if err != nil {
		CollectorErrors.Inc()
		logging.Warn("Failed to collect catalog stats: %v", err)
		return
	}

	CatalogPhotosTotal.Set(float64(stats.Photos))
	CatalogPathsTotal.Set(float64(stats.Paths))
	CatalogMetadataPending.Set(float64(stats.MetadataPending))

	logging.Debug("Metrics collected: photos=%d, paths=%d, metadata_pending=%d",
		stats.Photos, stats.Paths, stats.MetadataPending)
}

func (c *Collector) collectFileSizes() {
	if c.dbPath == "" {
		return
	}

	files := map[string]string{
		"main": c.dbPath,
		"wal":  c.dbPath + "-wal",
		"shm":  c.dbPath + "-shm",
	}
	for label, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			DBSizeBytes.WithLabelValues(label).Set(0)
			continue
		}
		DBSizeBytes.WithLabelValues(label).Set(float64(info.Size()))
	}
}
