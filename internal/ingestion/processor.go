package ingestion

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"msme-logistics/pkg/geo"
)

// LocationTracker applies a driver's GPS fix to that driver's active
// deliveries. Implemented by the delivery usecase service.
type LocationTracker interface {
	RecordDriverLocation(ctx context.Context, driverID uuid.UUID, location geo.Point, at time.Time) (int, error)
}

// ProcessorConfig tunes the ingestion worker pool.
type ProcessorConfig struct {
	Workers    int
	BufferSize int
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Workers:    4,
		BufferSize: 1024,
	}
}

// Processor fans driver pings out to a worker pool so a slow database
// write never blocks the MQTT receive path.
type Processor struct {
	cfg     ProcessorConfig
	tracker LocationTracker
	logger  *zap.Logger

	pings chan DriverPing

	dropped   atomic.Int64
	processed atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewProcessor(cfg ProcessorConfig, tracker LocationTracker, logger *zap.Logger) *Processor {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultProcessorConfig().Workers
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultProcessorConfig().BufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		cfg:     cfg,
		tracker: tracker,
		logger:  logger,
		pings:   make(chan DriverPing, cfg.BufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker pool.
func (p *Processor) Start() {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("location processor started",
		zap.Int("workers", p.cfg.Workers),
		zap.Int("buffer_size", p.cfg.BufferSize))
}

// Stop drains in-flight work and shuts the pool down.
func (p *Processor) Stop() {
	close(p.pings)
	p.wg.Wait()
	p.cancel()
	p.logger.Info("location processor stopped",
		zap.Int64("processed", p.processed.Load()),
		zap.Int64("dropped", p.dropped.Load()))
}

// Enqueue hands a ping to the pool. Pings are dropped rather than queued
// unboundedly when the buffer is full; the next fix supersedes them anyway.
func (p *Processor) Enqueue(ping DriverPing) {
	select {
	case p.pings <- ping:
	default:
		if p.dropped.Add(1)%100 == 1 {
			p.logger.Warn("ping buffer full, dropping",
				zap.String("driver_id", ping.DriverID.String()),
				zap.Int64("dropped_total", p.dropped.Load()))
		}
	}
}

// Dropped reports how many pings were discarded due to backpressure.
func (p *Processor) Dropped() int64 {
	return p.dropped.Load()
}

// Processed reports how many pings were applied.
func (p *Processor) Processed() int64 {
	return p.processed.Load()
}

func (p *Processor) worker(id int) {
	defer p.wg.Done()

	for ping := range p.pings {
		ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
		applied, err := p.tracker.RecordDriverLocation(ctx, ping.DriverID, ping.Location, ping.ReceivedAt)
		cancel()

		if err != nil {
			p.logger.Warn("failed to record driver location",
				zap.Int("worker", id),
				zap.String("driver_id", ping.DriverID.String()),
				zap.Error(err))
			continue
		}
		p.processed.Add(1)
		if applied == 0 {
			p.logger.Debug("ping for driver with no active delivery",
				zap.String("driver_id", ping.DriverID.String()))
		}
	}
}
