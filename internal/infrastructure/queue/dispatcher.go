package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/cloudscope/console-api/internal/api/metrics"
	"github.com/cloudscope/console-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher routes report jobs to a fixed set of workers using consistent
// hashing on the account ID, so reports for one account generate in order.
type Dispatcher struct {
	workers []chan ports.ReportJob
	service ports.ReportService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ReportService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ReportJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ReportJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its account.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.ReportJob) {
	i := d.shardIndex(job.AccountID)
	d.workers[i] <- job
	metrics.ReportQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps an account ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(accountID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(accountID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ReportJob) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.ReportQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))

			started := time.Now()
			status := "completed"
			if err := d.service.Process(ctx, job); err != nil {
				status = "failed"
				d.log.Error().Err(err).
					Str("report_id", job.ReportID).
					Str("account_id", job.AccountID).
					Int("worker_id", id).
					Msg("report generation failed")
			}
			metrics.ReportGenerationDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
		}
	}
}
