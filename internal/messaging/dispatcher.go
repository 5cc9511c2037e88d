package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/campussrc/src-portal/internal"
)

// BroadcastJob is one prepared link handed to the background dispatcher.
type BroadcastJob struct {
	BatchID  string
	Contact  string
	Phone    string
	Link     string
	QueuedBy int64
}

type Worker struct {
	ID         int
	WorkerPool chan chan BroadcastJob
	JobChannel chan BroadcastJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan BroadcastJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan BroadcastJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(BroadcastJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing broadcast job", "worker_id", w.ID, "batch_id", job.BatchID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// BroadcastDispatcher fans prepared links out to a bounded worker pool so
// batch preparation never blocks on downstream work.
type BroadcastDispatcher struct {
	logger *slog.Logger

	jobQueue   chan BroadcastJob
	workerPool chan chan BroadcastJob
	maxWorkers int
	process    func(BroadcastJob)
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

// NewBroadcastDispatcher starts the pool immediately. processFunc may be nil,
// in which case jobs are logged and dropped.
func NewBroadcastDispatcher(cfg internal.MessagingConfig, logger *slog.Logger, processFunc func(BroadcastJob)) *BroadcastDispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := cfg.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 64
	}

	d := &BroadcastDispatcher{
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan BroadcastJob, jobQueueSize),
		workerPool: make(chan chan BroadcastJob, maxWorkers),
		process:    processFunc,
		ctx:        ctx,
		cancel:     cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *BroadcastDispatcher) startWorkerPool() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.processJob)
		}

		// register with the wait group before the goroutine starts so a
		// racing Shutdown cannot pass Wait early
		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("broadcast worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *BroadcastDispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					d.logger.Info("dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("dispatcher shutting down")
			return
		}
	}
}

// Enqueue hands a job to the pool without blocking. A full queue returns an
// error so the caller can surface it in the skip list.
func (d *BroadcastDispatcher) Enqueue(job BroadcastJob) error {
	select {
	case d.jobQueue <- job:
		d.logger.Debug("broadcast job queued",
			"batch_id", job.BatchID,
			"queue_length", len(d.jobQueue))
		return nil
	default:
		return fmt.Errorf("broadcast queue full")
	}
}

func (d *BroadcastDispatcher) processJob(job BroadcastJob) {
	if d.process != nil {
		d.process(job)
		return
	}

	d.logger.Info("broadcast link ready",
		"batch_id", job.BatchID,
		"contact", job.Contact,
		"queued_by", job.QueuedBy)
}

func (d *BroadcastDispatcher) Shutdown() {
	d.logger.Info("shutting down broadcast dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("broadcast dispatcher shutdown complete")
}
