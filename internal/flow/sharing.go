package flow

import (
	"context"
	"time"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/ports"
)

const (
	shareQueueSize = 256
	shareTimeout   = 5 * time.Second
)

// shareJob is either one position sample or the stop of a route's sharing.
type shareJob struct {
	ctx     context.Context
	routeID string
	pos     domain.Coordinates
	at      time.Time
	stop    bool
}

// shareWorker hands jobs to the sharer from a single goroutine, so samples
// and the final stop reach it in the order the controller accepted them.
type shareWorker struct {
	sharer ports.LocationSharer
	log    *logger.Logger
	jobs   chan shareJob
	done   chan struct{}
}

func newShareWorker(sharer ports.LocationSharer, log *logger.Logger) *shareWorker {
	w := &shareWorker{
		sharer: sharer,
		log:    log,
		jobs:   make(chan shareJob, shareQueueSize),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *shareWorker) run() {
	defer close(w.done)
	for job := range w.jobs {
		w.handle(job)
	}
}

// Failures are logged and never affect the route.
func (w *shareWorker) handle(job shareJob) {
	ctx, cancel := context.WithTimeout(job.ctx, shareTimeout)
	defer cancel()
	logCtx := w.log.WithField(job.ctx, "route_id", job.routeID)
	if job.stop {
		if err := w.sharer.StopSharing(ctx, job.routeID); err != nil {
			w.log.Error(logCtx, "location sharing stop failed", err)
		}
		return
	}
	if err := w.sharer.SharePosition(ctx, job.routeID, job.pos, job.at); err != nil {
		w.log.Error(logCtx, "location sharing failed", err)
	}
}

// enqueue must be called with the controller lock held. A full queue drops
// position samples but waits for room for a stop.
func (w *shareWorker) enqueue(ctx context.Context, job shareJob) {
	job.ctx = context.WithoutCancel(ctx)
	if job.stop {
		w.jobs <- job
		return
	}
	select {
	case w.jobs <- job:
	default:
		w.log.Warn(w.log.WithField(ctx, "route_id", job.routeID), "location sharing queue full, sample dropped")
	}
}

// close stops accepting jobs and waits until the queued ones are handled.
func (w *shareWorker) close() {
	close(w.jobs)
	<-w.done
}
