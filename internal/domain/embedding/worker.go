package embedding

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"imagesim/internal/infrastructure/metrics"
)

// Job carries everything a worker needs to compute and cache one vector.
// Data holds the uploaded bytes so the worker does not have to round-trip
// through the object store for an image that was just in memory.
type Job struct {
	ImageID  uint
	CacheKey string
	Data     []byte
}

// Worker computes embeddings for freshly uploaded images off the request
// path. Jobs are fire-and-forget: the uploader never learns about a failed
// computation, it only shows up in logs and metrics, and the vector gets
// computed again on the next similarity query that needs it.
type Worker struct {
	jobs     chan Job
	wg       sync.WaitGroup
	resolver *Resolver
	log      zerolog.Logger
	once     sync.Once
}

func NewWorker(resolver *Resolver, workers, queueCap int, log zerolog.Logger) *Worker {
	if workers <= 0 {
		workers = 1
	}
	if queueCap <= 0 {
		queueCap = 100
	}

	w := &Worker{
		jobs:     make(chan Job, queueCap),
		resolver: resolver,
		log:      log.With().Str("component", "embedding-worker").Logger(),
	}

	for i := 0; i < workers; i++ {
		w.wg.Add(1)
		go w.run(i)
	}

	return w
}

// Enqueue hands a job to the pool without blocking the caller. A full queue
// drops the job; the vector will be computed lazily on first use instead.
func (w *Worker) Enqueue(job Job) {
	select {
	case w.jobs <- job:
	default:
		metrics.BackgroundJobsDroppedTotal.Inc()
		w.log.Warn().Uint("image_id", job.ImageID).Msg("embedding queue full, dropping job")
	}
}

func (w *Worker) run(id int) {
	defer w.wg.Done()

	for job := range w.jobs {
		// Jobs run detached from any request, so they get a fresh context.
		if _, err := w.resolver.ComputeAndCache(context.Background(), job.CacheKey, job.Data); err != nil {
			metrics.BackgroundJobFailuresTotal.Inc()
			w.log.Error().Err(err).Int("worker", id).Uint("image_id", job.ImageID).Msg("background embedding failed")
			continue
		}
		w.log.Debug().Int("worker", id).Uint("image_id", job.ImageID).Msg("embedding cached")
	}
}

// Shutdown stops accepting jobs and waits for in-flight ones to finish.
func (w *Worker) Shutdown() {
	w.once.Do(func() {
		close(w.jobs)
		w.wg.Wait()
	})
}
