package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueBoletaEmail = "jobs:boleta_email"

	jobBoletaEmail = "boleta_email"

	// MaxJobAttempts before a job is parked in the DLQ.
	MaxJobAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP. A nil Dispatcher, or one built
// without a client, drops jobs silently.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Enabled reports whether jobs are actually queued.
func (d *Dispatcher) Enabled() bool { return d != nil && d.rdb != nil }

// EnqueueBoletaEmail pushes a "mail this receipt" job.
func (d *Dispatcher) EnqueueBoletaEmail(ctx context.Context, payload BoletaEmailPayload) error {
	if !d.Enabled() {
		return nil
	}
	return enqueue(ctx, d.rdb, QueueBoletaEmail, jobBoletaEmail, payload, 0)
}

func enqueue(ctx context.Context, rdb *redis.Client, queue, jobType string, payload interface{}, attempts int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data, Attempts: attempts})
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// JobHandler processes one job payload. A returned error triggers a retry.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// StartWorkerPool launches numWorkers goroutines consuming the email queue.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, emails JobHandler) {
	if rdb == nil {
		log.Warn().Msg("worker pool disabled: no redis client")
		return
	}
	handlers := map[string]JobHandler{jobBoletaEmail: emails}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

// PopRetryDelay is the pause after a BRPOP failure other than a timeout,
// so a worker does not spin while Redis is down.
var PopRetryDelay = 2 * time.Second

func popBackoff(ctx context.Context, err error) time.Duration {
	if err == nil || errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return 0
	}
	return PopRetryDelay
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers map[string]JobHandler) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueBoletaEmail).Result()
			if err != nil {
				if d := popBackoff(ctx, err); d > 0 {
					log.Warn().Err(err).Int("worker", id).Msg("worker: queue unavailable, backing off")
					select {
					case <-ctx.Done():
					case <-time.After(d):
					}
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers map[string]JobHandler, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, rdb, queue, job, "unknown job type")
		return
	}

	job.Attempts++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	if job.Attempts >= MaxJobAttempts {
		SendToDLQ(ctx, rdb, queue, job, fmt.Sprintf("max attempts (%d) exceeded: %s", MaxJobAttempts, err))
		return
	}
	log.Warn().Err(err).
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Msg("job failed, requeueing")
	if err := enqueue(ctx, rdb, queue, job.Type, job.Payload, job.Attempts); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("requeue failed")
	}
}
