// Package job runs background work on Asynq, a Redis-backed task queue.
//
// Services enqueue through JobService.Notify; the embedded worker server
// picks the task up and delivers it.
package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/miarma/api/internal/config"
	"github.com/rs/zerolog"
)

const webhookTimeout = 10 * time.Second

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client *asynq.Client

	server  *asynq.Server
	logger  *zerolog.Logger
	webhook *WebhookClient
}

// NewJobService creates a JobService configured to use Redis from cfg.
// Queue weights give "critical" tasks the larger share of the ten workers.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client:  client,
		server:  server,
		logger:  logger,
		webhook: NewWebhookClient(cfg.Integration.WebhookURL, webhookTimeout),
	}
}

// Start registers task handlers and starts the worker server in the
// background.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWebhookNotice, j.handleWebhookNotice)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Notify queues a webhook notice. With no webhook configured the notice is
// dropped.
func (j *JobService) Notify(ctx context.Context, content string) error {
	if !j.webhook.Enabled() {
		j.logger.Debug().Msg("webhook not configured, dropping notice")
		return nil
	}

	task, err := NewNoticeTask(content)
	if err != nil {
		return fmt.Errorf("failed to build notice task: %w", err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue notice task: %w", err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("queued webhook notice")
	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}
