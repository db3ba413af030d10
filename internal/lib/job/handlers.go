package job

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
)

// handleWebhookNotice delivers one queued notice. A payload that cannot be
// decoded is never retried.
func (j *JobService) handleWebhookNotice(ctx context.Context, t *asynq.Task) error {
	var p NoticePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal webhook notice payload: %v: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskWebhookNotice).
		Msg("Processing webhook notice task")

	if err := j.webhook.Send(ctx, p.Content); err != nil {
		j.logger.Error().
			Str("type", TaskWebhookNotice).
			Err(err).
			Msg("Failed to deliver webhook notice")
		return err
	}

	j.logger.Info().
		Str("type", TaskWebhookNotice).
		Msg("Delivered webhook notice")
	return nil
}
