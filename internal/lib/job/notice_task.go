package job

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
)

// TaskWebhookNotice is the job type of a community webhook notice.
const TaskWebhookNotice = "webhook:notice"

// NoticePayload is the body posted to the webhook. Discord-compatible
// endpoints render Content as the message text.
type NoticePayload struct {
	Content string `json:"content"`
}

// NewNoticeTask builds a notice task on the default queue. Delivery is
// retried three times before the task is archived.
func NewNoticeTask(content string) (*asynq.Task, error) {
	payload, err := json.Marshal(NoticePayload{Content: content})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskWebhookNotice,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
