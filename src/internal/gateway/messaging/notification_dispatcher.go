package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kotidham-service/src/internal/model"
	"kotidham-service/src/pkg/log"
	"kotidham-service/src/pkg/utils"

	"github.com/hibiken/asynq"
)

const TypeNotificationSend = "notification:send"

// TaskEnqueuer is implemented by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type NotificationDispatcher struct {
	Client   TaskEnqueuer
	Queue    string
	MaxRetry int
	Log      log.Log
}

func NewNotificationDispatcher(client TaskEnqueuer, queue string, maxRetry int, log log.Log) *NotificationDispatcher {
	return &NotificationDispatcher{
		Client:   client,
		Queue:    queue,
		MaxRetry: maxRetry,
		Log:      log,
	}
}

func NewNotificationTask(event model.NotificationEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotificationSend, payload), nil
}

// Dispatch enqueues a notification. Failures are logged and never returned to the caller.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, event model.NotificationEvent) {
	if d == nil || d.Client == nil {
		return
	}

	task, err := NewNotificationTask(event)
	if err != nil {
		d.Log.Error("notification-dispatcher", "failed to build task", "Dispatch", err.Error())
		return
	}

	// the request may finish before redis answers
	enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()

	info, err := d.Client.EnqueueContext(enqueueCtx, task,
		asynq.Queue(d.Queue),
		asynq.MaxRetry(d.MaxRetry),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		d.Log.Error("notification-dispatcher", fmt.Sprintf("failed to enqueue %s notification for %s %d", event.Event, event.Kind, event.ID), "Dispatch", utils.ConvertString(err))
		return
	}
	d.Log.Info("notification-dispatcher", "notification enqueued", "Dispatch", info.ID)
}
