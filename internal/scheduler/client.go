package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales_crm_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const (
	defaultQueue       = "default"
	reconcileMaxRetry  = 8
	reminderMaxRetry   = 3
	reminderRetention  = 24 * time.Hour
	reconcileRetention = time.Hour
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleStageReconcile queues an immediate retry of a call's client patch.
func (c *Client) ScheduleStageReconcile(ctx context.Context, callLogID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewReconcileStageTask(ReconcileStagePayload{CallLogID: callLogID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(reconcileMaxRetry),
		asynq.Retention(reconcileRetention),
	)
	return err
}

// ScheduleFollowUpReminder queues a reminder email for runAt. Scheduling the
// same call and due time twice is a no-op.
func (c *Client) ScheduleFollowUpReminder(ctx context.Context, callLogID, agentID uuid.UUID, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewFollowUpReminderTask(FollowUpReminderPayload{
		CallLogID: callLogID.String(),
		AgentID:   agentID.String(),
		DueAt:     runAt.UTC(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(runAt),
		asynq.Queue(c.queue),
		asynq.MaxRetry(reminderMaxRetry),
		asynq.TaskID(reminderTaskID(callLogID, runAt)),
		asynq.Retention(reminderRetention),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func reminderTaskID(callLogID uuid.UUID, runAt time.Time) string {
	return fmt.Sprintf("followup:%s:%d", callLogID, runAt.Unix())
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetSchedulerQueue(); queue != "" {
		return queue
	}
	return defaultQueue
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
