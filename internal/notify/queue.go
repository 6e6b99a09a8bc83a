package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abduqodir7007/fitness-crm/internal/clock"
	"github.com/Abduqodir7007/fitness-crm/internal/logger"
	"github.com/Abduqodir7007/fitness-crm/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	QueueKey       = "reminders"
	FailedQueueKey = "reminders:failed"
	MaxTries       = 3

	popTimeout        = 2 * time.Second
	defaultRetryDelay = 5 * time.Second
)

// Reminder is one queued "subscription ends soon" message.
type Reminder struct {
	TenantID  uuid.UUID `json:"gym_id"`
	UserID    uuid.UUID `json:"user_id"`
	Phone     string    `json:"phone"`
	FirstName string    `json:"first_name"`
	EndDate   time.Time `json:"end_date"`
	DaysLeft  int       `json:"days_left"`
	Tries     int       `json:"tries"`
	Created   time.Time `json:"created"`
}

type Queue struct {
	redis      *redis.Client
	sender     Sender
	clock      clock.Clock
	retryDelay time.Duration
}

func NewQueue(client *redis.Client, sender Sender, clk clock.Clock) *Queue {
	return &Queue{
		redis:      client,
		sender:     sender,
		clock:      clk,
		retryDelay: defaultRetryDelay,
	}
}

func (q *Queue) Enqueue(ctx context.Context, r Reminder) error {
	r.Tries = 0
	r.Created = q.clock.Now()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reminder: %w", err)
	}

	n, err := q.redis.LPush(ctx, QueueKey, string(data)).Result()
	if err != nil {
		logger.WithError(err).Error("failed to queue reminder", "user_id", r.UserID, "gym_id", r.TenantID)
		return fmt.Errorf("queue reminder: %w", err)
	}
	metrics.ReminderQueueLength.Set(float64(n))

	logger.Debug("reminder queued", "user_id", r.UserID, "gym_id", r.TenantID, "days_left", r.DaysLeft)
	return nil
}

// Start consumes the queue until ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	logger.Info("reminder worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("reminder worker stopped")
			return
		default:
			q.processNext(ctx)
		}
	}
}

func (q *Queue) processNext(ctx context.Context) {
	result, err := q.redis.BRPop(ctx, popTimeout, QueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.WithError(err).Warn("reminder queue read failed")
			sleep(ctx, popTimeout)
		}
		return
	}

	var job Reminder
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.WithError(err).Error("bad reminder payload")
		return
	}

	job.Tries++
	if err := q.sender.Send(ctx, job.Phone, ReminderBody(job)); err != nil {
		logger.WithError(err).Warn("reminder delivery failed", "user_id", job.UserID, "attempt", job.Tries)

		if job.Tries < MaxTries {
			metrics.RecordReminder("retry")
			sleep(ctx, q.retryDelay)
			data, _ := json.Marshal(job)
			if err := q.redis.LPush(context.WithoutCancel(ctx), QueueKey, string(data)).Err(); err != nil {
				logger.WithError(err).Error("failed to requeue reminder", "user_id", job.UserID)
			}
			return
		}

		metrics.RecordReminder("failed")
		q.saveFailed(ctx, job, err)
		return
	}

	metrics.RecordReminder("sent")
	logger.Info("reminder sent", "user_id", job.UserID, "gym_id", job.TenantID)
}

func (q *Queue) saveFailed(ctx context.Context, job Reminder, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  q.clock.Now(),
	}
	data, _ := json.Marshal(failed)
	if err := q.redis.LPush(context.WithoutCancel(ctx), FailedQueueKey, string(data)).Err(); err != nil {
		logger.WithError(err).Error("failed to store failed reminder", "user_id", job.UserID)
		return
	}
	logger.Error("reminder moved to failed queue", "user_id", job.UserID, "tries", job.Tries)
}

func (q *Queue) QueueLength(ctx context.Context) int64 {
	length, _ := q.redis.LLen(ctx, QueueKey).Result()
	metrics.ReminderQueueLength.Set(float64(length))
	return length
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
