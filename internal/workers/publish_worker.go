package workers

import (
	"context"
	"errors"
	"time"

	postEntity "mediamgr/internal/core/post"
	schedulePort "mediamgr/internal/ports/schedule"

	"go.uber.org/zap"
)

// Publisher flips an approved post to published.
type Publisher interface {
	MarkPublished(ctx context.Context, postID string) (*postEntity.Post, error)
}

// PublishWorker is the external publisher: it drains due entries from the schedule.
// Delivery to social platforms is not its concern.
type PublishWorker struct {
	Queue     schedulePort.PublishQueue
	Posts     Publisher
	BatchSize int
	Interval  time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewPublishWorker(
	queue schedulePort.PublishQueue,
	posts Publisher,
	batchSize int,
	interval time.Duration,
	logger *zap.Logger,
) *PublishWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublishWorker{
		Queue:     queue,
		Posts:     posts,
		BatchSize: batchSize,
		Interval:  interval,
		Logger:    logger,
		Now:       time.Now,
	}
}

// Run گوش دادن به صف و انتشار پست‌های سررسید شده
func (w *PublishWorker) Run(ctx context.Context) {
	w.Logger.Info("PublishWorker started", zap.Int("batchSize", w.BatchSize), zap.Duration("interval", w.Interval))
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		if _, err := w.ProcessDue(ctx); err != nil && ctx.Err() == nil {
			w.Logger.Error("Error fetching due posts", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			w.Logger.Info("PublishWorker stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessDue publishes one batch of due posts and returns how many were published.
func (w *PublishWorker) ProcessDue(ctx context.Context) (int, error) {
	due, err := w.Queue.Due(ctx, w.Now(), int64(w.BatchSize))
	if err != nil {
		return 0, err
	}

	published := 0
	for _, id := range due {
		if w.publish(ctx, id) {
			published++
		}
	}
	if published > 0 {
		w.Logger.Info("Published due posts", zap.Int("count", published), zap.Int("due", len(due)))
	}
	return published, nil
}

// publish returns true when the post was flipped to published. Entries that can
// never be published are dropped; store failures leave the entry for the next tick.
func (w *PublishWorker) publish(ctx context.Context, postID string) bool {
	_, err := w.Posts.MarkPublished(ctx, postID)
	switch {
	case err == nil:
	case errors.Is(err, postEntity.ErrNotFound), errors.Is(err, postEntity.ErrInvalidTransition):
		w.Logger.Warn("Dropping unpublishable schedule entry", zap.String("postID", postID), zap.Error(err))
	default:
		w.Logger.Error("Could not publish post", zap.String("postID", postID), zap.Error(err))
		return false
	}

	if rmErr := w.Queue.Remove(ctx, postID); rmErr != nil {
		w.Logger.Warn("Could not remove schedule entry", zap.String("postID", postID), zap.Error(rmErr))
	}
	return err == nil
}
