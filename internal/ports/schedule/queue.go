package schedule

import (
	"context"
	"time"
)

// PublishQueue صف زمان‌بندی انتشار پست‌های تایید شده
type PublishQueue interface {
	Schedule(ctx context.Context, postID string, at time.Time) error
	Due(ctx context.Context, now time.Time, limit int64) ([]string, error)
	Remove(ctx context.Context, postID string) error
}
