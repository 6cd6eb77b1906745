package campaign

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MaxDurationDays = 7
	MaxPostsPerDay  = 3
	MaxTotalPosts   = 21
)

const (
	FieldTheme       = "theme"
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
	FieldPostsPerDay = "postsPerDay"
	FieldTotalPosts  = "totalPosts"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated constraint, one entry per field check.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "campaign validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Campaign is a bounded batch of posts defined by a date range and a daily cadence.
type Campaign struct {
	OwnerID      string
	Theme        string
	StartDate    *time.Time
	EndDate      *time.Time
	PostsPerDay  int
	TotalPosts   int // 0 means derive from the range and cadence
	IncludeImage bool
	IncludeVideo bool
}

// DurationDays is the ceiling of end-start in days. It is negative when end precedes start.
func DurationDays(start, end time.Time) int {
	days := end.Sub(start).Hours() / 24
	return int(math.Ceil(days))
}

// TotalPosts returns min(durationDays*postsPerDay, MaxTotalPosts), or 0 when a date is missing.
func TotalPosts(start, end *time.Time, postsPerDay int) int {
	if start == nil || end == nil {
		return 0
	}
	total := DurationDays(*start, *end) * postsPerDay
	if total > MaxTotalPosts {
		return MaxTotalPosts
	}
	if total < 0 {
		return 0
	}
	return total
}

// Validate returns the field-scoped violations of the scheduling limits. Checks are independent.
func Validate(start, end *time.Time, postsPerDay, totalPosts int) []FieldError {
	var errs []FieldError

	if start == nil {
		errs = append(errs, FieldError{Field: FieldStartDate, Message: "Start date is required"})
	}
	if end == nil {
		errs = append(errs, FieldError{Field: FieldEndDate, Message: "End date is required"})
	}
	if start != nil && end != nil {
		days := DurationDays(*start, *end)
		if days > MaxDurationDays {
			errs = append(errs, FieldError{
				Field:   FieldEndDate,
				Message: fmt.Sprintf("Campaign duration cannot exceed %d days", MaxDurationDays),
			})
		}
		if days < 1 {
			errs = append(errs, FieldError{Field: FieldEndDate, Message: "End date must be after start date"})
		}
	}

	if postsPerDay > MaxPostsPerDay {
		errs = append(errs, FieldError{
			Field:   FieldPostsPerDay,
			Message: fmt.Sprintf("Maximum %d posts per day allowed", MaxPostsPerDay),
		})
	}
	if postsPerDay < 1 {
		errs = append(errs, FieldError{Field: FieldPostsPerDay, Message: "At least 1 post per day is required"})
	}

	if totalPosts > MaxTotalPosts {
		errs = append(errs, FieldError{
			Field:   FieldTotalPosts,
			Message: fmt.Sprintf("Maximum %d total posts allowed", MaxTotalPosts),
		})
	}
	return errs
}

// Validate checks the campaign as a whole and resolves its post total.
// It returns a *ValidationError when any constraint is violated.
func (c *Campaign) Validate() (int, error) {
	total := c.TotalPosts
	if total == 0 {
		total = TotalPosts(c.StartDate, c.EndDate, c.PostsPerDay)
	}

	errs := Validate(c.StartDate, c.EndDate, c.PostsPerDay, total)
	if strings.TrimSpace(c.Theme) == "" {
		errs = append([]FieldError{{Field: FieldTheme, Message: "Theme is required"}}, errs...)
	}
	if total < 0 {
		errs = append(errs, FieldError{Field: FieldTotalPosts, Message: "Total posts cannot be negative"})
	}
	if len(errs) > 0 {
		return 0, &ValidationError{Errors: errs}
	}
	return total, nil
}

// Slots spreads total posts over the campaign days, postsPerDay per day at even intervals.
func Slots(start time.Time, days, postsPerDay, total int) []time.Time {
	if days <= 0 || postsPerDay <= 0 || total <= 0 {
		return nil
	}
	step := 24 * time.Hour / time.Duration(postsPerDay)

	slots := make([]time.Time, 0, total)
	for d := 0; d < days && len(slots) < total; d++ {
		day := start.AddDate(0, 0, d)
		for k := 0; k < postsPerDay && len(slots) < total; k++ {
			slots = append(slots, day.Add(time.Duration(k)*step))
		}
	}
	return slots
}
