// Package deadline resolves an item's calendar date and time-of-day
// fields into a single absolute instant.
package deadline

import (
	"errors"
	"fmt"
	"time"

	"github.com/edupulse/deadline-reminder/internal/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	defaultDueTime = "23:59"
)

var (
	// ErrInvalidDeadline is returned when the item's deadline fields cannot be parsed.
	ErrInvalidDeadline = errors.New("invalid deadline")

	// ErrNoDeadline is returned for items that have no deadline concept,
	// i.e. tasks without a time of day. Such items are never scheduled.
	ErrNoDeadline = errors.New("item has no deadline")
)

// Resolve combines the item's deadline date and time of day into one
// absolute instant in loc. A project without an explicit time of day
// defaults to 23:59; a task without one has no deadline at all.
func Resolve(item model.TargetItem, loc *time.Location) (time.Time, error) {
	due := item.DueTime()
	if due == "" {
		if item.Kind == model.ItemKindTask {
			return time.Time{}, ErrNoDeadline
		}

		due = defaultDueTime
	}

	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, item.DueDate()+" "+due, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDeadline, err)
	}

	return t, nil
}
