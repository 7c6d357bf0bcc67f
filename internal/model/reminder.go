package model

import (
	"time"

	"github.com/google/uuid"
)

// Milestones are the four fixed percentages of the scheduling window.
// A schedule always consists of exactly these, in this order.
var Milestones = [4]int{25, 50, 75, 100}

// ScheduledReminder is one milestone trigger for one student's item.
// Created in a batch of four by the schedule generator; the sweep flips
// IsProcessed to true exactly once and never reverts it.
type ScheduledReminder struct {
	ID                  uuid.UUID `json:"id"`
	StudentID           uuid.UUID `json:"student_id"`
	ItemID              uuid.UUID `json:"item_id"`
	ItemKind            ItemKind  `json:"item_kind"`
	MilestonePercentage int       `json:"milestone_percentage"`
	Deadline            time.Time `json:"deadline"`      // absolute deadline copied at schedule creation
	ScheduledFor        time.Time `json:"scheduled_for"` // absolute trigger instant
	IsProcessed         bool      `json:"is_processed"`
	CreatedAt           time.Time `json:"created_at"`
}
