package model

import (
	"time"

	"github.com/google/uuid"
)

// Delivery statuses for the out-of-band channel push.
const (
	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
)

// SnapshotSubtask is a subtask leaf frozen into a progress snapshot.
type SnapshotSubtask struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

// SnapshotEntry summarizes one main task (or, for task items, the whole
// flat subtask list) at the moment a notification was produced.
type SnapshotEntry struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Completed      bool              `json:"completed"`
	Subtasks       []SnapshotSubtask `json:"subtasks"`
	TotalTasks     int               `json:"total_tasks"`
	CompletedTasks int               `json:"completed_tasks"`
}

// ProgressSnapshot is a point-in-time copy of the student's completion
// tree, flattened into per-entry counts. It is embedded into the
// notification row and never updated afterwards.
type ProgressSnapshot struct {
	Entries        []SnapshotEntry `json:"entries"`
	TotalTasks     int             `json:"total_tasks"`
	CompletedTasks int             `json:"completed_tasks"`
}

// Notification is the user-visible artifact produced for one due
// milestone. At most one exists per (student, item, milestone).
type Notification struct {
	ID                  uuid.UUID        `json:"id"`
	StudentID           uuid.UUID        `json:"student_id"`
	ItemID              uuid.UUID        `json:"item_id"`
	ItemKind            ItemKind         `json:"item_kind"`
	MilestonePercentage int              `json:"milestone_percentage"`
	Title               string           `json:"title"`
	Message             string           `json:"message"`
	Description         string           `json:"description"`
	Snapshot            ProgressSnapshot `json:"snapshot"`
	IsRead              bool             `json:"is_read"`
	DeliveryStatus      string           `json:"delivery_status,omitempty"` // empty when the student has no delivery channel
	SentAt              time.Time        `json:"sent_at"`
	ScheduledFor        time.Time        `json:"scheduled_for"`
}
