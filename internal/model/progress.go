package model

import "github.com/google/uuid"

// ProgressStatus is the student's overall status on an item.
type ProgressStatus string

const (
	ProgressTodo       ProgressStatus = "todo"
	ProgressInProgress ProgressStatus = "inprogress"
	ProgressDone       ProgressStatus = "done"
)

// SubtaskProgress mirrors a subtask leaf with the student's completion flag.
type SubtaskProgress struct {
	SubtaskID uuid.UUID `json:"subtask_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
}

// MainTaskProgress mirrors a project main task with its subtask completions.
type MainTaskProgress struct {
	MainTaskID uuid.UUID         `json:"main_task_id"`
	Title      string            `json:"title"`
	Completed  bool              `json:"completed"`
	Subtasks   []SubtaskProgress `json:"subtasks"`
}

// ProgressRecord is one student's completion tree for one item.
// MainTasks is populated for project items, Subtasks for task items.
// Read-only from this service; the student's own actions mutate it.
type ProgressRecord struct {
	StudentID uuid.UUID          `json:"student_id"`
	ItemID    uuid.UUID          `json:"item_id"`
	Status    ProgressStatus     `json:"status"`
	MainTasks []MainTaskProgress `json:"main_tasks,omitempty"`
	Subtasks  []SubtaskProgress  `json:"subtasks,omitempty"`
}
