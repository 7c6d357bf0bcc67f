package model

import "github.com/google/uuid"

// ItemKind discriminates the two schedulable item variants.
type ItemKind string

const (
	ItemKindProject ItemKind = "project"
	ItemKindTask    ItemKind = "task"
)

// Valid reports whether k names a known item kind.
func (k ItemKind) Valid() bool {
	return k == ItemKindProject || k == ItemKindTask
}

// Subtask is a leaf of an item's task tree.
type Subtask struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// MainTask is a project-level task carrying an ordered list of subtasks.
type MainTask struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Subtasks []Subtask `json:"subtasks"`
}

// Project is a lecturer-authored item with a two-level task tree.
type Project struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	DueDate   string     `json:"due_date"` // calendar date, "2006-01-02"
	DueTime   string     `json:"due_time"` // time of day, "15:04"; empty means 23:59
	MainTasks []MainTask `json:"main_tasks"`
}

// Task is a lecturer-authored item with a flat subtask list.
type Task struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	DueDate  string    `json:"due_date"`
	DueTime  string    `json:"due_time"` // empty means the task has no deadline and is never scheduled
	Subtasks []Subtask `json:"subtasks"`
}

// TargetItem is a tagged union over the two item variants.
// Exactly one of Project/Task is non-nil, matching Kind.
type TargetItem struct {
	Kind    ItemKind `json:"kind"`
	Project *Project `json:"project,omitempty"`
	Task    *Task    `json:"task,omitempty"`
}

// ID returns the identifier of the underlying item.
func (i TargetItem) ID() uuid.UUID {
	if i.Kind == ItemKindProject {
		return i.Project.ID
	}
	return i.Task.ID
}

// Name returns the display name of the underlying item.
func (i TargetItem) Name() string {
	if i.Kind == ItemKindProject {
		return i.Project.Name
	}
	return i.Task.Name
}

// DueDate returns the deadline date of the underlying item.
func (i TargetItem) DueDate() string {
	if i.Kind == ItemKindProject {
		return i.Project.DueDate
	}
	return i.Task.DueDate
}

// DueTime returns the deadline time of day of the underlying item.
func (i TargetItem) DueTime() string {
	if i.Kind == ItemKindProject {
		return i.Project.DueTime
	}
	return i.Task.DueTime
}
