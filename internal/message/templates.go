// Package message holds the static milestone message templates and
// renders notification texts from them.
package message

import (
	"errors"
	"fmt"

	"github.com/edupulse/deadline-reminder/internal/model"
)

// ErrUnknownMilestone is returned when no template exists for the
// given (item kind, milestone) pair.
var ErrUnknownMilestone = errors.New("unknown milestone")

// Rendered is a fully substituted notification text triple.
type Rendered struct {
	Title       string
	Message     string
	Description string
}

type templateKey struct {
	kind      model.ItemKind
	milestone int
}

type template struct {
	title       string
	message     string
	description string
}

// One entry per (kind, milestone) pair; the schedule generator only
// ever produces the four fixed milestones.
var templates = map[templateKey]template{
	{model.ItemKindProject, 25}: {
		title:       "Project reminder: %s",
		message:     "A quarter of the time for project \"%s\" has passed.",
		description: "The deadline for \"%s\" is approaching. Check your remaining main tasks.",
	},
	{model.ItemKindProject, 50}: {
		title:       "Project reminder: %s",
		message:     "Half of the time for project \"%s\" has passed.",
		description: "You are halfway to the deadline for \"%s\".",
	},
	{model.ItemKindProject, 75}: {
		title:       "Project reminder: %s",
		message:     "Three quarters of the time for project \"%s\" have passed.",
		description: "The deadline for \"%s\" is getting close.",
	},
	{model.ItemKindProject, 100}: {
		title:       "Project due: %s",
		message:     "Project \"%s\" is due now.",
		description: "The deadline for \"%s\" has been reached.",
	},
	{model.ItemKindTask, 25}: {
		title:       "Task reminder: %s",
		message:     "A quarter of the time for task \"%s\" has passed.",
		description: "The deadline for \"%s\" is approaching. Check your remaining subtasks.",
	},
	{model.ItemKindTask, 50}: {
		title:       "Task reminder: %s",
		message:     "Half of the time for task \"%s\" has passed.",
		description: "You are halfway to the deadline for \"%s\".",
	},
	{model.ItemKindTask, 75}: {
		title:       "Task reminder: %s",
		message:     "Three quarters of the time for task \"%s\" have passed.",
		description: "The deadline for \"%s\" is getting close.",
	},
	{model.ItemKindTask, 100}: {
		title:       "Task due: %s",
		message:     "Task \"%s\" is due now.",
		description: "The deadline for \"%s\" has been reached.",
	},
}

// Render returns the notification texts for the given item kind and
// milestone, with the item's display name substituted and a short
// progress summary appended to the description.
func Render(kind model.ItemKind, milestone int, name string, snap model.ProgressSnapshot) (Rendered, error) {
	tpl, ok := templates[templateKey{kind: kind, milestone: milestone}]
	if !ok {
		return Rendered{}, fmt.Errorf("%w: %s %d%%", ErrUnknownMilestone, kind, milestone)
	}

	return Rendered{
		Title:       fmt.Sprintf(tpl.title, name),
		Message:     fmt.Sprintf(tpl.message, name),
		Description: fmt.Sprintf(tpl.description, name) + " " + summary(kind, snap),
	}, nil
}

// summary describes the snapshot counts in one human-readable line.
func summary(kind model.ItemKind, snap model.ProgressSnapshot) string {
	if kind == model.ItemKindProject {
		var completed int
		for _, e := range snap.Entries {
			if e.Completed {
				completed++
			}
		}

		return fmt.Sprintf("%d/%d main tasks completed.", completed, len(snap.Entries))
	}

	return fmt.Sprintf("%d/%d subtasks completed.", snap.CompletedTasks, snap.TotalTasks)
}
