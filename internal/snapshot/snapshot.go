// Package snapshot flattens a student's nested completion tree into
// the point-in-time summary that gets embedded into notifications.
package snapshot

import "github.com/edupulse/deadline-reminder/internal/model"

// Build derives the progress snapshot for item from the student's
// progress record. Pure function of its two inputs.
//
// The returned bool reports whether the work is already fully
// complete: for projects that is the record's overall status being
// done, for tasks it is every subtask being completed.
func Build(item model.TargetItem, rec model.ProgressRecord) (model.ProgressSnapshot, bool) {
	switch item.Kind {
	case model.ItemKindProject:
		return buildProject(rec)
	case model.ItemKindTask:
		return buildTask(item, rec)
	default:
		return model.ProgressSnapshot{}, false
	}
}

func buildProject(rec model.ProgressRecord) (model.ProgressSnapshot, bool) {
	snap := model.ProgressSnapshot{
		Entries: make([]model.SnapshotEntry, 0, len(rec.MainTasks)),
	}

	for _, mt := range rec.MainTasks {
		entry := model.SnapshotEntry{
			ID:        mt.MainTaskID,
			Title:     mt.Title,
			Completed: mt.Completed,
			Subtasks:  copySubtasks(mt.Subtasks),
		}
		entry.TotalTasks = len(mt.Subtasks)
		entry.CompletedTasks = countCompleted(mt.Subtasks)

		snap.TotalTasks += entry.TotalTasks
		snap.CompletedTasks += entry.CompletedTasks
		snap.Entries = append(snap.Entries, entry)
	}

	return snap, rec.Status == model.ProgressDone
}

func buildTask(item model.TargetItem, rec model.ProgressRecord) (model.ProgressSnapshot, bool) {
	entry := model.SnapshotEntry{
		ID:             rec.ItemID,
		Title:          item.Name(),
		Subtasks:       copySubtasks(rec.Subtasks),
		TotalTasks:     len(rec.Subtasks),
		CompletedTasks: countCompleted(rec.Subtasks),
	}

	complete := rec.Status == model.ProgressDone ||
		(entry.TotalTasks > 0 && entry.CompletedTasks == entry.TotalTasks)
	entry.Completed = complete

	snap := model.ProgressSnapshot{
		Entries:        []model.SnapshotEntry{entry},
		TotalTasks:     entry.TotalTasks,
		CompletedTasks: entry.CompletedTasks,
	}

	return snap, complete
}

func copySubtasks(subs []model.SubtaskProgress) []model.SnapshotSubtask {
	out := make([]model.SnapshotSubtask, 0, len(subs))
	for _, s := range subs {
		out = append(out, model.SnapshotSubtask{
			ID:        s.SubtaskID,
			Title:     s.Title,
			Completed: s.Completed,
		})
	}

	return out
}

func countCompleted(subs []model.SubtaskProgress) int {
	var n int
	for _, s := range subs {
		if s.Completed {
			n++
		}
	}

	return n
}
