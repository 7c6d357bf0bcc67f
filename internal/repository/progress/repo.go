package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/edupulse/deadline-reminder/internal/model"
)

// ErrProgressNotFound is returned when the student has no progress
// record for the item, i.e. they never opened it.
var ErrProgressNotFound = errors.New("progress record not found")

// Repository reads students' progress records. The records are created
// and mutated by the student-facing workflow; this service only reads.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the student's completion tree for the item. MainTasks is
// filled for project items, Subtasks for task items.
func (r *Repository) Get(ctx context.Context, studentID, itemID uuid.UUID, kind model.ItemKind) (model.ProgressRecord, error) {
	query := `
		SELECT status
		FROM progress_records
		WHERE student_id = $1 AND item_id = $2;
    `

	rec := model.ProgressRecord{StudentID: studentID, ItemID: itemID}

	err := r.db.Master.QueryRowContext(ctx, query, studentID, itemID).Scan(&rec.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ProgressRecord{}, ErrProgressNotFound
		}

		return model.ProgressRecord{}, fmt.Errorf("failed to get progress record: %w", err)
	}

	if kind == model.ItemKindProject {
		rec.MainTasks, err = r.getMainTaskProgress(ctx, studentID, itemID)
	} else {
		rec.Subtasks, err = r.getFlatSubtaskProgress(ctx, studentID, itemID)
	}
	if err != nil {
		return model.ProgressRecord{}, err
	}

	return rec, nil
}

func (r *Repository) getMainTaskProgress(ctx context.Context, studentID, itemID uuid.UUID) ([]model.MainTaskProgress, error) {
	query := `
		SELECT mt.main_task_id, mt.title, mt.completed, st.subtask_id, st.title, st.completed
		FROM progress_main_tasks mt
		LEFT JOIN progress_subtasks st
		    ON st.student_id = mt.student_id AND st.item_id = mt.item_id AND st.main_task_id = mt.main_task_id
		WHERE mt.student_id = $1 AND mt.item_id = $2
		ORDER BY mt.position, st.position;
    `

	rows, err := r.db.QueryContext(ctx, query, studentID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get main task progress: %w", err)
	}
	defer rows.Close()

	var (
		mainTasks []model.MainTaskProgress
		index     = map[uuid.UUID]int{}
	)

	for rows.Next() {
		var (
			mtID        uuid.UUID
			mtTitle     string
			mtCompleted bool
			stID        uuid.NullUUID
			stTitle     sql.NullString
			stCompleted sql.NullBool
		)
		if err := rows.Scan(&mtID, &mtTitle, &mtCompleted, &stID, &stTitle, &stCompleted); err != nil {
			return nil, err
		}

		i, ok := index[mtID]
		if !ok {
			i = len(mainTasks)
			index[mtID] = i
			mainTasks = append(mainTasks, model.MainTaskProgress{
				MainTaskID: mtID,
				Title:      mtTitle,
				Completed:  mtCompleted,
			})
		}

		if stID.Valid {
			mainTasks[i].Subtasks = append(mainTasks[i].Subtasks, model.SubtaskProgress{
				SubtaskID: stID.UUID,
				Title:     stTitle.String,
				Completed: stCompleted.Bool,
			})
		}
	}

	return mainTasks, rows.Err()
}

func (r *Repository) getFlatSubtaskProgress(ctx context.Context, studentID, itemID uuid.UUID) ([]model.SubtaskProgress, error) {
	query := `
		SELECT subtask_id, title, completed
		FROM progress_subtasks
		WHERE student_id = $1 AND item_id = $2 AND main_task_id IS NULL
		ORDER BY position;
    `

	rows, err := r.db.QueryContext(ctx, query, studentID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subtask progress: %w", err)
	}
	defer rows.Close()

	var subtasks []model.SubtaskProgress
	for rows.Next() {
		var st model.SubtaskProgress
		if err := rows.Scan(&st.SubtaskID, &st.Title, &st.Completed); err != nil {
			return nil, err
		}

		subtasks = append(subtasks, st)
	}

	return subtasks, rows.Err()
}
