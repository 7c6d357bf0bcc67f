package item

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/dbpg"

	"github.com/edupulse/deadline-reminder/internal/model"
)

// ErrItemNotFound is returned when the referenced item does not exist.
// During a sweep this is a terminal outcome: the item was deleted after
// scheduling and its reminders are retired as no-ops.
var ErrItemNotFound = errors.New("item not found")

// Repository reads lecturer-authored projects and tasks. The tables
// are owned by the authoring workflow; this service never writes them.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new item repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the target item identified by (id, kind) together with its
// task tree.
func (r *Repository) Get(ctx context.Context, id uuid.UUID, kind model.ItemKind) (model.TargetItem, error) {
	switch kind {
	case model.ItemKindProject:
		return r.getProject(ctx, id)
	case model.ItemKindTask:
		return r.getTask(ctx, id)
	default:
		return model.TargetItem{}, fmt.Errorf("unknown item kind %q", kind)
	}
}

func (r *Repository) getProject(ctx context.Context, id uuid.UUID) (model.TargetItem, error) {
	query := `
		SELECT id, name, due_date, COALESCE(due_time, '')
		FROM projects
		WHERE id = $1;
    `

	var p model.Project
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.DueDate, &p.DueTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TargetItem{}, ErrItemNotFound
		}

		return model.TargetItem{}, fmt.Errorf("failed to get project: %w", err)
	}

	mainTasks, err := r.getMainTasks(ctx, id)
	if err != nil {
		return model.TargetItem{}, err
	}
	p.MainTasks = mainTasks

	return model.TargetItem{Kind: model.ItemKindProject, Project: &p}, nil
}

func (r *Repository) getMainTasks(ctx context.Context, projectID uuid.UUID) ([]model.MainTask, error) {
	query := `
		SELECT mt.id, mt.title, st.id, st.title
		FROM project_main_tasks mt
		LEFT JOIN project_subtasks st ON st.main_task_id = mt.id
		WHERE mt.project_id = $1
		ORDER BY mt.position, st.position;
    `

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get main tasks: %w", err)
	}
	defer rows.Close()

	var (
		mainTasks []model.MainTask
		index     = map[uuid.UUID]int{}
	)

	for rows.Next() {
		var (
			mtID    uuid.UUID
			mtTitle string
			stID    uuid.NullUUID
			stTitle sql.NullString
		)
		if err := rows.Scan(&mtID, &mtTitle, &stID, &stTitle); err != nil {
			return nil, err
		}

		i, ok := index[mtID]
		if !ok {
			i = len(mainTasks)
			index[mtID] = i
			mainTasks = append(mainTasks, model.MainTask{ID: mtID, Title: mtTitle})
		}

		if stID.Valid {
			mainTasks[i].Subtasks = append(mainTasks[i].Subtasks, model.Subtask{
				ID:    stID.UUID,
				Title: stTitle.String,
			})
		}
	}

	return mainTasks, rows.Err()
}

func (r *Repository) getTask(ctx context.Context, id uuid.UUID) (model.TargetItem, error) {
	query := `
		SELECT id, name, due_date, COALESCE(due_time, '')
		FROM tasks
		WHERE id = $1;
    `

	var t model.Task
	err := r.db.Master.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.DueDate, &t.DueTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TargetItem{}, ErrItemNotFound
		}

		return model.TargetItem{}, fmt.Errorf("failed to get task: %w", err)
	}

	subQuery := `
		SELECT id, title
		FROM task_subtasks
		WHERE task_id = $1
		ORDER BY position;
    `

	rows, err := r.db.QueryContext(ctx, subQuery, id)
	if err != nil {
		return model.TargetItem{}, fmt.Errorf("failed to get subtasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var st model.Subtask
		if err := rows.Scan(&st.ID, &st.Title); err != nil {
			return model.TargetItem{}, err
		}

		t.Subtasks = append(t.Subtasks, st)
	}

	if err := rows.Err(); err != nil {
		return model.TargetItem{}, err
	}

	return model.TargetItem{Kind: model.ItemKindTask, Task: &t}, nil
}
