package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	todoerrors "github.com/randalmurphal/todo/internal/errors"
	"github.com/randalmurphal/todo/internal/todo"
)

// timestampLayout is fixed-width so that text ordering of the timestamp
// columns matches chronological ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const todoColumns = `id, uuid, created_at, updated_at, done, title, start_date, start_time, description, url`

// TodoDB provides CRUD operations on the todos table.
type TodoDB struct {
	*DB
	now func() time.Time
}

// NewTodoDB returns a repository backed by db.
func NewTodoDB(db *DB) *TodoDB {
	return &TodoDB{DB: db, now: time.Now}
}

// todoRow is the storage shape of a todo.
type todoRow struct {
	ID          int64          `db:"id"`
	UUID        string         `db:"uuid"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
	Done        int64          `db:"done"`
	Title       string         `db:"title"`
	StartDate   sql.NullString `db:"start_date"`
	StartTime   sql.NullString `db:"start_time"`
	Description sql.NullString `db:"description"`
	URL         sql.NullString `db:"url"`
}

// AddTodo creates a pending todo from in and stores it.
func (t *TodoDB) AddTodo(ctx context.Context, in todo.NewTodo) (*todo.Todo, error) {
	td, err := todo.New(in, t.now())
	if err != nil {
		return nil, err
	}

	q := t.x.Rebind(`
		INSERT INTO todos (uuid, created_at, updated_at, done, title, start_date, start_time, description, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err = t.x.QueryRowxContext(ctx, q,
		td.UUID.String(),
		formatTime(td.CreatedAt),
		formatTime(td.UpdatedAt),
		boolToInt(td.Done),
		td.Title,
		nullTime(td.StartDate),
		nullTime(td.StartTime),
		nullString(td.Description),
		nullString(td.URL),
	).Scan(&td.ID)
	if err != nil {
		return nil, todoerrors.ErrStorage("insert todo", err)
	}

	slog.Debug("todo added", "id", td.ID, "uuid", td.UUID)
	return td, nil
}

// GetTodoByUUID returns the todo with the given uuid.
func (t *TodoDB) GetTodoByUUID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	q := t.x.Rebind(`SELECT ` + todoColumns + ` FROM todos WHERE uuid = ?`)

	var row todoRow
	if err := t.x.GetContext(ctx, &row, q, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, todoerrors.ErrTodoNotFound(id.String())
		}
		return nil, todoerrors.ErrStorage(fmt.Sprintf("get todo %s", id), err)
	}
	return row.toTodo()
}

// ListTodos returns the todos with the requested status, oldest first
// unless opts.Reverse is set. No matches is an empty slice.
func (t *TodoDB) ListTodos(ctx context.Context, opts todo.ListOptions) ([]*todo.Todo, error) {
	if opts.Limit < 0 {
		return nil, todoerrors.ErrInvalidLimit(opts.Limit)
	}
	order := "ASC"
	if opts.Reverse {
		order = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM todos WHERE done = ? ORDER BY created_at %s, id %s`, todoColumns, order, order)
	args := []any{int(opts.Status)}
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	var rows []todoRow
	if err := t.x.SelectContext(ctx, &rows, t.x.Rebind(query), args...); err != nil {
		return nil, todoerrors.ErrStorage("list todos", err)
	}

	todos := make([]*todo.Todo, 0, len(rows))
	for i := range rows {
		td, err := rows[i].toTodo()
		if err != nil {
			return nil, err
		}
		todos = append(todos, td)
	}
	return todos, nil
}

// SetTodoDone sets the done flag and refreshes updated_at. Setting the
// current value again is not an error.
func (t *TodoDB) SetTodoDone(ctx context.Context, id uuid.UUID, done bool) error {
	q := t.x.Rebind(`UPDATE todos SET done = ?, updated_at = ? WHERE uuid = ?`)
	res, err := t.x.ExecContext(ctx, q, boolToInt(done), formatTime(t.now()), id.String())
	if err != nil {
		return todoerrors.ErrStorage(fmt.Sprintf("update todo %s", id), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return todoerrors.ErrStorage(fmt.Sprintf("update todo %s", id), err)
	}
	if n == 0 {
		return todoerrors.ErrTodoNotFound(id.String())
	}

	slog.Debug("todo done flag set", "uuid", id, "done", done)
	return nil
}

// EditTodo applies p to the stored todo and writes the full row back.
func (t *TodoDB) EditTodo(ctx context.Context, id uuid.UUID, p todo.Patch) (*todo.Todo, error) {
	td, err := t.GetTodoByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := td.Apply(p, t.now()); err != nil {
		return nil, err
	}

	q := t.x.Rebind(`
		UPDATE todos
		SET title = ?, start_date = ?, start_time = ?, description = ?, url = ?, updated_at = ?
		WHERE uuid = ?`)
	res, err := t.x.ExecContext(ctx, q,
		td.Title,
		nullTime(td.StartDate),
		nullTime(td.StartTime),
		nullString(td.Description),
		nullString(td.URL),
		formatTime(td.UpdatedAt),
		id.String(),
	)
	if err != nil {
		return nil, todoerrors.ErrStorage(fmt.Sprintf("update todo %s", id), err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, todoerrors.ErrTodoNotFound(id.String())
	}

	slog.Debug("todo edited", "uuid", id, "empty_patch", p.IsEmpty())
	return td, nil
}

func (r *todoRow) toTodo() (*todo.Todo, error) {
	id, err := uuid.Parse(r.UUID)
	if err != nil {
		return nil, todoerrors.ErrStorage(fmt.Sprintf("todo %d has malformed uuid", r.ID), err)
	}
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, todoerrors.ErrStorage(fmt.Sprintf("todo %d created_at", r.ID), err)
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, todoerrors.ErrStorage(fmt.Sprintf("todo %d updated_at", r.ID), err)
	}
	startDate, err := parseNullTime(r.StartDate)
	if err != nil {
		return nil, todoerrors.ErrStorage(fmt.Sprintf("todo %d start_date", r.ID), err)
	}
	startTime, err := parseNullTime(r.StartTime)
	if err != nil {
		return nil, todoerrors.ErrStorage(fmt.Sprintf("todo %d start_time", r.ID), err)
	}

	return &todo.Todo{
		ID:          r.ID,
		UUID:        id,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		Done:        r.Done != 0,
		Title:       r.Title,
		StartDate:   startDate,
		StartTime:   startTime,
		Description: fromNullString(r.Description),
		URL:         fromNullString(r.URL),
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// parseTime also accepts shorter RFC 3339 forms, e.g. "+00:00" offsets.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
