package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	todoerrors "github.com/randalmurphal/todo/internal/errors"
	"github.com/randalmurphal/todo/internal/todo"
)

func strp(s string) *string { return &s }

func newTodo(title string) todo.NewTodo {
	return todo.NewTodo{Title: title}
}

func pendingOpts() todo.ListOptions {
	return todo.ListOptions{Status: todo.StatusPending}
}

// fakeClock returns a now func that advances one minute per call.
func fakeClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		cur := next
		next = next.Add(time.Minute)
		return cur
	}
}

func newClockedTodoDB(t *testing.T) *TodoDB {
	t.Helper()
	tdb := NewTestTodoDB(t)
	tdb.now = fakeClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	return tdb
}

func TestAddTodo_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := NewTestTodoDB(t)

	tests := []struct {
		name     string
		in       todo.NewTodo
		wantDate bool
		wantTime bool
	}{
		{"title only", todo.NewTodo{Title: "Task"}, false, false},
		{"date only", todo.NewTodo{Title: "Dated", Date: strp("2024-12-31")}, true, false},
		{"time only", todo.NewTodo{Title: "Timed", Time: strp("08:15:00")}, false, true},
		{
			"everything",
			todo.NewTodo{
				Title:       "Full",
				Date:        strp("2024-12-31"),
				Time:        strp("23:59:59"),
				Description: strp("all fields"),
				URL:         strp("https://example.com/x"),
			},
			true, true,
		},
		{"empty description is a value", todo.NewTodo{Title: "Empty", Description: strp("")}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := tdb.AddTodo(ctx, tt.in)
			require.NoError(t, err)
			assert.NotZero(t, created.ID)
			assert.NotEqual(t, uuid.Nil, created.UUID)

			got, err := tdb.GetTodoByUUID(ctx, created.UUID)
			require.NoError(t, err)

			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, tt.in.Title, got.Title)
			assert.Equal(t, tt.in.Description, got.Description)
			assert.Equal(t, tt.in.URL, got.URL)
			assert.False(t, got.Done)
			assert.Equal(t, tt.wantDate, got.StartDate != nil, "start_date presence")
			assert.Equal(t, tt.wantTime, got.StartTime != nil, "start_time presence")
			assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", created.CreatedAt, got.CreatedAt)
			assert.True(t, created.UpdatedAt.Equal(got.UpdatedAt))
			if created.StartDate != nil {
				assert.True(t, created.StartDate.Equal(*got.StartDate))
			}
		})
	}
}

func TestAddTodo_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := NewTestTodoDB(t)

	_, err := tdb.AddTodo(ctx, todo.NewTodo{Title: ""})
	assert.True(t, todoerrors.HasCode(err, todoerrors.CodeTitleRequired), "err = %v", err)

	_, err = tdb.AddTodo(ctx, todo.NewTodo{Title: "x", Date: strp("2024-02-30")})
	assert.True(t, todoerrors.HasCode(err, todoerrors.CodeInvalidDate), "err = %v", err)

	got, err := tdb.ListTodos(ctx, pendingOpts())
	require.NoError(t, err)
	assert.Empty(t, got, "failed adds must not insert rows")
}

func TestUUIDUniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := NewTestTodoDB(t)

	created, err := tdb.AddTodo(ctx, newTodo("first"))
	require.NoError(t, err)

	_, err = tdb.X().ExecContext(ctx,
		`INSERT INTO todos (uuid, created_at, updated_at, done, title) VALUES (?, ?, ?, 0, ?)`,
		created.UUID.String(), formatTime(time.Now()), formatTime(time.Now()), "dup")
	assert.Error(t, err, "schema should reject duplicate uuids")
}

func TestGetTodoByUUID_NotFound(t *testing.T) {
	t.Parallel()
	tdb := NewTestTodoDB(t)

	_, err := tdb.GetTodoByUUID(context.Background(), uuid.New())
	assert.True(t, todoerrors.HasCode(err, todoerrors.CodeTodoNotFound), "err = %v", err)
}

func TestListTodos_FilterAndOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := newClockedTodoDB(t)

	var created []*todo.Todo
	for _, title := range []string{"one", "two", "three", "four"} {
		td, err := tdb.AddTodo(ctx, newTodo(title))
		require.NoError(t, err)
		created = append(created, td)
	}
	require.NoError(t, tdb.SetTodoDone(ctx, created[1].UUID, true))

	pending, err := tdb.ListTodos(ctx, pendingOpts())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "three", "four"}, titles(pending))
	for i, td := range pending {
		assert.False(t, td.Done)
		if i > 0 {
			assert.True(t, pending[i-1].CreatedAt.Before(td.CreatedAt), "not sorted by created_at")
		}
	}

	done, err := tdb.ListTodos(ctx, todo.ListOptions{Status: todo.StatusDone})
	require.NoError(t, err)
	assert.Equal(t, []string{"two"}, titles(done))
	assert.True(t, done[0].Done)

	reversed, err := tdb.ListTodos(ctx, todo.ListOptions{Status: todo.StatusPending, Reverse: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"four", "three"}, titles(reversed))

	limited, err := tdb.ListTodos(ctx, todo.ListOptions{Status: todo.StatusPending, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, titles(limited))
}

func TestListTodos_EmptyIsNotError(t *testing.T) {
	t.Parallel()
	tdb := NewTestTodoDB(t)

	got, err := tdb.ListTodos(context.Background(), pendingOpts())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListTodos_NegativeLimit(t *testing.T) {
	t.Parallel()
	tdb := NewTestTodoDB(t)
	ctx := context.Background()
	_, err := tdb.AddTodo(ctx, newTodo("one"))
	require.NoError(t, err)

	got, err := tdb.ListTodos(ctx, todo.ListOptions{Status: todo.StatusPending, Limit: -1})
	assert.Nil(t, got)
	assert.True(t, todoerrors.HasCode(err, todoerrors.CodeInvalidLimit), "err = %v", err)
}

func TestSetTodoDone_IdempotentAndRefreshesUpdatedAt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := newClockedTodoDB(t)

	created, err := tdb.AddTodo(ctx, newTodo("Task"))
	require.NoError(t, err)

	require.NoError(t, tdb.SetTodoDone(ctx, created.UUID, true))
	require.NoError(t, tdb.SetTodoDone(ctx, created.UUID, true))

	got, err := tdb.GetTodoByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.True(t, got.Done)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt), "updated_at should be refreshed")
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))

	require.NoError(t, tdb.SetTodoDone(ctx, created.UUID, false))
	require.NoError(t, tdb.SetTodoDone(ctx, created.UUID, false))

	got, err = tdb.GetTodoByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.False(t, got.Done)
}

func TestSetTodoDone_NotFound(t *testing.T) {
	t.Parallel()
	tdb := NewTestTodoDB(t)

	err := tdb.SetTodoDone(context.Background(), uuid.New(), true)
	assert.True(t, todoerrors.HasCode(err, todoerrors.CodeTodoNotFound), "err = %v", err)
}

func TestEditTodo_EmptyPatchOnlyChangesUpdatedAt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := newClockedTodoDB(t)

	created, err := tdb.AddTodo(ctx, todo.NewTodo{
		Title:       "Task",
		Date:        strp("2024-12-31"),
		Description: strp("desc"),
		URL:         strp("https://example.com"),
	})
	require.NoError(t, err)
	before, err := tdb.GetTodoByUUID(ctx, created.UUID)
	require.NoError(t, err)

	_, err = tdb.EditTodo(ctx, created.UUID, todo.Patch{})
	require.NoError(t, err)

	after, err := tdb.GetTodoByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))

	after.UpdatedAt = before.UpdatedAt
	assert.Equal(t, before, after)
}

func TestEditTodo_TitleKeepsDescription(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := NewTestTodoDB(t)

	created, err := tdb.AddTodo(ctx, todo.NewTodo{Title: "Old", Description: strp("keep")})
	require.NoError(t, err)

	edited, err := tdb.EditTodo(ctx, created.UUID, todo.Patch{Title: todo.Set("New title")})
	require.NoError(t, err)
	assert.Equal(t, "New title", edited.Title)

	got, err := tdb.GetTodoByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, "New title", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "keep", *got.Description)
}

func TestEditTodo_ClearAndStart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := NewTestTodoDB(t)

	created, err := tdb.AddTodo(ctx, todo.NewTodo{Title: "t", Description: strp("d"), URL: strp("u")})
	require.NoError(t, err)

	_, err = tdb.EditTodo(ctx, created.UUID, todo.Patch{
		Description: todo.Clear[string](),
		Date:        todo.Set("2025-02-03"),
		Time:        todo.Set("10:30"),
	})
	require.NoError(t, err)

	got, err := tdb.GetTodoByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
	require.NotNil(t, got.URL)
	assert.Equal(t, "u", *got.URL)
	require.NotNil(t, got.StartDate)
	require.NotNil(t, got.StartTime)
	assert.True(t, got.StartDate.Equal(time.Date(2025, 2, 3, 10, 30, 0, 0, time.UTC)))
}

func TestEditTodo_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := NewTestTodoDB(t)

	_, err := tdb.EditTodo(ctx, uuid.New(), todo.Patch{Title: todo.Set("x")})
	assert.True(t, todoerrors.HasCode(err, todoerrors.CodeTodoNotFound), "err = %v", err)

	created, err := tdb.AddTodo(ctx, newTodo("t"))
	require.NoError(t, err)
	_, err = tdb.EditTodo(ctx, created.UUID, todo.Patch{Date: todo.Set("someday")})
	assert.True(t, todoerrors.HasCode(err, todoerrors.CodeInvalidDate), "err = %v", err)

	got, err := tdb.GetTodoByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Nil(t, got.StartDate, "failed edit must not write")
}

func TestScenario_BuyMilkWithDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := NewTestTodoDB(t)

	_, err := tdb.AddTodo(ctx, todo.NewTodo{Title: "Buy milk", Date: strp("2024-12-31")})
	require.NoError(t, err)

	got, err := tdb.ListTodos(ctx, pendingOpts())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Title)
	require.NotNil(t, got[0].StartDate)
	assert.Equal(t, "2024-12-31", got[0].StartDate.Format(todo.DateLayout))
	assert.Nil(t, got[0].StartTime)
	assert.False(t, got[0].Done)
}

func TestScenario_DoneMovesBetweenLists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tdb := NewTestTodoDB(t)

	created, err := tdb.AddTodo(ctx, newTodo("Task"))
	require.NoError(t, err)
	require.NoError(t, tdb.SetTodoDone(ctx, created.UUID, true))

	pending, err := tdb.ListTodos(ctx, pendingOpts())
	require.NoError(t, err)
	assert.Empty(t, pending)

	done, err := tdb.ListTodos(ctx, todo.ListOptions{Status: todo.StatusDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, created.UUID, done[0].UUID)
}

func TestParseTime_AcceptsOffsetForm(t *testing.T) {
	t.Parallel()
	got, err := parseTime("2024-05-01T10:00:00+00:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-01T10:00:00.000000000Z", formatTime(got))
}

func titles(todos []*todo.Todo) []string {
	out := make([]string, len(todos))
	for i, td := range todos {
		out[i] = td.Title
	}
	return out
}
