// Package todo defines the todo entity and the rules for creating and
// editing it. It has no knowledge of storage; see internal/db for that.
package todo

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	todoerrors "github.com/randalmurphal/todo/internal/errors"
)

// Status is the completion state used to filter listings.
type Status int

const (
	StatusPending Status = 0
	StatusDone    Status = 1
)

// ParseStatus parses a --status value. Accepts 0/1 and pending/done.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "pending":
		return StatusPending, nil
	case "1", "done":
		return StatusDone, nil
	default:
		return 0, todoerrors.ErrInvalidStatus(s)
	}
}

// String returns the status name.
func (s Status) String() string {
	if s == StatusDone {
		return "done"
	}
	return "pending"
}

// Todo is a single task record.
type Todo struct {
	ID          int64
	UUID        uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Done        bool
	Title       string
	StartDate   *time.Time // set only when a date was supplied
	StartTime   *time.Time // set only when a time was supplied
	Description *string
	URL         *string
}

// Status returns the todo's completion state.
func (t *Todo) Status() Status {
	if t.Done {
		return StatusDone
	}
	return StatusPending
}

// Start returns the combined start timestamp, if any part of it was supplied.
func (t *Todo) Start() (time.Time, bool) {
	switch {
	case t.StartDate != nil:
		return *t.StartDate, true
	case t.StartTime != nil:
		return *t.StartTime, true
	default:
		return time.Time{}, false
	}
}

// String renders every field, mainly for debugging and logs.
func (t *Todo) String() string {
	return fmt.Sprintf("id: %d, uuid: %s, created_at: %s, updated_at: %s, title: %s, done: %t, description: %s, url: %s, start: %s",
		t.ID, t.UUID, t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339),
		t.Title, t.Done, optString(t.Description), optString(t.URL), optTime(t.StartDate, t.StartTime))
}

func optString(s *string) string {
	if s == nil {
		return "<none>"
	}
	return fmt.Sprintf("%q", *s)
}

func optTime(date, clock *time.Time) string {
	switch {
	case date != nil:
		return date.Format(time.RFC3339)
	case clock != nil:
		return clock.Format(time.RFC3339)
	default:
		return "<none>"
	}
}

// NewTodo holds the user-supplied fields for a new todo. Nil pointers mean
// the corresponding flag was not given.
type NewTodo struct {
	Title       string
	Date        *string
	Time        *string
	Description *string
	URL         *string
}

// New builds a pending todo stamped with now. The uuid is generated here;
// the numeric ID is assigned by storage.
func New(in NewTodo, now time.Time) (*Todo, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, todoerrors.ErrTitleRequired()
	}

	start, err := Combine(in.Date, in.Time, now)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate uuid: %w", err)
	}

	now = now.UTC()
	t := &Todo{
		UUID:        id,
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       in.Title,
		Description: in.Description,
		URL:         in.URL,
	}
	if in.Date != nil {
		d := start
		t.StartDate = &d
	}
	if in.Time != nil {
		c := start
		t.StartTime = &c
	}
	return t, nil
}

// ParseUUID parses a todo identifier given on the command line.
func ParseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, todoerrors.ErrInvalidUUID(s, err)
	}
	return id, nil
}

// ListOptions selects and orders todos for a listing.
type ListOptions struct {
	Status  Status
	Limit   int  // 0 means no limit
	Reverse bool // newest first
}
