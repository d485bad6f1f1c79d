package todo

import (
	"strings"
	"time"

	todoerrors "github.com/randalmurphal/todo/internal/errors"
)

type updateOp int

const (
	opKeep updateOp = iota
	opClear
	opSet
)

// Update is a three-state field update: keep the current value, clear it,
// or set it to a new value. The zero value keeps.
type Update[T any] struct {
	op    updateOp
	value T
}

// Keep leaves the field unchanged.
func Keep[T any]() Update[T] { return Update[T]{} }

// Clear removes the field's value.
func Clear[T any]() Update[T] { return Update[T]{op: opClear} }

// Set replaces the field's value with v.
func Set[T any](v T) Update[T] { return Update[T]{op: opSet, value: v} }

func (u Update[T]) IsKeep() bool { return u.op == opKeep }
func (u Update[T]) IsSet() bool  { return u.op == opSet }

// Value returns the new value and whether one was set.
func (u Update[T]) Value() (T, bool) {
	return u.value, u.op == opSet
}

func (u Update[T]) apply(prev *T) *T {
	switch u.op {
	case opClear:
		return nil
	case opSet:
		v := u.value
		return &v
	default:
		return prev
	}
}

// Patch is a partial edit of a todo.
type Patch struct {
	Title       Update[string]
	Date        Update[string]
	Time        Update[string]
	Description Update[string]
	URL         Update[string]
}

// IsEmpty reports whether the patch leaves every field unchanged.
func (p Patch) IsEmpty() bool {
	return p.Title.IsKeep() && p.Date.IsKeep() && p.Time.IsKeep() &&
		p.Description.IsKeep() && p.URL.IsKeep()
}

// Apply merges p into t and refreshes UpdatedAt. On error t is unchanged.
func (t *Todo) Apply(p Patch, now time.Time) error {
	title := t.Title
	if !p.Title.IsKeep() {
		v, ok := p.Title.Value()
		if !ok || strings.TrimSpace(v) == "" {
			return todoerrors.ErrTitleRequired()
		}
		title = v
	}

	startDate, startTime := t.StartDate, t.StartTime
	if !p.Date.IsKeep() || !p.Time.IsKeep() {
		var err error
		startDate, startTime, err = t.mergeStart(p.Date, p.Time, now)
		if err != nil {
			return err
		}
	}

	t.Title = title
	t.StartDate = startDate
	t.StartTime = startTime
	t.Description = p.Description.apply(t.Description)
	t.URL = p.URL.apply(t.URL)
	t.UpdatedAt = now.UTC()
	return nil
}

// mergeStart recomputes the start timestamp. Parts that are not set take
// their value from the previous start, if there was one.
func (t *Todo) mergeStart(date, clock Update[string], now time.Time) (*time.Time, *time.Time, error) {
	prev, hadStart := t.Start()

	var dateIn, clockIn *string
	if v, ok := date.Value(); ok {
		dateIn = &v
	} else if hadStart {
		s := prev.UTC().Format(DateLayout)
		dateIn = &s
	}
	if v, ok := clock.Value(); ok {
		clockIn = &v
	} else if clock.IsKeep() && t.StartTime != nil {
		s := t.StartTime.UTC().Format(TimeLayout)
		clockIn = &s
	}

	start, err := Combine(dateIn, clockIn, now)
	if err != nil {
		return nil, nil, err
	}

	hasDate := date.IsSet() || (date.IsKeep() && t.StartDate != nil)
	hasTime := clock.IsSet() || (clock.IsKeep() && t.StartTime != nil)

	var startDate, startTime *time.Time
	if hasDate {
		d := start
		startDate = &d
	}
	if hasTime {
		c := start
		startTime = &c
	}
	return startDate, startTime, nil
}
