package cli

import (
	"encoding/json"
	"testing"
)

func showJSON(t *testing.T, id string) todoView {
	t.Helper()
	var v todoView
	if err := json.Unmarshal([]byte(mustRun(t, "show", id, "-o", "json")), &v); err != nil {
		t.Fatalf("decode show json: %v", err)
	}
	return v
}

func TestEditCmd_TitleKeepsOtherFields(t *testing.T) {
	withHome(t)

	id := addTodo(t, "A", "-d", "x", "--date", "2024-01-01")
	before := showJSON(t, id)

	if out := mustRun(t, "edit", id, "-t", "B"); out != "Todo updated successfully.\n" {
		t.Errorf("edit output = %q", out)
	}

	after := showJSON(t, id)
	if after.Title != "B" {
		t.Errorf("title = %q, want B", after.Title)
	}
	if after.Description == nil || *after.Description != "x" {
		t.Errorf("description = %v, want x", after.Description)
	}
	if after.StartDate == nil || *after.StartDate != "2024-01-01" {
		t.Errorf("start date = %v, want 2024-01-01", after.StartDate)
	}
	if after.CreatedAt != before.CreatedAt || after.UUID != before.UUID {
		t.Error("edit changed identity fields")
	}
}

func TestEditCmd_SetAndClear(t *testing.T) {
	withHome(t)

	id := addTodo(t, "A", "-u", "https://a", "--date", "2024-01-01")

	mustRun(t, "edit", id, "--time", "18:00", "-d", "notes")
	v := showJSON(t, id)
	if v.StartDate == nil || *v.StartDate != "2024-01-01" || v.StartTime == nil || *v.StartTime != "18:00:00" {
		t.Errorf("start after --time = %v %v, want 2024-01-01 18:00:00", v.StartDate, v.StartTime)
	}
	if v.Description == nil || *v.Description != "notes" {
		t.Errorf("description = %v", v.Description)
	}

	mustRun(t, "edit", id, "--clear-url", "--clear-date", "--clear-time")
	v = showJSON(t, id)
	if v.URL != nil || v.StartDate != nil || v.StartTime != nil {
		t.Errorf("cleared fields still present: url %v date %v time %v", v.URL, v.StartDate, v.StartTime)
	}
	if v.Description == nil {
		t.Error("description should be kept")
	}
}

func TestEditCmd_Errors(t *testing.T) {
	withHome(t)
	id := addTodo(t, "A")

	expectCommandError(t, run(t, "edit", id, "-t", " "), "title is required")
	expectCommandError(t, run(t, "edit", id, "--date", "01/02/2024"), "invalid date")
	expectCommandError(t, run(t, "edit", "bogus", "-t", "B"), "invalid uuid")
	expectCommandError(t, run(t, "edit", "6f1c6b5e-8a53-4a43-9a4e-0d8f0c6f3c11", "-t", "B"), "not found")

	if v := showJSON(t, id); v.Title != "A" {
		t.Errorf("failed edits changed the title to %q", v.Title)
	}

	if r := run(t, "edit", id, "-u", "x", "--clear-url"); r.err == nil {
		t.Error("conflicting --url and --clear-url should fail the process")
	}
}
