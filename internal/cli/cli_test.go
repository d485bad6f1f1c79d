package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

// result captures one CLI invocation.
type result struct {
	stdout string
	stderr string
	err    error
}

// withHome isolates a test from the user's real ~/.todo.
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("TODO_HOME", home)
	return home
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(context.Background(), args, &out, &errOut)
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

// mustRun runs args and fails the test on a non-zero exit or any stderr.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	r := run(t, args...)
	if r.err != nil {
		t.Fatalf("todo %s: exit error %v\nstderr: %s", strings.Join(args, " "), r.err, r.stderr)
	}
	if r.stderr != "" {
		t.Fatalf("todo %s: unexpected stderr: %s", strings.Join(args, " "), r.stderr)
	}
	return r.stdout
}

// addTodo runs add and returns the new uuid.
func addTodo(t *testing.T, args ...string) string {
	t.Helper()
	out := mustRun(t, append([]string{"add"}, args...)...)
	for _, line := range strings.Split(out, "\n") {
		if id, ok := strings.CutPrefix(line, "uuid: "); ok {
			return strings.TrimSpace(id)
		}
	}
	t.Fatalf("no uuid in add output: %q", out)
	return ""
}

// listLines returns the table rows of a listing, without the header.
func listLines(t *testing.T, args ...string) []string {
	t.Helper()
	out := mustRun(t, append([]string{"list", "--color", "never"}, args...)...)
	if strings.TrimSpace(out) == "No todos found." {
		return nil
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "DONE") {
		t.Fatalf("unexpected list output: %q", out)
	}
	return lines[1:]
}

// expectCommandError checks a command failed in-band: message on stderr,
// zero exit status.
func expectCommandError(t *testing.T, r result, want string) {
	t.Helper()
	if r.err != nil {
		t.Errorf("command error should not fail the process, got %v", r.err)
	}
	if !strings.Contains(r.stderr, want) {
		t.Errorf("stderr = %q, want it to contain %q", r.stderr, want)
	}
}
