// ABOUTME: Tests for edit script parsing and concurrent scripted runs
// ABOUTME: Checks final document state and history after the default script

package script

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mauromedda/drawkit-undo-go/internal/canvas"
	"github.com/mauromedda/drawkit-undo-go/pkg/undo"
)

func TestParse(t *testing.T) {
	t.Parallel()

	steps, err := ParseString("# comment\n\nadd Big Box\n  MOVE 1 2 3\nundo\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 3 {
		t.Fatalf("len(steps) = %d, want 3", len(steps))
	}
	if steps[0].Line != 3 || steps[0].text(0) != "Big Box" {
		t.Errorf("steps[0] = %+v", steps[0])
	}
	if steps[1].Op != "move" || steps[1].id() != 1 || steps[1].num(2) != 3 {
		t.Errorf("steps[1] = %+v", steps[1])
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   string
	}{
		{name: "unknown", script: "explode 1", want: "unknown command"},
		{name: "arity", script: "move 1 2", want: "takes 3 arguments"},
		{name: "missing name", script: "add", want: "needs an argument"},
		{name: "rename without name", script: "rename 1", want: "needs ID and NAME"},
		{name: "not a number", script: "delete one", want: "not a number"},
		{name: "line number", script: "undo\nredo x", want: "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseString(tt.script)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseString(%q) error = %v, want containing %q", tt.script, err, tt.want)
			}
		})
	}
}

func TestExecute_DefaultScript(t *testing.T) {
	t.Parallel()

	steps, err := ParseString(DefaultScript)
	if err != nil {
		t.Fatal(err)
	}
	doc := canvas.New("doc", undo.NewManager())
	if err := Execute(context.Background(), doc, steps); err != nil {
		t.Fatal(err)
	}

	shapes := doc.Shapes()
	if len(shapes) != 2 {
		t.Fatalf("len(shapes) = %d, want 2", len(shapes))
	}
	if s := shapes[0]; s.Name != "Header" || s.X != 40 || s.Y != 10 {
		t.Errorf("shape 1 = %v", &s)
	}
	if s := shapes[1]; s.X != 15 || s.Y != 15 || s.Fill != "white" || s.W != 20 {
		t.Errorf("shape 2 = %v", &s)
	}

	r := Snapshot(doc)
	names := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		names[i] = e.ActionName
	}
	want := "Rename,Move,Move,Add Ellipse,Add Rectangle"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("history = %q, want %q", got, want)
	}
	if r.Changes != 11 {
		t.Errorf("Changes = %d, want 11", r.Changes)
	}
}

func TestExecute_StepErrorCarriesLine(t *testing.T) {
	t.Parallel()

	steps, err := ParseString("add A\nmove 9 1 1\n")
	if err != nil {
		t.Fatal(err)
	}
	err = Execute(context.Background(), canvas.New("doc", undo.NewManager()), steps)
	if !errors.Is(err, canvas.ErrUnknownShape) || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Execute() = %v, want unknown shape on line 2", err)
	}
}

func TestExecute_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	steps, _ := ParseString("add A\n")
	err := Execute(ctx, canvas.New("doc", undo.NewManager()), steps)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}

func TestRun_ReportsPerDocumentInOrder(t *testing.T) {
	t.Parallel()

	steps, err := ParseString(DefaultScript)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	cfg := Config{Docs: 3, Options: []undo.Option{undo.WithLevelsOfUndo(3)}, Width: 40}
	if err := Run(context.Background(), cfg, steps, &buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	first := strings.Index(out, "== doc-1")
	second := strings.Index(out, "== doc-2")
	third := strings.Index(out, "== doc-3")
	if first < 0 || second < first || third < second {
		t.Fatalf("reports missing or out of order:\n%s", out)
	}
	if strings.Contains(out, "Add Rectangle") {
		t.Errorf("levels of undo = 3 should have evicted the oldest groups:\n%s", out)
	}
}

func TestRun_PropagatesFailure(t *testing.T) {
	t.Parallel()

	steps, _ := ParseString("end\n")
	err := Run(context.Background(), Config{Docs: 2}, steps, &bytes.Buffer{})
	if !errors.Is(err, undo.ErrNotGrouping) {
		t.Errorf("Run() = %v, want ErrNotGrouping", err)
	}
}
