// ABOUTME: Scripted (non-interactive) mode replaying an edit script on several documents
// ABOUTME: Runs one goroutine per document with its own undo manager via errgroup

package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/drawkit-undo-go/internal/canvas"
	"github.com/mauromedda/drawkit-undo-go/internal/history"
	"github.com/mauromedda/drawkit-undo-go/internal/log"
	"github.com/mauromedda/drawkit-undo-go/pkg/undo"
)

var logger = log.For("script")

// Config configures a scripted run.
type Config struct {
	Docs    int           // number of documents, each with its own manager
	Options []undo.Option // manager options shared by every document
	Width   int           // history row width in the report
}

// Report is the outcome of running a script on one document.
type Report struct {
	Name    string
	Shapes  []canvas.Shape
	Entries []history.Entry
	Changes int
}

// Run executes steps on cfg.Docs documents concurrently and writes one
// report per document to w, in document order.
func Run(ctx context.Context, cfg Config, steps []Step, w io.Writer) error {
	if cfg.Docs < 1 {
		cfg.Docs = 1
	}
	if cfg.Width <= 0 {
		cfg.Width = 48
	}

	reports := make([]Report, cfg.Docs)
	g, gCtx := errgroup.WithContext(ctx)
	for i := range cfg.Docs {
		g.Go(func() error {
			doc := canvas.New(fmt.Sprintf("doc-%d", i+1), undo.NewManager(cfg.Options...))
			if err := Execute(gCtx, doc, steps); err != nil {
				return fmt.Errorf("%s: %w", doc.Name(), err)
			}
			reports[i] = Snapshot(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range reports {
		if _, err := io.WriteString(w, FormatReport(r, cfg.Width)); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

// Execute runs steps against doc, ending an event cycle after each one.
func Execute(ctx context.Context, doc *canvas.Document, steps []Step) error {
	m := doc.UndoManager()
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(doc, s); err != nil {
			return fmt.Errorf("line %d (%s): %w", s.Line, s.Op, err)
		}
		m.NotifyEventCycleEnded()
	}
	return nil
}

func apply(doc *canvas.Document, s Step) error {
	m := doc.UndoManager()
	switch s.Op {
	case "add":
		n := doc.Len()
		_, err := doc.AddShape(s.text(0), canvas.Point{X: float64(10 * n), Y: float64(10 * n)}, canvas.Size{W: 20, H: 10}, "white")
		return err
	case "move":
		return doc.MoveBy(s.id(), s.num(1), s.num(2))
	case "drag":
		return drag(doc, s.id(), s.num(1), s.num(2), int(s.num(3)))
	case "resize":
		return doc.ResizeShape(s.id(), s.num(1), s.num(2))
	case "fill":
		return doc.SetFill(s.id(), s.Args[1])
	case "rename":
		return doc.Rename(s.id(), s.text(1))
	case "delete":
		return doc.RemoveShape(s.id())
	case "purge":
		return doc.PurgeShape(s.id())
	case "undo":
		return replay(m.Undo)
	case "redo":
		return replay(m.Redo)
	case "begin":
		m.BeginUndoGrouping()
		return nil
	case "end":
		return m.EndUndoGrouping()
	case "name":
		m.SetActionName(s.text(0))
		return nil
	}
	return fmt.Errorf("unknown command %q", s.Op)
}

// drag moves a shape in equal increments inside one explicit group, the way
// an interactive drag does.
func drag(doc *canvas.Document, id int, dx, dy float64, steps int) error {
	m := doc.UndoManager()
	steps = max(steps, 1)
	m.BeginUndoGrouping()
	var err error
	for range steps {
		if err = doc.MoveBy(id, dx/float64(steps), dy/float64(steps)); err != nil {
			break
		}
	}
	return errors.Join(err, m.EndUndoGrouping())
}

func replay(fn func() (bool, error)) error {
	ok, err := fn()
	if err != nil {
		return err
	}
	if !ok {
		logger.Debug("nothing to replay")
	}
	return nil
}

// Snapshot captures a document's shapes and history.
func Snapshot(doc *canvas.Document) Report {
	m := doc.UndoManager()
	return Report{
		Name:    doc.Name(),
		Shapes:  doc.Shapes(),
		Entries: history.Entries(m),
		Changes: m.ChangeCount(),
	}
}

// FormatReport renders a report as plain text.
func FormatReport(r Report, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s (%d changes)\n", r.Name, r.Changes)
	for i := range r.Shapes {
		fmt.Fprintf(&b, "  %s\n", r.Shapes[i].String())
	}
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "  %s\n", history.FormatRow(e, width))
	}
	return b.String()
}
