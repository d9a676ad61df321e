// ABOUTME: Parser for line-oriented edit scripts driven against a canvas document
// ABOUTME: One command per line; blank lines and # comments are ignored

package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Step is one parsed script command. Each step runs as its own event cycle.
type Step struct {
	Line int
	Op   string
	Args []string
}

// arity maps each command to its argument count; -1 means "one or more".
var arity = map[string]int{
	"add":    -1, // add NAME...
	"move":   3,  // move ID DX DY
	"drag":   4,  // drag ID DX DY STEPS
	"resize": 3,  // resize ID W H
	"fill":   2,  // fill ID COLOR
	"rename": -1, // rename ID NAME...
	"delete": 1,  // delete ID
	"purge":  1,  // purge ID
	"undo":   0,
	"redo":   0,
	"begin":  0,
	"end":    0,
	"name":   -1, // name ACTION...
}

// numeric lists the argument positions that must parse as numbers.
var numeric = map[string][]int{
	"move":   {0, 1, 2},
	"drag":   {0, 1, 2, 3},
	"resize": {0, 1, 2},
	"fill":   {0},
	"rename": {0},
	"delete": {0},
	"purge":  {0},
}

// Parse reads a script. It reports the first malformed line.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		step := Step{Line: line, Op: strings.ToLower(fields[0]), Args: fields[1:]}
		if err := step.validate(); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return steps, nil
}

// ParseString is Parse over an in-memory script.
func ParseString(s string) ([]Step, error) {
	return Parse(strings.NewReader(s))
}

func (s Step) validate() error {
	n, ok := arity[s.Op]
	if !ok {
		return fmt.Errorf("line %d: unknown command %q", s.Line, s.Op)
	}
	switch {
	case n < 0 && len(s.Args) == 0:
		return fmt.Errorf("line %d: %s needs an argument", s.Line, s.Op)
	case s.Op == "rename" && len(s.Args) < 2:
		return fmt.Errorf("line %d: rename needs ID and NAME", s.Line)
	case n >= 0 && len(s.Args) != n:
		return fmt.Errorf("line %d: %s takes %d arguments, got %d", s.Line, s.Op, n, len(s.Args))
	}
	for _, i := range numeric[s.Op] {
		if _, err := strconv.ParseFloat(s.Args[i], 64); err != nil {
			return fmt.Errorf("line %d: %s argument %d: %q is not a number", s.Line, s.Op, i+1, s.Args[i])
		}
	}
	return nil
}

func (s Step) num(i int) float64 {
	f, _ := strconv.ParseFloat(s.Args[i], 64)
	return f
}

func (s Step) id() int { return int(s.num(0)) }

func (s Step) text(from int) string { return strings.Join(s.Args[from:], " ") }

// DefaultScript exercises grouping, coalescing, undo and redo.
const DefaultScript = `# two shapes, a drag, a grouped restyle, then history travel
add Rectangle
add Ellipse
drag 1 40 10 8
move 2 5 5
begin
fill 2 blue
resize 2 30 12
name Restyle Ellipse
end
undo
undo
redo
rename 1 Header
`
