package codegen

import (
	"fmt"
	"strings"
)

// emitter accumulates generated source with consistent indentation.
type emitter struct {
	b      strings.Builder
	indent int
	width  int
}

func newEmitter(width int) *emitter {
	if width <= 0 {
		width = 4
	}
	return &emitter{width: width}
}

func (e *emitter) line(format string, args ...any) {
	e.b.WriteString(strings.Repeat(" ", e.indent*e.width))
	fmt.Fprintf(&e.b, format, args...)
	e.b.WriteString("\n")
}

func (e *emitter) blank() {
	e.b.WriteString("\n")
}

// open emits `{` and indents.
func (e *emitter) open() {
	e.line("{")
	e.indent++
}

// close dedents and emits `}`.
func (e *emitter) close() {
	e.indent--
	e.line("}")
}

// String returns the emitted text, whitespace-normalized: no trailing
// newline, so textual comparison in tests is stable.
func (e *emitter) String() string {
	return strings.TrimRight(e.b.String(), "\n")
}
