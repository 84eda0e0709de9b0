// Package cil lowers a decoded policy package to CIL text. The entry point
// is Translate; the rest of the package walks the policy database and
// writes one parenthesised form at a time.
package cil

import (
	"fmt"
	"io"

	"github.com/go-errors/errors"
)

// Emitter writes the CIL stream. Indentation is four spaces per level. A
// write failure is remembered and every later write becomes a no-op; the
// output is useless once truncated, so nothing tries to recover. The
// emitter also owns the synthesized-attribute counter, so concurrent
// translations with separate emitters cannot collide.
type Emitter struct {
	w        io.Writer
	err      error
	numAttrs int
}

// NewEmitter returns an emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Indent writes the leading whitespace for the given indent level.
func (e *Emitter) Indent(indent int) {
	e.Printf("%*s", indent*4, "")
}

// Printf writes a formatted token sequence.
func (e *Emitter) Printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	if _, err := fmt.Fprintf(e.w, format, args...); err != nil {
		e.err = errors.Errorf("failed to write to output: %s", err)
	}
}

// Println writes a whole newline-terminated line at the given indent.
func (e *Emitter) Println(indent int, format string, args ...interface{}) {
	e.Indent(indent)
	e.Printf(format, args...)
	e.Printf("\n")
}

// Err returns the first write failure, if any.
func (e *Emitter) Err() error {
	return e.err
}

// nextAttrNum hands out the next synthesized-attribute number. Numbers are
// unique within one emitter's lifetime.
func (e *Emitter) nextAttrNum() int {
	e.numAttrs++
	return e.numAttrs
}
