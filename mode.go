package stringql

import "fmt"

// Mode selects how a statement is executed and what it is expected to
// return.
type Mode string

const (
	// Read executes the statement as a query and returns its rows.
	Read Mode = "r"
	// Write executes the statement without returning rows.
	Write Mode = "w"
	// WriteReturning executes a write that carries a RETURNING clause and
	// returns the produced rows.
	WriteReturning Mode = "wr"
)

func (m Mode) valid() bool {
	switch m {
	case Read, Write, WriteReturning:
		return true
	}
	return false
}

// writes reports whether the mode mutates data.
func (m Mode) writes() bool {
	return m == Write || m == WriteReturning
}

// returnsRows reports whether execution yields a row set.
func (m Mode) returnsRows() bool {
	return m == Read || m == WriteReturning
}

func (m Mode) check() error {
	if !m.valid() {
		return fmt.Errorf("mode %q is not one of %q, %q or %q: %w", string(m), Read, Write, WriteReturning, ErrWrongModeArgument)
	}
	return nil
}
