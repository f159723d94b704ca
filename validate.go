package stringql

import (
	"fmt"
	"strings"
)

// validateRequest runs the checks DoQuery applies before any SQL is
// composed: the mode must be known and the payload shape must suit both the
// mode and the template.
//
// Reads accept a sequence payload or none. Writes additionally accept a
// mapping payload, but only when the template carries the {fields} and
// {placeholders} tokens for it to expand into.
func validateRequest(mode Mode, query string, data any) (payload, error) {
	if err := mode.check(); err != nil {
		return payload{}, err
	}
	pl, err := normalizePayload(data)
	if err != nil {
		return payload{}, err
	}
	switch pl.kind {
	case payloadScalar:
		return payload{}, fmt.Errorf("payload must be a slice, array, string-keyed map or Record, got %T: %w",
			data, ErrWrongDataArgumentType)
	case payloadMapping:
		if !mode.writes() {
			return payload{}, fmt.Errorf("mapping payloads need mode %q or %q: %w", Write, WriteReturning, ErrWrongDataArgumentType)
		}
		if !strings.Contains(query, fieldsToken) || !strings.Contains(query, placeholdersToken) {
			return payload{}, fmt.Errorf("mapping payload needs both %s and %s in the template: %w",
				fieldsToken, placeholdersToken, ErrWrongDataArgumentType)
		}
	}
	return pl, nil
}

// checkPlaceholderCount compares the positional markers of a compiled
// statement against the sequence payload feeding them. Mapping payloads are
// checked marker by marker when arguments are resolved, and an absent
// payload is left for the database to judge.
func checkPlaceholderCount(prog *program, pl payload) error {
	if pl.kind != payloadSequence {
		return nil
	}
	if prog.positional != len(pl.seq) {
		return fmt.Errorf("statement has %d positional markers but payload has %d members: %w",
			prog.positional, len(pl.seq), ErrWrongNumberOfPlaceholders)
	}
	return nil
}
