package stringql

import (
	"fmt"
	"strings"
)

// Tokens reserved for mapping expansion. When the payload is a mapping they
// are filled from its field names, so they may not also appear as keyword
// arguments.
const (
	fieldsToken       = "{fields}"
	placeholdersToken = "{placeholders}"
)

// Statement is a parameterized statement: the template text with every brace
// token resolved, still carrying its %s / %(name)s value markers and the
// payload that will feed them.
//
// Statements are created by Parameterize and are immutable.
type Statement struct {
	text    string
	payload payload
}

// String returns the statement text, markers included.
func (s *Statement) String() string {
	return s.text
}

// Bind rewrites the value markers to PostgreSQL $1..$n placeholders and
// resolves their arguments from the payload, ready to hand to the database.
func (s *Statement) Bind() (string, []any, error) {
	prog := compile(s.text)
	args, err := prog.args(s.payload)
	if err != nil {
		return "", nil, err
	}
	return prog.sql, args, nil
}

// Parameterize resolves the brace tokens of a template.
//
// Each keyword argument replaces the token of its name, rendered per the
// rules on Kwargs. When data is a mapping (a Record or a string-keyed map),
// the template must also contain the {fields} and {placeholders} tokens:
// {fields} becomes the comma-separated quoted field names and {placeholders}
// the matching %(name)s markers, skipping any field named in dropKeys. A
// Record expands its fields in written order; a plain map expands in sorted
// key order, since Go maps carry no insertion order. Value markers are left
// for Bind; tokens nobody resolves pass through untouched.
//
// A template with no keyword arguments and no mapping payload is returned
// verbatim.
func Parameterize(query string, data any, kwargs Kwargs, dropKeys ...string) (*Statement, error) {
	pl, err := normalizePayload(data)
	if err != nil {
		return nil, err
	}
	if len(kwargs) == 0 && pl.kind != payloadMapping {
		return &Statement{text: query, payload: pl}, nil
	}
	pairs := make([]string, 0, 2*len(kwargs)+4)
	for name, value := range kwargs {
		pairs = append(pairs, "{"+name+"}", renderKeyword(value))
	}
	if pl.kind == payloadMapping {
		if _, clash := kwargs["fields"]; clash {
			return nil, fmt.Errorf("keyword argument %q is reserved for mapping expansion: %w", "fields", ErrTooManyKwargs)
		}
		if _, clash := kwargs["placeholders"]; clash {
			return nil, fmt.Errorf("keyword argument %q is reserved for mapping expansion: %w", "placeholders", ErrTooManyKwargs)
		}
		if !strings.Contains(query, fieldsToken) || !strings.Contains(query, placeholdersToken) {
			return nil, fmt.Errorf("mapping payload needs both %s and %s in the template: %w",
				fieldsToken, placeholdersToken, ErrQueryMissingElements)
		}
		names := pl.names(dropKeys)
		markers := make([]string, len(names))
		for i, name := range names {
			markers[i] = "%(" + name + ")s"
		}
		pairs = append(pairs,
			fieldsToken, quoteIdentList(names),
			placeholdersToken, strings.Join(markers, ", "),
		)
	}
	text := strings.NewReplacer(pairs...).Replace(query)
	return &Statement{text: text, payload: pl}, nil
}
