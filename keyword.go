package stringql

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Kwargs are the keyword arguments consumed by Parameterize and DoQuery.
//
// Each entry resolves the brace token of the same name, e.g. a "table" entry
// resolves the {table} token. How the value is rendered depends on its type:
//
//   - string (or Ident) becomes a single double-quoted identifier
//   - []string (or IdentList, or any sequence of strings) becomes a
//     comma-separated list of double-quoted identifiers
//   - Raw is spliced verbatim
//   - anything else is rendered with fmt.Sprint and spliced verbatim
//
// Tokens with no matching entry are left untouched.
type Kwargs map[string]any

// Ident marks a keyword value as a single identifier. Plain strings are
// treated the same way; the type exists for call sites that want to be
// explicit.
type Ident string

// IdentList marks a keyword value as a list of identifiers, rendered
// comma-separated with each element double-quoted.
type IdentList []string

// Raw marks a keyword value to be spliced into the statement verbatim,
// without identifier quoting. The caller vouches for its safety.
type Raw string

// quoteIdent double-quotes an identifier, doubling any embedded quotes.
func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteIdentList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
	}
	return strings.Join(quoted, ", ")
}

// renderKeyword turns a keyword value into the SQL fragment that replaces
// its brace token.
func renderKeyword(value any) string {
	switch v := value.(type) {
	case Ident:
		return quoteIdent(string(v))
	case Raw:
		return string(v)
	case IdentList:
		return quoteIdentList(v)
	case string:
		return quoteIdent(v)
	case []string:
		return quoteIdentList(v)
	}
	if names, ok := stringSequence(value); ok {
		return quoteIdentList(names)
	}
	return fmt.Sprint(value)
}

// stringSequence extracts a slice or array whose elements are all strings,
// covering sequences typed as []any or as named string types.
func stringSequence(value any) ([]string, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type() == reflect.TypeOf([]byte(nil)) {
		return nil, false
	}
	names := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}
		if !elem.IsValid() || elem.Kind() != reflect.String {
			return nil, false
		}
		names[i] = elem.String()
	}
	return names, true
}
