package stringql

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errcodesAppendix documents every SQLSTATE code PostgreSQL can raise.
const errcodesAppendix = "https://www.postgresql.org/docs/current/errcodes-appendix.html"

const pgxModulePath = "github.com/jackc/pgx/v5"

// DescribeFailure renders a database error as a multi-line report: driver
// version, server severity, SQLSTATE code and message, whatever diagnostics
// the server attached, the human name of the code's condition class and a
// pointer to the errcodes appendix.
//
// The error itself is not modified; callers keep returning it as received.
// Errors that do not carry a PostgreSQL error are reported with their plain
// message.
func DescribeFailure(err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "driver: pgx %s\n", pgxVersion())
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		fmt.Fprintf(&b, "database error: %v", err)
		return b.String()
	}
	severity := pgErr.Severity
	if severity == "" {
		severity = "ERROR"
	}
	fmt.Fprintf(&b, "%s %s: %s\n", severity, pgErr.Code, pgErr.Message)
	if pgErr.Detail != "" {
		fmt.Fprintf(&b, "detail: %s\n", pgErr.Detail)
	}
	if pgErr.Hint != "" {
		fmt.Fprintf(&b, "hint: %s\n", pgErr.Hint)
	}
	if pgErr.Position > 0 {
		fmt.Fprintf(&b, "at statement position %d\n", pgErr.Position)
	}
	if pgErr.Where != "" {
		fmt.Fprintf(&b, "where: %s\n", pgErr.Where)
	}
	if name := qualifiedObject(pgErr); name != "" {
		fmt.Fprintf(&b, "object: %s\n", name)
	}
	if pgErr.File != "" {
		fmt.Fprintf(&b, "server source: %s:%d in %s\n", pgErr.File, pgErr.Line, pgErr.Routine)
	}
	if class := conditionClass(pgErr.Code); class != "" {
		fmt.Fprintf(&b, "condition class: %s\n", class)
	}
	fmt.Fprintf(&b, "see %s", errcodesAppendix)
	return b.String()
}

// pgxVersion reports the pgx module version baked into the binary, or
// "(unknown)" when build info is unavailable.
func pgxVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(unknown)"
	}
	for _, dep := range info.Deps {
		if dep.Path != pgxModulePath {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "(unknown)"
}

// qualifiedObject joins whichever of schema, table, column and constraint
// the server named in the error.
func qualifiedObject(pgErr *pgconn.PgError) string {
	parts := make([]string, 0, 4)
	if pgErr.SchemaName != "" {
		parts = append(parts, "schema "+pgErr.SchemaName)
	}
	if pgErr.TableName != "" {
		parts = append(parts, "table "+pgErr.TableName)
	}
	if pgErr.ColumnName != "" {
		parts = append(parts, "column "+pgErr.ColumnName)
	}
	if pgErr.ConstraintName != "" {
		parts = append(parts, "constraint "+pgErr.ConstraintName)
	}
	return strings.Join(parts, ", ")
}

// conditionClass names the SQLSTATE condition class of a code, covering the
// classes a statement helper is likely to surface. Unrecognized classes
// return the empty string.
func conditionClass(code string) string {
	switch {
	case pgerrcode.IsConnectionException(code):
		return "connection exception"
	case pgerrcode.IsFeatureNotSupported(code):
		return "feature not supported"
	case pgerrcode.IsDataException(code):
		return "data exception"
	case pgerrcode.IsIntegrityConstraintViolation(code):
		return "integrity constraint violation"
	case pgerrcode.IsInvalidTransactionState(code):
		return "invalid transaction state"
	case pgerrcode.IsInvalidAuthorizationSpecification(code):
		return "invalid authorization specification"
	case pgerrcode.IsInvalidCatalogName(code):
		return "invalid catalog name"
	case pgerrcode.IsInvalidSchemaName(code):
		return "invalid schema name"
	case pgerrcode.IsTransactionRollback(code):
		return "transaction rollback"
	case pgerrcode.IsSyntaxErrororAccessRuleViolation(code):
		return "syntax error or access rule violation"
	case pgerrcode.IsInsufficientResources(code):
		return "insufficient resources"
	case pgerrcode.IsProgramLimitExceeded(code):
		return "program limit exceeded"
	case pgerrcode.IsObjectNotInPrerequisiteState(code):
		return "object not in prerequisite state"
	case pgerrcode.IsOperatorIntervention(code):
		return "operator intervention"
	case pgerrcode.IsSystemError(code):
		return "system error"
	case pgerrcode.IsConfigurationFileError(code):
		return "configuration file error"
	case pgerrcode.IsPLpgSQLError(code):
		return "PL/pgSQL error"
	case pgerrcode.IsInternalError(code):
		return "internal error"
	}
	return ""
}
