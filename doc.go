// Package stringql - SQL string templates for PostgreSQL
//
/*
Composes SQL statements from templates with {name} tokens for identifiers
and %s / %(name)s markers for values, quoting the identifiers and binding
the values as real placeholders so neither is spliced in as text.

Example:

  engine := stringql.New(cfg)
  db, err := engine.Connect(ctx)

  rows, err := engine.DoQuery(ctx, db, stringql.Read,
    `select {col} from {table} where id = %s`,
    []any{42},
    stringql.Kwargs{"col": "name", "table": "name_table"})

Mapping payloads expand into insert statements, with {fields} and
{placeholders} filled from the payload's field names:

  rows, err = engine.DoQuery(ctx, db, stringql.WriteReturning,
    `insert into {table} ({fields}) values ({placeholders}) returning id`,
    stringql.Record{{"num", 100}, {"data", "hello"}},
    stringql.Kwargs{"table": "name_table"})
*/
package stringql
