package stringql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterize(t *testing.T) {
	testCases := []struct {
		query       string
		data        any
		kwargs      Kwargs
		dropKeys    []string
		expectText  string
		expectError error
	}{
		{
			query:      `select {col} from {table} where id = %s`,
			kwargs:     Kwargs{"col": "name", "table": "name_table"},
			expectText: `select "name" from "name_table" where id = %s`,
		},
		{
			query:      `select {cols} from {table}`,
			kwargs:     Kwargs{"cols": []string{"id", "name"}, "table": "name_table"},
			expectText: `select "id", "name" from "name_table"`,
		},
		{
			query:      `select {cols} from t`,
			kwargs:     Kwargs{"cols": []any{"id", "name"}},
			expectText: `select "id", "name" from t`,
		},
		{
			query:      `select {col} from {table} limit {n}`,
			kwargs:     Kwargs{"col": "name", "table": "name_table", "n": 10},
			expectText: `select "name" from "name_table" limit 10`,
		},
		{
			query:      `select * from {table} order by {by}`,
			kwargs:     Kwargs{"table": "t", "by": Raw("id desc")},
			expectText: `select * from "t" order by id desc`,
		},
		{
			query:      `select {col} from {table}`,
			kwargs:     Kwargs{"col": Ident("name"), "table": Ident("name_table")},
			expectText: `select "name" from "name_table"`,
		},
		{
			query:      `select {cols} from t`,
			kwargs:     Kwargs{"cols": IdentList{"a", "b", "c"}},
			expectText: `select "a", "b", "c" from t`,
		},
		{
			// embedded quotes are doubled
			query:      `select {col} from t`,
			kwargs:     Kwargs{"col": `wei"rd`},
			expectText: `select "wei""rd" from t`,
		},
		{
			// tokens nobody resolves pass through
			query:      `select {col} from {table}`,
			kwargs:     Kwargs{"table": "t"},
			expectText: `select {col} from "t"`,
		},
		{
			// a Record expands in the order it was written
			query:      `insert into {table} ({fields}) values ({placeholders})`,
			data:       Record{{"num", 100}, {"data", "hello"}},
			kwargs:     Kwargs{"table": "t"},
			expectText: `insert into "t" ("num", "data") values (%(num)s, %(data)s)`,
		},
		{
			// a plain map expands in sorted key order
			query:      `insert into {table} ({fields}) values ({placeholders})`,
			data:       map[string]any{"num": 100, "data": "hello"},
			kwargs:     Kwargs{"table": "t"},
			expectText: `insert into "t" ("data", "num") values (%(data)s, %(num)s)`,
		},
		{
			query:      `insert into {table} ({fields}) values ({placeholders})`,
			data:       Record{{"num", 100}, {"ignore_me", "please"}, {"data", "hello"}, {"ignore_me_too!", 0}},
			kwargs:     Kwargs{"table": "t"},
			dropKeys:   []string{"ignore_me", "ignore_me_too!"},
			expectText: `insert into "t" ("num", "data") values (%(num)s, %(data)s)`,
		},
		{
			query:       `insert into {table} ({fields}) values ({placeholders})`,
			data:        Record{{"num", 100}},
			kwargs:      Kwargs{"table": "t", "fields": "oops"},
			expectError: ErrTooManyKwargs,
		},
		{
			query:       `insert into {table} ({fields}) values ({placeholders})`,
			data:        Record{{"num", 100}},
			kwargs:      Kwargs{"table": "t", "placeholders": "oops"},
			expectError: ErrTooManyKwargs,
		},
		{
			query:       `insert into {table} (num) values (%(num)s)`,
			data:        map[string]any{"num": 100},
			kwargs:      Kwargs{"table": "t"},
			expectError: ErrQueryMissingElements,
		},
		{
			query:       `insert into t ({fields}) values ({placeholders})`,
			data:        map[int]any{1: "x"},
			expectError: ErrWrongDataArgumentType,
		},
	}
	for i, tc := range testCases {
		t.Run(fmt.Sprintf("[%d]%s", i+1, tc.query), func(t *testing.T) {
			st, err := Parameterize(tc.query, tc.data, tc.kwargs, tc.dropKeys...)
			if tc.expectError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectError))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectText, st.String())
			}
		})
	}
}

func TestParameterizeIdentity(t *testing.T) {
	const query = `select * from name_table where id = %s and note like '100%%'`
	st, err := Parameterize(query, []any{1}, nil)
	require.NoError(t, err)
	assert.Equal(t, query, st.String())
}

func TestStatementBind(t *testing.T) {
	st, err := Parameterize(`insert into {table} ({fields}) values ({placeholders})`,
		Record{{"num", 100}, {"data", "hello"}}, Kwargs{"table": "write_table"})
	require.NoError(t, err)
	text, args, err := st.Bind()
	require.NoError(t, err)
	assert.Equal(t, `insert into "write_table" ("num", "data") values ($1, $2)`, text)
	assert.Equal(t, []any{100, "hello"}, args)
}

func TestStatementBindPositional(t *testing.T) {
	st, err := Parameterize(`update {table} set data = %s where id = %s`,
		[]any{"hello", 7}, Kwargs{"table": "write_table"})
	require.NoError(t, err)
	text, args, err := st.Bind()
	require.NoError(t, err)
	assert.Equal(t, `update "write_table" set data = $1 where id = $2`, text)
	assert.Equal(t, []any{"hello", 7}, args)
}

func TestStatementBindMissingMember(t *testing.T) {
	st, err := Parameterize(`insert into {table} ({fields}) values ({placeholders}) and extra = %(extra)s`,
		Record{{"num", 100}}, Kwargs{"table": "t"})
	require.NoError(t, err)
	_, _, err = st.Bind()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrongNumberOfPlaceholders))
}
