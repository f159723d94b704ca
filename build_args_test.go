package stringql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	testCases := []struct {
		statement        string
		expectSQL        string
		expectPositional int
		expectSlots      int
	}{
		{
			statement:        `select * from t where id = %s`,
			expectSQL:        `select * from t where id = $1`,
			expectPositional: 1,
			expectSlots:      1,
		},
		{
			statement:        `insert into t (a, b, c) values (%s, %s, %s)`,
			expectSQL:        `insert into t (a, b, c) values ($1, $2, $3)`,
			expectPositional: 3,
			expectSlots:      3,
		},
		{
			statement:   `insert into t (num, data) values (%(num)s, %(data)s)`,
			expectSQL:   `insert into t (num, data) values ($1, $2)`,
			expectSlots: 2,
		},
		{
			// a repeated name shares one placeholder
			statement:   `select * from t where a = %(x)s or b = %(x)s`,
			expectSQL:   `select * from t where a = $1 or b = $1`,
			expectSlots: 1,
		},
		{
			statement:        `%s and %(x)s and %s`,
			expectSQL:        `$1 and $2 and $3`,
			expectPositional: 2,
			expectSlots:      3,
		},
		{
			statement: `select * from t where note like '100%%'`,
			expectSQL: `select * from t where note like '100%'`,
		},
		{
			statement: `select 10 % 3`,
			expectSQL: `select 10 % 3`,
		},
		{
			statement: `ends with %`,
			expectSQL: `ends with %`,
		},
		{
			statement: `malformed %(abc`,
			expectSQL: `malformed %(abc`,
		},
		{
			statement: `empty name %()s`,
			expectSQL: `empty name %()s`,
		},
		{
			statement: `no closing s %(abc) here`,
			expectSQL: `no closing s %(abc) here`,
		},
		{
			statement: ``,
			expectSQL: ``,
		},
	}
	for i, tc := range testCases {
		t.Run(fmt.Sprintf("[%d]%s", i+1, tc.statement), func(t *testing.T) {
			prog := compile(tc.statement)
			assert.Equal(t, tc.expectSQL, prog.sql)
			assert.Equal(t, tc.expectPositional, prog.positional)
			assert.Equal(t, tc.expectSlots, len(prog.slots))
		})
	}
}

func TestProgramArgs(t *testing.T) {
	mustPayload := func(data any) payload {
		pl, err := normalizePayload(data)
		require.NoError(t, err)
		return pl
	}

	t.Run("sequence in marker order", func(t *testing.T) {
		prog := compile(`values (%s, %s)`)
		args, err := prog.args(mustPayload([]any{100, "hello"}))
		require.NoError(t, err)
		assert.Equal(t, []any{100, "hello"}, args)
	})

	t.Run("mapping by name, repeats included", func(t *testing.T) {
		prog := compile(`a = %(a)s or b = %(b)s or c = %(a)s`)
		args, err := prog.args(mustPayload(map[string]any{"a": 1, "b": 2}))
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, args)
	})

	t.Run("too few members", func(t *testing.T) {
		prog := compile(`values (%s, %s)`)
		_, err := prog.args(mustPayload([]any{100}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWrongNumberOfPlaceholders))
	})

	t.Run("too many members", func(t *testing.T) {
		prog := compile(`values (%s)`)
		_, err := prog.args(mustPayload([]any{100, "hello"}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWrongNumberOfPlaceholders))
	})

	t.Run("missing mapping member", func(t *testing.T) {
		prog := compile(`a = %(a)s and b = %(b)s`)
		_, err := prog.args(mustPayload(map[string]any{"a": 1}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWrongNumberOfPlaceholders))
	})

	t.Run("positional markers refuse a mapping", func(t *testing.T) {
		prog := compile(`values (%s)`)
		_, err := prog.args(mustPayload(map[string]any{"a": 1}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWrongDataArgumentType))
	})

	t.Run("named markers refuse a sequence", func(t *testing.T) {
		prog := compile(`a = %(a)s`)
		_, err := prog.args(mustPayload([]any{1}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrWrongDataArgumentType))
	})

	t.Run("absent payload binds nothing", func(t *testing.T) {
		prog := compile(`a = %s`)
		args, err := prog.args(mustPayload(nil))
		require.NoError(t, err)
		assert.Nil(t, args)
	})
}

func TestPlaceholderCount(t *testing.T) {
	testCases := []struct {
		statement string
		expect    int
	}{
		{`select 1`, 0},
		{`id = %s`, 1},
		{`%s %s %s`, 3},
		{`%(a)s %(b)s %(a)s`, 2},
		{`%s %(a)s`, 2},
		{`like '100%%'`, 0},
	}
	for i, tc := range testCases {
		t.Run(fmt.Sprintf("[%d]%s", i+1, tc.statement), func(t *testing.T) {
			assert.Equal(t, tc.expect, PlaceholderCount(tc.statement))
		})
	}
}
