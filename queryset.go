package stringql

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const sqlTag = "sql"

// Query is one statement template of a query set: brace tokens and value
// markers included, ready to hand to Parameterize or DoQuery.
type Query string

func (q Query) String() string {
	return string(q)
}

// NewQuerySet builds the query set struct T, filling every field of type
// stringql.Query from its 'sql' field tag.
//
// Example:
//
//	type NameQueries struct {
//	  Select stringql.Query `sql:"select {cols} from {table} where id = %s"`
//	  Insert stringql.Query `sql:"insert into {table} ({fields}) values ({placeholders})"`
//	  Delete stringql.Query `sql:"delete from {table} where id = %s"`
//	}
//	queries, err := stringql.NewQuerySet[NameQueries]()
//
// If the overall field tag contains no 'sql' tag and no other tags (i.e.
// there are no double-quotes in it) then the entire field tag value is used
// as the template, so long statements can be written across multiple lines:
//
//	type NameQueries struct {
//	  Select stringql.Query `select {cols}
//	  from {table}
//	  where id = %s`
//	}
//
// Nested struct fields are filled the same way.
func NewQuerySet[T any]() (*T, error) {
	var chk T
	if reflect.TypeOf(chk).Kind() != reflect.Struct {
		return nil, errors.New("not a struct")
	}
	r := new(T)
	if err := setQueryFields(reflect.ValueOf(r).Elem()); err != nil {
		return nil, err
	}
	return r, nil
}

// MustCreateQuerySet is the same as NewQuerySet except that it panics on error
func MustCreateQuerySet[T any]() *T {
	r, err := NewQuerySet[T]()
	if err != nil {
		panic(err)
	}
	return r
}

var queryType = reflect.TypeOf(Query(""))

func setQueryFields(rv reflect.Value) error {
	rvt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		fld := rv.Field(i)
		ft := rvt.Field(i)
		if !ft.IsExported() {
			continue
		}
		if fld.Type() == queryType {
			tag, ok := ft.Tag.Lookup(sqlTag)
			if !ok {
				if ft.Tag != "" && !strings.ContainsRune(string(ft.Tag), '"') {
					tag = string(ft.Tag)
				} else {
					return fmt.Errorf("field '%s' does not have '%s' tag", ft.Name, sqlTag)
				}
			}
			fld.Set(reflect.ValueOf(Query(tag)))
		} else if fld.Kind() == reflect.Struct {
			sub := reflect.New(fld.Type()).Elem()
			if err := setQueryFields(sub); err != nil {
				return err
			}
			fld.Set(sub)
		}
	}
	return nil
}
