// Package gojq projects records with jq expressions using itchyny/gojq.
package gojq

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/sitestat"
	"github.com/itchyny/gojq"
)

// Query is a compiled jq expression.
type Query struct {
	expr string
	code *gojq.Code
}

// Compile parses and compiles expr. Invalid expressions are reported as
// EINVALID.
func Compile(expr string) (*Query, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, sitestat.Errorf(sitestat.EINVALID, "invalid jq expression %q: %v", expr, err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, sitestat.Errorf(sitestat.EINVALID, "failed to compile jq expression %q: %v", expr, err)
	}
	return &Query{expr: expr, code: code}, nil
}

// Run evaluates the query against rec and returns every emitted value.
// The first evaluation error stops the run.
func (q *Query) Run(rec sitestat.Record) ([]any, error) {
	input, err := normalize(rec)
	if err != nil {
		return nil, err
	}

	values := make([]any, 0)
	iter := q.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			if halt, ok := err.(*gojq.HaltError); ok && halt.Value() == nil {
				break
			}
			return nil, fmt.Errorf("evaluating %q: %w", q.expr, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// Eval compiles expr and runs it against rec.
func Eval(rec sitestat.Record, expr string) ([]any, error) {
	q, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return q.Run(rec)
}

// normalize converts rec into the plain maps and slices gojq operates on.
func normalize(rec sitestat.Record) (any, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return v, nil
}
