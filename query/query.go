// Package query evaluates Mongo style filters against records.
//
// Supported operators are equality, $in, $nin, $or and $regex. Anything else
// compiles to OpIgnored and never restricts the result.
//
// $regex is a substring test over the stringified field value, optionally
// case-insensitive with "$options": "i". It does not evaluate regular
// expressions.
package query

import (
	"strings"

	"github.com/fulldump/fallbackdb/value"
)

type Operator int

const (
	OpIgnored Operator = iota
	OpEq
	OpIn
	OpNin
	OpRegex
	OpOr
)

var operatorNames = map[string]Operator{
	"$in":    OpIn,
	"$nin":   OpNin,
	"$regex": OpRegex,
	"$or":    OpOr,
}

func ParseOperator(name string) Operator {
	return operatorNames[name] // unknown -> OpIgnored
}

func (o Operator) String() string {
	switch o {
	case OpEq:
		return "$eq"
	case OpIn:
		return "$in"
	case OpNin:
		return "$nin"
	case OpRegex:
		return "$regex"
	case OpOr:
		return "$or"
	}
	return "ignored"
}

type Clause struct {
	Field    string
	Operator Operator
	Operand  value.Value

	// $regex
	Pattern         string
	CaseInsensitive bool

	// $or
	Alternatives []*Query
}

// Query is a compiled filter. The zero value and nil match everything.
type Query struct {
	Clauses []Clause
}

// Compile never fails: malformed operands degrade to OpIgnored.
func Compile(filter value.Record) *Query {
	q := &Query{}
	for field, v := range filter {
		if strings.HasPrefix(field, "$") {
			q.Clauses = append(q.Clauses, compileTopLevel(field, v))
			continue
		}
		q.Clauses = append(q.Clauses, compileField(field, v)...)
	}
	return q
}

// New compiles a filter given as plain Go values (e.g. decoded JSON).
func New(filter map[string]interface{}) *Query {
	return Compile(value.RecordFromMap(filter))
}

func compileTopLevel(name string, v value.Value) Clause {
	if ParseOperator(name) != OpOr {
		return Clause{Field: name, Operator: OpIgnored}
	}
	items, ok := v.AsList()
	if !ok {
		return Clause{Field: name, Operator: OpIgnored}
	}
	c := Clause{Field: name, Operator: OpOr, Alternatives: []*Query{}}
	for _, item := range items {
		sub, ok := item.AsRecord()
		if !ok {
			continue
		}
		c.Alternatives = append(c.Alternatives, Compile(sub))
	}
	return c
}

func compileField(field string, v value.Value) []Clause {
	operators, ok := v.AsRecord()
	if !ok || !isOperatorRecord(operators) {
		return []Clause{{Field: field, Operator: OpEq, Operand: v}}
	}

	clauses := []Clause{}
	for name, operand := range operators {
		switch ParseOperator(name) {
		case OpIn:
			clauses = append(clauses, Clause{Field: field, Operator: OpIn, Operand: asList(operand)})
		case OpNin:
			clauses = append(clauses, Clause{Field: field, Operator: OpNin, Operand: asList(operand)})
		case OpRegex:
			options, _ := operators["$options"].AsString()
			clauses = append(clauses, Clause{
				Field:           field,
				Operator:        OpRegex,
				Pattern:         operand.String(),
				CaseInsensitive: strings.Contains(options, "i"),
			})
		default:
			// $options is consumed by $regex; everything else is tolerated
			clauses = append(clauses, Clause{Field: field, Operator: OpIgnored})
		}
	}
	return clauses
}

func isOperatorRecord(r value.Record) bool {
	for k := range r {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func asList(v value.Value) value.Value {
	if _, ok := v.AsList(); ok {
		return v
	}
	return value.List(v)
}

// Match reports whether record satisfies every clause.
func (q *Query) Match(record value.Record) bool {
	if q == nil {
		return true
	}
	for _, c := range q.Clauses {
		if !c.Match(record) {
			return false
		}
	}
	return true
}

func (c Clause) Match(record value.Record) bool {
	switch c.Operator {
	case OpOr:
		for _, alternative := range c.Alternatives {
			if alternative.Match(record) {
				return true
			}
		}
		return false
	case OpIgnored:
		return true
	}

	fieldValue, exists := record[c.Field]

	switch c.Operator {
	case OpEq:
		return exists && value.Equal(fieldValue, c.Operand)
	case OpIn:
		return exists && contains(c.Operand, fieldValue)
	case OpNin:
		return !exists || !contains(c.Operand, fieldValue)
	case OpRegex:
		if !exists {
			return false
		}
		haystack, needle := fieldValue.String(), c.Pattern
		if c.CaseInsensitive {
			haystack, needle = strings.ToLower(haystack), strings.ToLower(needle)
		}
		return strings.Contains(haystack, needle)
	}

	return true
}

func contains(list value.Value, item value.Value) bool {
	items, _ := list.AsList()
	for _, candidate := range items {
		if value.Equal(candidate, item) {
			return true
		}
	}
	return false
}

// IDLookup returns the id when the query is exactly {"_id": literal}.
func (q *Query) IDLookup(idField string) (value.Value, bool) {
	if q == nil || len(q.Clauses) != 1 {
		return value.Null(), false
	}
	c := q.Clauses[0]
	if c.Field != idField || c.Operator != OpEq {
		return value.Null(), false
	}
	return c.Operand, true
}
