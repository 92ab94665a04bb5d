// Package update applies Mongo style update documents to a single record.
package update

import (
	"sort"

	"github.com/fulldump/fallbackdb/value"
)

type Operator int

// Declaration order is application order.
const (
	OpSet Operator = iota
	OpPush
	OpInc
	OpUnset
)

var operatorNames = map[string]Operator{
	"$set":   OpSet,
	"$push":  OpPush,
	"$inc":   OpInc,
	"$unset": OpUnset,
}

func ParseOperator(name string) (Operator, bool) {
	op, ok := operatorNames[name]
	return op, ok
}

func (o Operator) String() string {
	for name, op := range operatorNames {
		if op == o {
			return name
		}
	}
	return "unknown"
}

type Step struct {
	Operator Operator
	Field    string
	Value    value.Value
}

// Update is a compiled update document. Unknown operators and plain
// (non operator) keys are dropped.
type Update struct {
	Steps []Step
}

func Compile(doc value.Record) *Update {
	u := &Update{}
	for name, arguments := range doc {
		op, ok := ParseOperator(name)
		if !ok {
			continue
		}
		fields, ok := arguments.AsRecord()
		if !ok {
			continue
		}
		for field, v := range fields {
			u.Steps = append(u.Steps, Step{Operator: op, Field: field, Value: v})
		}
	}
	sort.SliceStable(u.Steps, func(i, j int) bool {
		if u.Steps[i].Operator != u.Steps[j].Operator {
			return u.Steps[i].Operator < u.Steps[j].Operator
		}
		return u.Steps[i].Field < u.Steps[j].Field
	})
	return u
}

func New(doc map[string]interface{}) *Update {
	return Compile(value.RecordFromMap(doc))
}

// Touches reports whether any step writes field.
func (u *Update) Touches(field string) bool {
	for _, step := range u.Steps {
		if step.Field == field {
			return true
		}
	}
	return false
}

// Apply mutates record in place and reports whether anything changed.
func (u *Update) Apply(record value.Record) (changed bool) {
	for _, step := range u.Steps {
		if step.apply(record) {
			changed = true
		}
	}
	return
}

func (s Step) apply(record value.Record) bool {
	current, exists := record[s.Field]

	switch s.Operator {
	case OpSet:
		if exists && value.Equal(current, s.Value) {
			return false
		}
		record[s.Field] = s.Value.Clone()
		return true

	case OpPush:
		items, ok := current.AsList()
		if !exists || !ok {
			items = nil
		}
		pushed := make([]value.Value, 0, len(items)+1)
		pushed = append(pushed, items...)
		pushed = append(pushed, s.Value.Clone())
		record[s.Field] = value.List(pushed...)
		return true

	case OpInc:
		delta, ok := s.Value.AsNumber()
		if !ok {
			return false
		}
		base, _ := current.AsNumber() // absent or non numeric counts as zero
		next := value.Number(base + delta)
		if exists && value.Equal(current, next) {
			return false
		}
		record[s.Field] = next
		return true

	case OpUnset:
		if !exists {
			return false
		}
		delete(record, s.Field)
		return true
	}

	return false
}
