package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindTime
	KindList
	KindMap
)

var kindNames = map[Kind]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindTime:   "time",
	KindList:   "list",
	KindMap:    "map",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Value is a tagged union holding any document field. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
	l    []Value
	m    Record
}

// Record is a document: field name to value.
type Record map[string]Value

func Null() Value            { return Value{} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }
func Int(i int64) Value      { return Value{kind: KindNumber, n: float64(i)} }
func String(s string) Value  { return Value{kind: KindString, s: s} }
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, l: items}
}
func Map(m Record) Value {
	if m == nil {
		m = Record{}
	}
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool)      { return v.b, v.kind == KindBool }
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }
func (v Value) AsString() (string, bool)  { return v.s, v.kind == KindString }
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindTime }
func (v Value) AsList() ([]Value, bool)   { return v.l, v.kind == KindList }
func (v Value) AsRecord() (Record, bool)  { return v.m, v.kind == KindMap }

// FromAny converts a decoded JSON/msgpack tree (or plain Go values) into a
// Value. Unknown types are stringified.
func FromAny(i interface{}) Value {
	switch x := i.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case Record:
		return Map(x)
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case interface{ Float64() (float64, error) }: // json.Number
		f, err := x.Float64()
		if err != nil {
			return String(fmt.Sprint(x))
		}
		return Number(f)
	case time.Time:
		return Time(x)
	case []Value:
		return List(x...)
	case []interface{}:
		items := make([]Value, len(x))
		for n, item := range x {
			items[n] = FromAny(item)
		}
		return List(items...)
	case []string:
		items := make([]Value, len(x))
		for n, item := range x {
			items[n] = String(item)
		}
		return List(items...)
	case map[string]interface{}:
		return Map(RecordFromMap(x))
	case map[interface{}]interface{}:
		m := make(Record, len(x))
		for k, item := range x {
			m[fmt.Sprint(k)] = FromAny(item)
		}
		return Map(m)
	default:
		return String(fmt.Sprint(x))
	}
}

func RecordFromMap(m map[string]interface{}) Record {
	r := make(Record, len(m))
	for k, item := range m {
		r[k] = FromAny(item)
	}
	return r
}

// Interface converts back to plain Go values: nil, bool, float64, string,
// time.Time, []interface{} and map[string]interface{}.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindTime:
		return v.t
	case KindList:
		items := make([]interface{}, len(v.l))
		for n, item := range v.l {
			items[n] = item.Interface()
		}
		return items
	case KindMap:
		return v.m.Map()
	}
	return nil
}

func (r Record) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r))
	for k, item := range r {
		m[k] = item.Interface()
	}
	return m
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.l))
		for n, item := range v.l {
			items[n] = item.Clone()
		}
		return Value{kind: KindList, l: items}
	case KindMap:
		return Value{kind: KindMap, m: v.m.Clone()}
	}
	return v
}

func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	for k, item := range r {
		c[k] = item.Clone()
	}
	return c
}

// Equal is deep equality. Numbers compare numerically (NaN equals NaN, as
// document stores match it), times by instant.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n || (math.IsNaN(a.n) && math.IsNaN(b.n))
	case KindString:
		return a.s == b.s
	case KindTime:
		return a.t.Equal(b.t)
	case KindList:
		if len(a.l) != len(b.l) {
			return false
		}
		for n := range a.l {
			if !Equal(a.l[n], b.l[n]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.m) != len(b.m) {
			return false
		}
		for k, item := range a.m {
			other, exists := b.m[k]
			if !exists || !Equal(item, other) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare is a total order over all values: values of different kinds are
// ordered by kind, values of the same kind by content. Never panics.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindBool:
		if a.b == b.b {
			return 0
		}
		if !a.b {
			return -1
		}
		return 1
	case KindNumber:
		return compareFloat(a.n, b.n)
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindTime:
		return a.t.Compare(b.t)
	case KindList:
		for n := 0; n < len(a.l) && n < len(b.l); n++ {
			if c := Compare(a.l[n], b.l[n]); c != 0 {
				return c
			}
		}
		return compareInt(len(a.l), len(b.l))
	case KindMap:
		return strings.Compare(a.String(), b.String())
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	// NaN sorts first
	if math.IsNaN(a) && !math.IsNaN(b) {
		return -1
	}
	if !math.IsNaN(a) && math.IsNaN(b) {
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// String renders the value as plain text. It is what `$regex` searches in.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindList:
		parts := make([]string, len(v.l))
		for n, item := range v.l {
			parts[n] = item.quoted()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for n, k := range keys {
			parts[n] = strconv.Quote(k) + ": " + v.m[k].quoted()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}

func (v Value) quoted() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}
	return v.String()
}

// Key is a canonical string usable as a map key: two values share a key iff
// they are Equal.
func (v Value) Key() string {
	b := &strings.Builder{}
	v.writeKey(b)
	return b.String()
}

func (v Value) writeKey(b *strings.Builder) {
	b.WriteString(v.kind.String())
	b.WriteByte(':')
	switch v.kind {
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		n := v.n
		if n == 0 {
			n = 0 // -0
		}
		b.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindTime:
		b.WriteString(v.t.UTC().Format(time.RFC3339Nano))
	case KindList:
		b.WriteByte('[')
		for n, item := range v.l {
			if n > 0 {
				b.WriteByte(',')
			}
			item.writeKey(b)
		}
		b.WriteByte(']')
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for n, k := range keys {
			if n > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			v.m[k].writeKey(b)
		}
		b.WriteByte('}')
	}
}
