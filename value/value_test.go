package value

import (
	"math"
	"testing"
	"time"

	"github.com/fulldump/biff"
)

func TestFromAny(t *testing.T) {

	v := FromAny(map[string]interface{}{
		"s": "text",
		"i": 3,
		"f": 1.5,
		"b": true,
		"n": nil,
		"l": []interface{}{"a", 1},
		"m": map[string]interface{}{"x": int64(2)},
	})

	r, ok := v.AsRecord()
	biff.AssertTrue(ok)
	biff.AssertEqual(r["s"], String("text"))
	biff.AssertEqual(r["i"], Number(3))
	biff.AssertEqual(r["f"], Number(1.5))
	biff.AssertEqual(r["b"], Bool(true))
	biff.AssertTrue(r["n"].IsNull())
	biff.AssertEqual(r["l"], List(String("a"), Int(1)))
	biff.AssertEqual(r["m"], Map(Record{"x": Int(2)}))
	biff.AssertEqual(v.Interface(), map[string]interface{}{
		"s": "text",
		"i": 3.0,
		"f": 1.5,
		"b": true,
		"n": nil,
		"l": []interface{}{"a", 1.0},
		"m": map[string]interface{}{"x": 2.0},
	})
}

func TestEqual(t *testing.T) {
	now := time.Now()

	biff.AssertTrue(Equal(Int(2), Number(2.0)))
	biff.AssertFalse(Equal(Int(2), String("2")))
	biff.AssertTrue(Equal(Time(now), Time(now.UTC())))
	biff.AssertTrue(Equal(List(Int(1), String("a")), List(Int(1), String("a"))))
	biff.AssertFalse(Equal(List(Int(1)), List(Int(1), Int(2))))
	biff.AssertTrue(Equal(Map(Record{"a": Int(1)}), Map(Record{"a": Int(1)})))
	biff.AssertFalse(Equal(Map(Record{"a": Int(1)}), Map(Record{"b": Int(1)})))
	biff.AssertTrue(Equal(Null(), Null()))
}

func TestCompare(t *testing.T) {
	biff.AssertEqual(Compare(Int(1), Int(2)), -1)
	biff.AssertEqual(Compare(String("b"), String("a")), 1)
	biff.AssertEqual(Compare(Bool(false), Bool(true)), -1)
	biff.AssertEqual(Compare(Null(), Int(0)), -1)
	biff.AssertEqual(Compare(Int(100), String("1")), -1) // numbers before strings
	biff.AssertEqual(Compare(List(Int(1)), List(Int(1), Int(0))), -1)
	biff.AssertEqual(Compare(Map(Record{"a": Int(1)}), Map(Record{"a": Int(1)})), 0)
}

func TestString(t *testing.T) {
	biff.AssertEqual(Number(3).String(), "3")
	biff.AssertEqual(Number(2.5).String(), "2.5")
	biff.AssertEqual(Bool(true).String(), "true")
	biff.AssertEqual(List(String("a"), Int(1)).String(), `["a", 1]`)
	biff.AssertEqual(Map(Record{"b": Int(1), "a": String("x")}).String(), `{"a": "x", "b": 1}`)
}

func TestKey(t *testing.T) {
	negativeZero := Number(math.Copysign(0, -1))
	nan := Number(math.NaN())

	biff.AssertEqual(Int(0).Key(), negativeZero.Key())
	biff.AssertTrue(Int(1).Key() != String("1").Key())
	biff.AssertTrue(String("a,b").Key() != List(String("a"), String("b")).Key())

	// Key agrees with Equal, nested values included
	pairs := [][2]Value{
		{List(negativeZero), List(Int(0))},
		{Map(Record{"x": negativeZero}), Map(Record{"x": Int(0)})},
		{nan, Number(math.NaN())},
		{List(nan), List(Number(math.NaN()))},
		{Time(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)), Time(time.Date(2024, 3, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600)))},
	}
	for _, pair := range pairs {
		biff.AssertTrue(Equal(pair[0], pair[1]))
		biff.AssertEqual(pair[0].Key(), pair[1].Key())
	}
	biff.AssertFalse(Equal(nan, Int(0)))
	biff.AssertTrue(nan.Key() != Int(0).Key())
}

func TestClone(t *testing.T) {
	original := Record{"l": List(String("a"))}
	clone := original.Clone()

	items, _ := clone["l"].AsList()
	items[0] = String("changed")

	biff.AssertEqual(original["l"], List(String("a")))
}

func TestJSON(t *testing.T) {
	r, err := DecodeRecord([]byte(`{"a":1,"b":[true,"x"],"c":{"d":null}}`))
	biff.AssertNil(err)
	biff.AssertEqual(r["a"], Number(1))
	biff.AssertEqual(r["b"], List(Bool(true), String("x")))
	biff.AssertEqualJson(r, map[string]interface{}{"a": 1, "b": []interface{}{true, "x"}, "c": map[string]interface{}{"d": nil}})

	v := Value{}
	biff.AssertNil(v.UnmarshalJSON([]byte(`"hello"`)))
	biff.AssertEqual(v, String("hello"))
}
