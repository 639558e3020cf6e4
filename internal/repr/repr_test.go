package repr

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type point struct {
	X, Y int
	note string
}

type named struct {
	Bar string
}

type custom struct{}

func (custom) Repr() string { return "<custom>" }

type linked struct {
	Next *linked
}

func sampleFunc() {}

func TestRepr_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "nil"},
		{"string", "foo", "'foo'"},
		{"string with single quote", "it's", `"it's"`},
		{"string with both quotes", `it's "x"`, `'it\'s "x"'`},
		{"escapes", "a\nb\tc", `'a\nb\tc'`},
		{"control char", "\x01", `'\x01'`},
		{"unicode kept", "héllo", "'héllo'"},
		{"int", 42, "42"},
		{"negative int64", int64(-7), "-7"},
		{"uint", uint8(255), "255"},
		{"bool", true, "true"},
		{"integral float", 1.0, "1.0"},
		{"fractional float", 2.5, "2.5"},
		{"exponent float", 1e21, "1e+21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Repr(tt.in))
		})
	}
}

func TestRepr_Collections(t *testing.T) {
	assert.Equal(t, "['a', 'b']", Repr([]string{"a", "b"}))
	assert.Equal(t, "[1, 2, 3]", Repr([3]int{1, 2, 3}))
	assert.Equal(t, "nil", Repr([]int(nil)))
	assert.Equal(t, "{'a': 1, 'b': 2}", Repr(map[string]int{"b": 2, "a": 1}))
	assert.Equal(t, "{'foo': 'bar'}", Repr(map[string]any{"foo": "bar"}))
	assert.Equal(t, "('foo', 'bar')", Repr(Tuple{"foo", "bar"}))
	assert.Equal(t, "(1,)", Repr(Tuple{1}))
}

func TestRepr_Structs(t *testing.T) {
	assert.Equal(t, "named(Bar='foo')", Repr(named{Bar: "foo"}))
	assert.Equal(t, "point(X=1, Y=2)", Repr(point{X: 1, Y: 2, note: "hidden"}))
	assert.Equal(t, "&named(Bar='foo')", Repr(&named{Bar: "foo"}))
	assert.Equal(t, "<custom>", Repr(custom{}))

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "Time('2024-01-02 03:04:05 +0000 UTC')", Repr(ts))
}

func TestRepr_CyclicPointers(t *testing.T) {
	n := &linked{}
	n.Next = n
	assert.Equal(t, "&linked(Next=&...)", Repr(n))
}

func TestRepr_CyclicCollections(t *testing.T) {
	m := map[string]any{"a": 1}
	m["self"] = m
	assert.Equal(t, "{'a': 1, 'self': {...}}", Repr(m))

	s := []any{1, nil}
	s[1] = s
	assert.Equal(t, "[1, [...]]", Repr(s))

	// Sibling references to the same value are not cycles.
	shared := []any{2}
	assert.Equal(t, "[[2], [2]]", Repr([]any{shared, shared}))
	inner := map[string]any{"k": 1}
	assert.Equal(t, "{'x': {'k': 1}, 'y': {'k': 1}}", Repr(map[string]any{"x": inner, "y": inner}))
}

func TestRepr_Funcs(t *testing.T) {
	assert.Equal(t, "<func sampleFunc>", Repr(sampleFunc))
	assert.Equal(t, "sampleFunc", FuncName(sampleFunc))
	assert.Equal(t, "Itoa", FuncName(strconv.Itoa))
	assert.Equal(t, "", FuncName("not a func"))
}

func TestShortFuncName(t *testing.T) {
	tests := map[string]string{
		"github.com/roach88/skin/internal/x.foo":         "foo",
		"github.com/roach88/skin/internal/x.(*T).Run-fm": "Run",
		"main.Map[...]":                                  "Map",
		"pkg.TestSomething.func1":                        "func1",
	}
	for in, want := range tests {
		assert.Equal(t, want, shortFuncName(in), in)
	}
}

func TestError(t *testing.T) {
	_, err := strconv.Atoi("abc")
	assert.Equal(t, `NumError('strconv.Atoi: parsing "abc": invalid syntax')`, Error(err))
	assert.Equal(t, "errorString('boom')", Error(errors.New("boom")))
	assert.Equal(t, "nil", Error(nil))
	assert.Equal(t, "errorString('boom')", Repr(errors.New("boom")))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "named", TypeName(&named{}))
	assert.Equal(t, "[]int", TypeName([]int{}))
	assert.Equal(t, "nil", TypeName(nil))
}
