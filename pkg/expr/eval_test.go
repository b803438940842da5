package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_Literals(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"1", int64(1)},
		{"  42 ", int64(42)},
		{"3.5", 3.5},
		{".5", 0.5},
		{"1e3", 1000.0},
		{"'hello world'", "hello world"},
		{`"double"`, "double"},
		{`'it\'s'`, "it's"},
		{"true", true},
		{"False", false},
		{"[1, 'a', 2.5]", []any{int64(1), "a", 2.5}},
		{"[]", []any{}},
		{"[1, 2,]", []any{int64(1), int64(2)}},
		{"(1, 2)", Tuple{int64(1), int64(2)}},
		{"(1,)", Tuple{int64(1)}},
		{"()", Tuple{}},
		{"{1, 2, 1}", Set{int64(1), int64(2)}},
		{"[[1], (2, 3)]", []any{[]any{int64(1)}, Tuple{int64(2), int64(3)}}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Eval(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"1 + 2", int64(3)},
		{"2 + 3", int64(5)},
		{"1 + 2 * 3", int64(7)},
		{"(1 + 2) * 3", int64(9)},
		{"10 - 4 - 3", int64(3)},
		{"7 / 2", 3.5},
		{"4 / 2", 2.0},
		{"1 + 0.5", 1.5},
		{"-3 + 1", int64(-2)},
		{"--3", int64(3)},
		{"-(1.5 * 2)", -3.0},
		{"'ab' + 'cd'", "abcd"},
		{"'ab' * 2", "abab"},
		{"3 * 'x'", "xxx"},
		{"[1] + [2]", []any{int64(1), int64(2)}},
		{"[0] * 3", []any{int64(0), int64(0), int64(0)}},
		{"(1,) + (2,)", Tuple{int64(1), int64(2)}},
		{"'x' * -1", ""},
		{"[] * 9223372036854775807", []any{}},
		{"() * 9223372036854775807", Tuple{}},
		{"'' * 9223372036854775807", ""},
		{"[1] * 0", []any{}},
		{"9223372036854775806 + 1", int64(9223372036854775807)},
		{"-9223372036854775807 - 1", int64(-9223372036854775807 - 1)},
		{"-1 * 9223372036854775807", int64(-9223372036854775807)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Eval(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"1 +",
		"foo",
		"__import__('os')",
		"len([1])",
		"1 / 0",
		"1.0 / 0",
		"'a' - 'b'",
		"true + 1",
		"[1] + (2,)",
		"{}",
		"{[1]}",
		"(1, 2",
		"[1, 2",
		"'unterminated",
		"1 2",
		"1e",
		"12abc",
		"-'a'",
		"99999999999999999999",
		"a.b",
		"1 ; 2",
		"'ab' * 9223372036854775807",
		"[1] * 9223372036854775807",
		"(1,) * 9223372036854775807",
		"'x' * 1048577",
		"9223372036854775807 + 1",
		"-9223372036854775807 - 2",
		"9223372036854775807 * 2",
		"(-9223372036854775807 - 1) * -1",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Eval(src)
			require.Error(t, err)
			var exprErr *Error
			assert.True(t, errors.As(err, &exprErr), "expected *expr.Error, got %T", err)
		})
	}
}

func TestSet_Contains(t *testing.T) {
	v, err := Eval("{1, 'a', (1, 2)}")
	require.NoError(t, err)

	s, ok := v.(Set)
	require.True(t, ok)
	assert.True(t, s.Contains(int64(1)))
	assert.True(t, s.Contains(1.0))
	assert.True(t, s.Contains("a"))
	assert.True(t, s.Contains(Tuple{int64(1), int64(2)}))
	assert.False(t, s.Contains("b"))
}

func TestEval_RepeatLimit(t *testing.T) {
	got, err := Eval("'x' * 1048576")
	require.NoError(t, err)
	assert.Len(t, got, MaxRepeat)

	_, err = Eval("[1, 2] * 600000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repetition result exceeds")
}

func TestError_Message(t *testing.T) {
	_, err := Eval("1 / 0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
	assert.Contains(t, err.Error(), `"1 / 0"`)
}
