package directive_test

import (
	"errors"
	"testing"

	"github.com/aretw0/rail/pkg/directive"
	"github.com/aretw0/rail/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"valid-url", []string{"valid-url"}},
		{"valid-url; is-reachable", []string{"valid-url", " is-reachable"}},
		{"a: {1;2}", []string{"a: {1;2}"}},
		{"a: {1;2}; b", []string{"a: {1;2}", " b"}},
		{"a;;b;", []string{"a", "b"}},
		{"a; ;b", []string{"a", "b"}},
		{"is-in: {[1, 2]}; length: 1 {2 + 3}", []string{"is-in: {[1, 2]}", " length: 1 {2 + 3}"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, directive.Tokenize(tt.in))
		})
	}
}

func TestParseToken(t *testing.T) {
	tests := []struct {
		in   string
		want directive.Token
	}{
		{"valid-url", directive.Token{Name: "valid-url"}},
		{"  two-words  ", directive.Token{Name: "two-words"}},
		{"is-in: 1 2 3", directive.Token{Name: "is-in", Args: []any{"1", "2", "3"}}},
		{"is-in: {1+2} {2+3}", directive.Token{Name: "is-in", Args: []any{int64(3), int64(5)}}},
		{"is-in: {1 + 2} {2 + 3} {3 + 4}", directive.Token{Name: "is-in", Args: []any{int64(3), int64(5), int64(7)}}},
		{"valid-choices: {['a', 'b']}", directive.Token{Name: "valid-choices", Args: []any{[]any{"a", "b"}}}},
		{"length:", directive.Token{Name: "length", Args: []any{}}},
		{"other-validator: 1.0 {1 + 2}", directive.Token{Name: "other-validator", Args: []any{"1.0", int64(3)}}},
		// Only a phrase running to the final quote is kept together.
		{"regex-match: 'a b c'", directive.Token{Name: "regex-match", Args: []any{"'a b c'"}}},
		{"ends-with: x 'hello world'", directive.Token{Name: "ends-with", Args: []any{"x", "'hello world'"}}},
		{"ends-with: x 'a'b c'", directive.Token{Name: "ends-with", Args: []any{"x", "'a'b c'"}}},
		{"pair: 'a b' y 'c d'", directive.Token{Name: "pair", Args: []any{"'a", "b'", "y", "'c d'"}}},
		{"k: ' a'", directive.Token{Name: "k", Args: []any{"'", "a'"}}},
		{"k: a:b", directive.Token{Name: "k", Args: []any{"a:b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := directive.ParseToken(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseToken_ExpressionError(t *testing.T) {
	_, err := directive.ParseToken("is-in: {os.system('x')}")
	require.Error(t, err)

	var exprErr *directive.ExpressionError
	require.True(t, errors.As(err, &exprErr))
	assert.Equal(t, "is-in: {os.system('x')}", exprErr.Token)

	var inner *expr.Error
	assert.True(t, errors.As(err, &inner))
}

func TestParse(t *testing.T) {
	t.Run("Absent Directive", func(t *testing.T) {
		d, err := directive.Parse("")
		require.NoError(t, err)
		assert.Empty(t, d)
	})

	t.Run("Order Preserved", func(t *testing.T) {
		d, err := directive.Parse("valid-url; length: 1 {5 * 2}; lower-case")
		require.NoError(t, err)
		assert.Equal(t, []string{"valid-url", "length", "lower-case"}, d.Names())

		args, ok := d.Lookup("length")
		require.True(t, ok)
		assert.Equal(t, []any{"1", int64(10)}, args)

		_, ok = d.Lookup("missing")
		assert.False(t, ok)
	})

	t.Run("Later Duplicate Overwrites", func(t *testing.T) {
		d, err := directive.Parse("length: 1 2; lower-case; length: 3 4")
		require.NoError(t, err)
		assert.Equal(t, []string{"length", "lower-case"}, d.Names())

		args, _ := d.Lookup("length")
		assert.Equal(t, []any{"3", "4"}, args)
	})

	t.Run("Argument Shape Is Stable", func(t *testing.T) {
		first, err := directive.Parse("is-in: {1+2} x")
		require.NoError(t, err)
		second, err := directive.Parse("is-in: {1+2} x")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Expression Failure", func(t *testing.T) {
		_, err := directive.Parse("valid-url; is-in: {1 / 0}")
		var exprErr *directive.ExpressionError
		assert.ErrorAs(t, err, &exprErr)
	})
}
