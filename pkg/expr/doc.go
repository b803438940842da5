/*
Package expr evaluates the computed arguments embedded in validator directives.

A directive such as "is-in: {1 + 2} {[1, 2] * 2}" carries brace-delimited
arguments. Their content is a closed literal/arithmetic language:

  - integer and floating-point literals (1, -2, 3.5, 1e3)
  - string literals in single or double quotes ('a', "b", with \ escapes)
  - boolean literals (true, false, True, False)
  - list [a, b], tuple (a, b) and set {a, b} literals
  - the binary operators + - * / with the usual precedence, unary + and -,
    and parenthesized grouping

There are no identifiers, no calls and no lookups: the grammar is closed, so
evaluating a directive can never reach outside of the directive itself.

Values are represented with plain Go types: int64, float64, string, bool,
[]any for lists, Tuple and Set.

	v, err := expr.Eval("[1, 2] + [3]")
	// v == []any{int64(1), int64(2), int64(3)}
*/
package expr
