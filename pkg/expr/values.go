package expr

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// MaxRepeat bounds the length of a string or collection built by repetition.
const MaxRepeat = 1 << 20

var errOverflow = errors.New("integer overflow")

// Tuple is an ordered, fixed collection literal: (1, 2).
type Tuple []any

// Set is an unordered collection literal: {1, 2}. Elements keep their first
// occurrence order so that rendering and comparisons are deterministic.
type Set []any

// Contains reports whether v is an element of the set.
func (s Set) Contains(v any) bool {
	for _, e := range s {
		if equal(e, v) {
			return true
		}
	}
	return false
}

func newSet(elems []any) (Set, error) {
	s := make(Set, 0, len(elems))
	for _, e := range elems {
		switch e.(type) {
		case []any, Set:
			return nil, fmt.Errorf("unhashable element of type %s in set", typeName(e))
		}
		if !s.Contains(e) {
			s = append(s, e)
		}
	}
	return s, nil
}

// equal compares two literal values, treating int64 and float64 as one
// numeric domain the way the arithmetic does.
func equal(a, b any) bool {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return x == y
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func typeName(v any) string {
	switch v.(type) {
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case bool:
		return "bool"
	case []any:
		return "list"
	case Tuple:
		return "tuple"
	case Set:
		return "set"
	}
	return fmt.Sprintf("%T", v)
}

func binary(op string, left, right any) (any, error) {
	li, lInt := left.(int64)
	ri, rInt := right.(int64)
	if lInt && rInt {
		switch op {
		case "+":
			return addInt(li, ri)
		case "-":
			return subInt(li, ri)
		case "*":
			return mulInt(li, ri)
		case "/":
			if ri == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return float64(li) / float64(ri), nil
		}
	}

	lf, lNum := toFloat(left)
	rf, rNum := toFloat(right)
	if lNum && rNum {
		switch op {
		case "+":
			return lf + rf, nil
		case "-":
			return lf - rf, nil
		case "*":
			return lf * rf, nil
		case "/":
			if rf == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return lf / rf, nil
		}
	}

	switch op {
	case "+":
		switch l := left.(type) {
		case string:
			if r, ok := right.(string); ok {
				return l + r, nil
			}
		case []any:
			if r, ok := right.([]any); ok {
				out := make([]any, 0, len(l)+len(r))
				return append(append(out, l...), r...), nil
			}
		case Tuple:
			if r, ok := right.(Tuple); ok {
				out := make(Tuple, 0, len(l)+len(r))
				return append(append(out, l...), r...), nil
			}
		}
	case "*":
		if lInt {
			left, right, ri, rInt = right, left, li, true
		}
		if rInt {
			switch l := left.(type) {
			case string:
				n, err := repeatCount(len(l), ri)
				if err != nil {
					return nil, err
				}
				return strings.Repeat(l, n), nil
			case []any:
				n, err := repeatCount(len(l), ri)
				if err != nil {
					return nil, err
				}
				return repeat(l, n), nil
			case Tuple:
				n, err := repeatCount(len(l), ri)
				if err != nil {
					return nil, err
				}
				return Tuple(repeat(l, n)), nil
			}
		}
	}

	return nil, fmt.Errorf("unsupported operand types for %s: %s and %s", op, typeName(left), typeName(right))
}

// repeatCount returns how many copies of an operand of size length to
// build. Negative counts yield an empty result.
func repeatCount(length int, count int64) (int, error) {
	if count <= 0 || length == 0 {
		return 0, nil
	}
	if count > int64(MaxRepeat/length) {
		return 0, fmt.Errorf("repetition result exceeds %d elements", MaxRepeat)
	}
	return int(count), nil
}

func addInt(a, b int64) (any, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return nil, errOverflow
	}
	return a + b, nil
}

func subInt(a, b int64) (any, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return nil, errOverflow
	}
	return a - b, nil
}

func mulInt(a, b int64) (any, error) {
	if a == 0 || b == 0 {
		return int64(0), nil
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return nil, errOverflow
	}
	return p, nil
}

func repeat(items []any, n int) []any {
	out := make([]any, 0, len(items)*n)
	for i := 0; i < n; i++ {
		out = append(out, items...)
	}
	return out
}
