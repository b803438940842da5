package validators

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/rail/pkg/expr"
)

var (
	scalarTags = []string{"string", "integer", "float", "bool", "email", "url", "percentage"}
	stringTags = []string{"string", "email", "url", "percentage"}
)

func builtins() []Spec {
	return []Spec{
		{
			Name: "choice", Tags: []string{"choice"},
			MinArgs: 1, MaxArgs: -1, Keywords: []string{"choices"},
			Factory: oneOf,
		},
		{
			Name: "valid-choices", Tags: scalarTags,
			MinArgs: 1, MaxArgs: -1, Keywords: []string{"choices"},
			Factory: oneOf,
		},
		{
			Name: "length", Tags: append([]string{"list"}, stringTags...),
			MinArgs: 2, MaxArgs: 2, Keywords: []string{"min", "max"},
			Factory: length,
		},
		{
			Name: "valid-range", Tags: []string{"integer", "float"},
			MinArgs: 2, MaxArgs: 2, Keywords: []string{"min", "max"},
			Factory: validRange,
		},
		{
			Name: "lower-case", Tags: stringTags,
			Factory: caseCheck("lower", strings.ToLower),
		},
		{
			Name: "upper-case", Tags: stringTags,
			Factory: caseCheck("upper", strings.ToUpper),
		},
		{
			Name: "two-words", Tags: []string{"string"},
			Factory: twoWords,
		},
		{
			Name: "valid-url", Tags: []string{"string", "url"},
			Factory: validURL,
		},
		{
			Name: "regex-match", Tags: stringTags,
			MinArgs: 1, MaxArgs: 1, Keywords: []string{"regex"},
			Factory: regexMatch,
		},
		{
			Name: "ends-with", Tags: append([]string{"list"}, stringTags...),
			MinArgs: 1, MaxArgs: 1, Keywords: []string{"end"},
			Factory: endsWith,
		},
	}
}

// oneOf accepts either the choices as separate arguments or a single list,
// tuple or set expression.
func oneOf(args []any) (Check, error) {
	choices := args
	if len(args) == 1 {
		switch c := args[0].(type) {
		case []any:
			choices = c
		case expr.Tuple:
			choices = c
		case expr.Set:
			choices = c
		}
	}
	return func(value any) *Failure {
		for _, c := range choices {
			if looseEqual(c, value) {
				return nil
			}
		}
		return &Failure{Reason: fmt.Sprintf("%v is not one of %v", value, renderArg(choices))}
	}, nil
}

// looseEqual compares directive literals, which are strings unless computed,
// with typed runtime values.
func looseEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func length(args []any) (Check, error) {
	lo, err := intArg(args[0])
	if err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	hi, err := intArg(args[1])
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	if lo < 0 || hi < lo {
		return nil, fmt.Errorf("invalid bounds %d..%d", lo, hi)
	}
	return func(value any) *Failure {
		switch v := value.(type) {
		case string:
			n := int64(utf8.RuneCountInString(v))
			if n >= lo && n <= hi {
				return nil
			}
			f := &Failure{Reason: fmt.Sprintf("length %d is outside %d..%d", n, lo, hi)}
			if n > hi {
				f.Fix, f.Fixable = string([]rune(v)[:hi]), true
			}
			return f
		case []any:
			n := int64(len(v))
			if n >= lo && n <= hi {
				return nil
			}
			f := &Failure{Reason: fmt.Sprintf("length %d is outside %d..%d", n, lo, hi)}
			if n > hi {
				f.Fix, f.Fixable = append([]any(nil), v[:hi]...), true
			}
			return f
		}
		return &Failure{Reason: fmt.Sprintf("%T has no length", value)}
	}, nil
}

func validRange(args []any) (Check, error) {
	lo, err := floatArg(args[0])
	if err != nil {
		return nil, fmt.Errorf("min: %w", err)
	}
	hi, err := floatArg(args[1])
	if err != nil {
		return nil, fmt.Errorf("max: %w", err)
	}
	if hi < lo {
		return nil, fmt.Errorf("invalid bounds %v..%v", lo, hi)
	}
	return func(value any) *Failure {
		var (
			f     float64
			isInt bool
		)
		switch v := value.(type) {
		case int64:
			f, isInt = float64(v), true
		case float64:
			f = v
		default:
			return &Failure{Reason: fmt.Sprintf("%T is not a number", value)}
		}
		if f >= lo && f <= hi {
			return nil
		}
		clamped := min(max(f, lo), hi)
		fail := &Failure{Reason: fmt.Sprintf("%v is outside %v..%v", value, lo, hi), Fixable: true, Fix: clamped}
		if isInt {
			fail.Fix = int64(clamped)
		}
		return fail
	}, nil
}

func caseCheck(which string, fold func(string) string) Factory {
	return func([]any) (Check, error) {
		return func(value any) *Failure {
			s, ok := value.(string)
			if !ok {
				return &Failure{Reason: fmt.Sprintf("%T is not a string", value)}
			}
			if fold(s) == s {
				return nil
			}
			return &Failure{Reason: fmt.Sprintf("%q is not %s case", s, which), Fix: fold(s), Fixable: true}
		}, nil
	}
}

func twoWords([]any) (Check, error) {
	return func(value any) *Failure {
		s, ok := value.(string)
		if !ok {
			return &Failure{Reason: fmt.Sprintf("%T is not a string", value)}
		}
		words := strings.Fields(s)
		if len(words) == 2 {
			return nil
		}
		f := &Failure{Reason: fmt.Sprintf("%q must be exactly two words", s)}
		if len(words) > 2 {
			f.Fix, f.Fixable = strings.Join(words[:2], " "), true
		}
		return f
	}, nil
}

func validURL([]any) (Check, error) {
	return func(value any) *Failure {
		s, ok := value.(string)
		if !ok {
			return &Failure{Reason: fmt.Sprintf("%T is not a string", value)}
		}
		u, err := url.ParseRequestURI(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &Failure{Reason: fmt.Sprintf("%q is not a valid URL", s)}
		}
		return nil
	}, nil
}

func regexMatch(args []any) (Check, error) {
	pattern, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("regex must be a string, got %T", args[0])
	}
	re, err := regexp.Compile("^(?:" + unquote(pattern) + ")$")
	if err != nil {
		return nil, err
	}
	return func(value any) *Failure {
		s, ok := value.(string)
		if !ok {
			return &Failure{Reason: fmt.Sprintf("%T is not a string", value)}
		}
		if re.MatchString(s) {
			return nil
		}
		return &Failure{Reason: fmt.Sprintf("%q does not match %s", s, pattern)}
	}, nil
}

func endsWith(args []any) (Check, error) {
	end := args[0]
	return func(value any) *Failure {
		switch v := value.(type) {
		case string:
			suffix := unquote(fmt.Sprint(end))
			if strings.HasSuffix(v, suffix) {
				return nil
			}
			return &Failure{Reason: fmt.Sprintf("%q must end with %q", v, suffix), Fix: v + suffix, Fixable: true}
		case []any:
			if len(v) > 0 && looseEqual(v[len(v)-1], end) {
				return nil
			}
			fixed := append(append([]any(nil), v...), end)
			return &Failure{Reason: fmt.Sprintf("list must end with %v", end), Fix: fixed, Fixable: true}
		}
		return &Failure{Reason: fmt.Sprintf("%T has no end", value)}
	}, nil
}

// unquote strips one pair of surrounding single quotes, the form directive
// literals use to protect spaces.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

func intArg(a any) (int64, error) {
	switch v := a.(type) {
	case int64:
		return v, nil
	case float64:
		if v == float64(int64(v)) {
			return int64(v), nil
		}
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("%v is not an integer", a)
}

func floatArg(a any) (float64, error) {
	switch v := a.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("%v is not a number", a)
}
