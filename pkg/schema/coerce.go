package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	defaultDateFormat = "%Y-%m-%d"
	defaultTimeFormat = "%H:%M:%S"
)

// coerce converts a raw scalar value to the node's data type. nil always
// passes through.
func (n *Node) coerce(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch n.kind {
	case KindString, KindEmail, KindURL, KindPercentage:
		return raw, nil
	case KindInteger:
		return toInteger(raw)
	case KindFloat:
		return toFloat(raw)
	case KindBool:
		return toBool(raw)
	case KindDate, KindTime:
		return n.toTime(raw)
	}
	return raw, nil
}

func toInteger(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, unwrapNum(err)
		}
		return i, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, unwrapNum(err)
		}
		return integral(f)
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return uintToInt(uint64(v))
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return uintToInt(v)
	case float32:
		return integral(float64(v))
	case float64:
		return integral(v)
	}
	return nil, errUnsupported
}

func integral(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, errors.New("not a whole number")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, errors.New("out of range")
	}
	return int64(f), nil
}

func uintToInt(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, errors.New("out of range")
	}
	return int64(u), nil
}

func toFloat(raw any) (any, error) {
	switch v := raw.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, unwrapNum(err)
		}
		return f, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, unwrapNum(err)
		}
		return f, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return nil, errUnsupported
}

func toBool(raw any) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean value %q", v)
	}
	return nil, errUnsupported
}

func (n *Node) toTime(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(n.layout, v)
		if err != nil {
			return nil, fmt.Errorf("does not match format %q", n.timeFormat)
		}
		return t, nil
	}
	return nil, errUnsupported
}

var errUnsupported = errors.New("unsupported input type")

// unwrapNum strips the strconv prefix ("strconv.ParseInt: parsing ...").
func unwrapNum(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

var strftime = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'j': "002",
	'b': "Jan",
	'h': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'f': "000000",
	'p': "PM",
	'z': "-0700",
	'Z': "MST",
	'%': "%",
}

// goLayoutWords are the alphabetic Go reference tokens time.Parse would
// reinterpret if they appeared in literal text. Digits are rejected
// separately.
var goLayoutWords = []string{"Jan", "Mon", "MST", "PM", "pm"}

// translateLayout converts a strftime-style format ("%Y-%m-%d") into a Go
// reference layout ("2006-01-02"). Go layouts cannot escape literal text, so
// literals that would read as layout elements are rejected.
func translateLayout(format string) (string, error) {
	var (
		b       strings.Builder
		literal strings.Builder
	)
	flush := func() error {
		lit := literal.String()
		literal.Reset()
		if strings.ContainsAny(lit, "0123456789") {
			return fmt.Errorf("format %q: literal text %q must not contain digits", format, lit)
		}
		for _, w := range goLayoutWords {
			if strings.Contains(lit, w) {
				return fmt.Errorf("format %q: literal text %q contains the layout element %q", format, lit, w)
			}
		}
		b.WriteString(lit)
		return nil
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			literal.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return "", fmt.Errorf("format %q ends with a lone %%", format)
		}
		i++
		layout, ok := strftime[format[i]]
		if !ok {
			return "", fmt.Errorf("format %q: unsupported directive %%%c", format, format[i])
		}
		if format[i] == '%' {
			literal.WriteString(layout)
			continue
		}
		if err := flush(); err != nil {
			return "", err
		}
		b.WriteString(layout)
	}
	if err := flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}
