package schema

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/rail/pkg/domain"
	"github.com/aretw0/rail/pkg/ports"
	"github.com/stretchr/testify/mock"
)

type validateFunc func(key domain.Key, value any, c domain.Container) (domain.Container, error)

// funcValidator is a ports.Validator backed by a closure.
type funcValidator struct {
	name   string
	args   []any
	onFail ports.OnFailPolicy
	fn     validateFunc
}

func (v *funcValidator) Name() string { return v.name }

func (v *funcValidator) Validate(_ context.Context, key domain.Key, value any, c domain.Container) (domain.Container, error) {
	return v.fn(key, value, c)
}

func (v *funcValidator) Render(withKeywords bool) string {
	if len(v.args) == 0 {
		return v.name
	}
	parts := make([]string, len(v.args))
	for i, a := range v.args {
		if withKeywords {
			parts[i] = fmt.Sprintf("arg_%d=%v", i+1, a)
		} else {
			parts[i] = fmt.Sprint(a)
		}
	}
	return v.name + ": " + strings.Join(parts, " ")
}

// testCatalog builds closure validators for the names every test relies on.
type testCatalog struct {
	tags map[string][]string

	mu   sync.Mutex
	seen []string // keys visited by "record"
}

func newTestCatalog() *testCatalog {
	common := []string{"upper", "drop", "fail", "record", "swap", "nullify"}
	tags := map[string][]string{}
	for _, t := range []string{"string", "integer", "float", "bool", "date", "time", "email", "url", "percentage", "list", "object", "case", "model"} {
		tags[t] = common
	}
	tags["choice"] = append(slices.Clone(common), "choice")
	return &testCatalog{tags: tags}
}

func (c *testCatalog) Applicable(tag string) []string { return c.tags[tag] }

func (c *testCatalog) Build(name string, args []any, onFail ports.OnFailPolicy) (ports.Validator, error) {
	v := &funcValidator{name: name, args: args, onFail: onFail}
	switch name {
	case "upper":
		v.fn = func(key domain.Key, value any, ct domain.Container) (domain.Container, error) {
			if s, ok := value.(string); ok {
				return ct, ct.Set(key, strings.ToUpper(s))
			}
			return ct, nil
		}
	case "drop":
		v.fn = func(key domain.Key, _ any, ct domain.Container) (domain.Container, error) {
			return ct, ct.Delete(key)
		}
	case "nullify":
		v.fn = func(key domain.Key, _ any, ct domain.Container) (domain.Container, error) {
			return ct, ct.Set(key, nil)
		}
	case "fail":
		v.fn = func(_ domain.Key, value any, ct domain.Container) (domain.Container, error) {
			return ct, &ValidatorFailure{Validator: name, Value: value, Reason: "always fails"}
		}
	case "record":
		v.fn = func(key domain.Key, _ any, ct domain.Container) (domain.Container, error) {
			c.mu.Lock()
			c.seen = append(c.seen, key.String())
			c.mu.Unlock()
			return ct, nil
		}
	case "swap":
		// Returns a different container holding the same entries.
		v.fn = func(key domain.Key, value any, ct domain.Container) (domain.Container, error) {
			obj, ok := ct.(domain.Object)
			if !ok {
				return ct, nil
			}
			out := make(domain.Object, len(obj))
			for k, val := range obj {
				out[k] = val
			}
			return out, nil
		}
	case "choice":
		v.fn = func(_ domain.Key, value any, ct domain.Container) (domain.Container, error) {
			if slices.Contains(args, value) || onFail == "noop" {
				return ct, nil
			}
			return ct, &ValidatorFailure{Validator: name, Value: value, Reason: "not a declared choice"}
		}
	default:
		return nil, fmt.Errorf("unknown validator %q", name)
	}
	return v, nil
}

func (c *testCatalog) recorded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.seen)
}

// mockCatalog records Build calls.
type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Applicable(tag string) []string {
	args := m.Called(tag)
	return args.Get(0).([]string)
}

func (m *mockCatalog) Build(name string, args []any, onFail ports.OnFailPolicy) (ports.Validator, error) {
	ret := m.Called(name, args, onFail)
	v, _ := ret.Get(0).(ports.Validator)
	return v, ret.Error(1)
}
