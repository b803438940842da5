package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/rail/pkg/domain"
	"github.com/aretw0/rail/pkg/ports"
	"github.com/aretw0/rail/pkg/schema"
)

// Failure describes why a value did not pass a check.
type Failure struct {
	Reason  string
	Fix     any  // Corrected value, meaningful when Fixable
	Fixable bool
}

// Check inspects a non-nil value and returns nil when it passes.
type Check func(value any) *Failure

// Validator applies a Check under an on-fail policy.
type Validator struct {
	name     string
	args     []any
	keywords []string
	policy   ports.OnFailPolicy
	check    Check
}

var _ ports.Validator = (*Validator)(nil)

func (v *Validator) Name() string { return v.name }

// Policy returns the on-fail policy in effect.
func (v *Validator) Policy() ports.OnFailPolicy { return v.policy }

// Validate runs the check on value and applies the on-fail policy to the
// entry stored under key. Absent (nil) values are not checked.
func (v *Validator) Validate(_ context.Context, key domain.Key, value any, c domain.Container) (domain.Container, error) {
	if value == nil {
		return c, nil
	}
	f := v.check(value)
	if f == nil {
		return c, nil
	}

	switch v.policy {
	case OnFailNoop:
		return c, nil
	case OnFailFix:
		if f.Fixable {
			return c, c.Set(key, f.Fix)
		}
	case OnFailFilter:
		return c, c.Delete(key)
	case OnFailRefrain:
		return c, c.Set(key, nil)
	}
	return c, &schema.ValidatorFailure{
		Validator: v.name,
		Value:     value,
		Reason:    f.Reason,
		Reask:     v.policy == OnFailReask,
		FixValue:  f.Fix,
	}
}

// Render returns the directive form of the validator. With keywords the
// arguments are named: "length: min=1 max=10".
func (v *Validator) Render(withKeywords bool) string {
	if len(v.args) == 0 {
		return v.name
	}
	parts := make([]string, len(v.args))
	for i, a := range v.args {
		s := renderArg(a)
		if withKeywords && len(v.keywords) > 0 {
			kw := v.keywords[min(i, len(v.keywords)-1)]
			s = kw + "=" + s
		}
		parts[i] = s
	}
	return v.name + ": " + strings.Join(parts, " ")
}

func renderArg(a any) string {
	switch t := a.(type) {
	case string:
		return t
	case []any:
		items := make([]string, len(t))
		for i, it := range t {
			items[i] = renderArg(it)
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return fmt.Sprint(a)
}
