package validators

import (
	"fmt"

	"github.com/aretw0/rail/pkg/ports"
)

const (
	OnFailException ports.OnFailPolicy = "exception"
	OnFailReask     ports.OnFailPolicy = "reask"
	OnFailFix       ports.OnFailPolicy = "fix"
	OnFailFilter    ports.OnFailPolicy = "filter"
	OnFailRefrain   ports.OnFailPolicy = "refrain"
	OnFailNoop      ports.OnFailPolicy = "noop"
)

// ParsePolicy validates an on-fail attribute value. The empty policy means
// exception.
func ParsePolicy(p ports.OnFailPolicy) (ports.OnFailPolicy, error) {
	switch p {
	case "":
		return OnFailException, nil
	case OnFailException, OnFailReask, OnFailFix, OnFailFilter, OnFailRefrain, OnFailNoop:
		return p, nil
	}
	return "", fmt.Errorf("unknown on-fail policy %q", p)
}
