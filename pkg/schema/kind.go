package schema

// Kind is the closed set of node variants the engine knows how to validate.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindDate
	KindTime
	KindEmail
	KindURL
	KindPercentage
	KindList
	KindObject
	KindChoice
	KindCase
	KindModel
)

var kindNames = [...]string{
	KindString:     "string",
	KindInteger:    "integer",
	KindFloat:      "float",
	KindBool:       "bool",
	KindDate:       "date",
	KindTime:       "time",
	KindEmail:      "email",
	KindURL:        "url",
	KindPercentage: "percentage",
	KindList:       "list",
	KindObject:     "object",
	KindChoice:     "choice",
	KindCase:       "case",
	KindModel:      "model",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Scalar reports whether nodes of this kind hold a single value and reject
// children.
func (k Kind) Scalar() bool {
	return k < KindList
}
