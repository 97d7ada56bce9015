package feature

import "fmt"

// Kind classifies a feature as numeric or categorical. The classification is
// supplied by the caller, never inferred from the data.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Descriptor names a feature and its kind.
type Descriptor struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Partition splits a subset of the schema into numeric and categorical
// feature lists. Order is significant: comparators evaluate features, and
// report results, in the order listed here. A Partition is immutable for the
// lifetime of a monitoring run.
type Partition struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// Descriptors returns the partition flattened into descriptors, numeric
// features first, preserving list order.
func (p Partition) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(p.Numeric)+len(p.Categorical))
	for _, n := range p.Numeric {
		out = append(out, Descriptor{Name: n, Kind: Numeric})
	}
	for _, c := range p.Categorical {
		out = append(out, Descriptor{Name: c, Kind: Categorical})
	}
	return out
}

// Features returns every feature name in the partition, numeric first.
func (p Partition) Features() []string {
	out := make([]string, 0, len(p.Numeric)+len(p.Categorical))
	out = append(out, p.Numeric...)
	out = append(out, p.Categorical...)
	return out
}

// Empty reports whether the partition names no features at all.
func (p Partition) Empty() bool {
	return len(p.Numeric) == 0 && len(p.Categorical) == 0
}
