package types

import "strconv"

// RateKind discriminates the values a bit-rate or sample-rate table slot
// can hold.
type RateKind uint8

const (
	// RateKnown is a numeric table entry; Rate.Value holds it.
	RateKnown RateKind = iota
	// RateFree marks the "free format" bit-rate slot (variable, not signalled).
	RateFree
	// RateReserved marks a slot the MPEG standard reserves.
	RateReserved
	// RateInvalid marks a slot the standard forbids ("bad").
	RateInvalid
)

// Rate is a table lookup result. Value is meaningful only when Kind is
// RateKnown; the other kinds are first-class results and never read as zero.
type Rate struct {
	Kind  RateKind
	Value int
}

// KnownRate returns a numeric Rate.
func KnownRate(v int) Rate {
	return Rate{Kind: RateKnown, Value: v}
}

// Known returns the numeric value and whether the rate is numeric.
func (r Rate) Known() (int, bool) {
	return r.Value, r.Kind == RateKnown
}

func (r Rate) String() string {
	switch r.Kind {
	case RateKnown:
		return strconv.Itoa(r.Value)
	case RateFree:
		return "free"
	case RateReserved:
		return "reserved"
	default:
		return "bad"
	}
}

// MarshalText renders the rate as its String form for JSON/YAML reports.
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
