package fixed

// MaxPercentage is 100% in scaled units.
const MaxPercentage = 100 * Scale

// Percentage is a scaled amount in [0, MaxPercentage]. The zero value is 0%.
// Values can only be built through NewPercentage, so holders may rely on the bound.
type Percentage struct {
	raw uint64
}

// NewPercentage validates raw against MaxPercentage.
func NewPercentage(raw uint64) (Percentage, error) {
	if raw > MaxPercentage {
		return Percentage{}, &ValueTooLargeError{Val: raw, Max: MaxPercentage}
	}
	return Percentage{raw: raw}, nil
}

// ParsePercentage parses decimal text and validates the bound.
func ParsePercentage(text string) (Percentage, error) {
	raw, err := Parse(text)
	if err != nil {
		return Percentage{}, err
	}
	return NewPercentage(raw)
}

// Raw returns the scaled value.
func (p Percentage) Raw() uint64 {
	return p.raw
}

// Cmp compares p and o by raw value, returning -1, 0 or +1.
func (p Percentage) Cmp(o Percentage) int {
	switch {
	case p.raw < o.raw:
		return -1
	case p.raw > o.raw:
		return 1
	default:
		return 0
	}
}

// Less reports whether p < o.
func (p Percentage) Less(o Percentage) bool {
	return p.raw < o.raw
}

func (p Percentage) String() string {
	return Format(p.raw)
}

func (p Percentage) MarshalText() ([]byte, error) {
	return []byte(FormatPadded(p.raw)), nil
}

func (p *Percentage) UnmarshalText(text []byte) error {
	parsed, err := ParsePercentage(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
