package model

import "lpPool/internal/fixed"

// TokenAmount is a base token quantity in fixed.Scale units.
type TokenAmount uint64

// StakedTokenAmount is a staked token quantity in fixed.Scale units.
type StakedTokenAmount uint64

// LpTokenAmount is a pool share quantity in fixed.Scale units.
type LpTokenAmount uint64

// Price is base tokens per staked token in fixed.Scale units.
type Price uint64

func (a TokenAmount) String() string       { return fixed.Format(uint64(a)) }
func (a StakedTokenAmount) String() string { return fixed.Format(uint64(a)) }
func (a LpTokenAmount) String() string     { return fixed.Format(uint64(a)) }
func (p Price) String() string             { return fixed.Format(uint64(p)) }

// Text encodings always use the padded form so they parse back exactly.

func (a TokenAmount) MarshalText() ([]byte, error) {
	return []byte(fixed.FormatPadded(uint64(a))), nil
}

func (a *TokenAmount) UnmarshalText(text []byte) error {
	v, err := fixed.Parse(string(text))
	if err != nil {
		return err
	}
	*a = TokenAmount(v)
	return nil
}

func (a StakedTokenAmount) MarshalText() ([]byte, error) {
	return []byte(fixed.FormatPadded(uint64(a))), nil
}

func (a *StakedTokenAmount) UnmarshalText(text []byte) error {
	v, err := fixed.Parse(string(text))
	if err != nil {
		return err
	}
	*a = StakedTokenAmount(v)
	return nil
}

func (a LpTokenAmount) MarshalText() ([]byte, error) {
	return []byte(fixed.FormatPadded(uint64(a))), nil
}

func (a *LpTokenAmount) UnmarshalText(text []byte) error {
	v, err := fixed.Parse(string(text))
	if err != nil {
		return err
	}
	*a = LpTokenAmount(v)
	return nil
}

func (p Price) MarshalText() ([]byte, error) {
	return []byte(fixed.FormatPadded(uint64(p))), nil
}

func (p *Price) UnmarshalText(text []byte) error {
	v, err := fixed.Parse(string(text))
	if err != nil {
		return err
	}
	*p = Price(v)
	return nil
}
