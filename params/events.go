package params

import "fmt"

// Event is a discrete edit to the parameter set. Events are the only way the
// UI, the remote endpoint, or the style generator mutate the live set.
type Event interface {
	apply(p *ParameterSet, r Ranges) error
}

// SetScalar sets one slider field. The value is clamped to the field's range.
type SetScalar struct {
	Field Field
	Value float64
}

func (e SetScalar) apply(p *ParameterSet, r Ranges) error {
	rng, err := r.For(e.Field)
	if err != nil {
		return err
	}
	ptr, err := p.scalarPtr(e.Field)
	if err != nil {
		return err
	}
	*ptr = rng.Clamp(e.Value)
	return nil
}

// SetColor sets one color field from a #RRGGBB string.
type SetColor struct {
	Field Field
	Hex   string
}

func (e SetColor) apply(p *ParameterSet, _ Ranges) error {
	ptr, err := p.colorPtr(e.Field)
	if err != nil {
		return err
	}
	c, err := ParseHex(e.Hex)
	if err != nil {
		return fmt.Errorf("setting %s: %w", e.Field, err)
	}
	*ptr = c
	return nil
}

// Replace swaps in a whole parameter set, clamping every scalar field.
type Replace struct {
	Set ParameterSet
}

func (e Replace) apply(p *ParameterSet, r Ranges) error {
	*p = r.Clamp(e.Set)
	return nil
}
