package basis

import (
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
)

// Family names a basis family.
type Family string

// Supported basis families.
const (
	Polynomial Family = "polynomial"
	Radial     Family = "radial"
	Fourier    Family = "fourier"
)

// Default configuration values.
const (
	DefaultNumBasis = 4
)

// DefaultDataLimits is the domain used when none is given.
var DefaultDataLimits = [2]float64{-1, 1}

// Config selects a basis family and its parameters.
type Config struct {
	Family     Family     `json:"family"`
	NumBasis   int        `json:"num_basis"`
	DataLimits [2]float64 `json:"data_limits"`
}

// DefaultConfig returns the configuration for family with four functions on
// [-1, 1].
func DefaultConfig(family Family) Config {
	return Config{
		Family:     family,
		NumBasis:   DefaultNumBasis,
		DataLimits: DefaultDataLimits,
	}
}

// Validate checks the configuration without building the basis.
func (c Config) Validate() error {
	switch c.Family {
	case Polynomial, Radial, Fourier:
	default:
		return errors.NewValidationError("family", "unknown basis family", c.Family)
	}
	_, err := newFamily(string(c.Family), c.NumBasis, c.DataLimits)
	return err
}

// New builds the basis described by cfg.
func New(cfg Config) (Basis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Family {
	case Polynomial:
		return NewPolynomial(cfg.NumBasis, cfg.DataLimits)
	case Radial:
		return NewRadial(cfg.NumBasis, cfg.DataLimits)
	default:
		return NewFourier(cfg.NumBasis, cfg.DataLimits)
	}
}
