package kernel

import (
	"github.com/YuminosukeSato/bayesreg/pkg/errors"
)

// Kind names a kernel family.
type Kind string

// EQ is the exponentiated quadratic kernel.
const EQ Kind = "exponentiated_quadratic"

// Config selects a kernel and its hyper-parameters.
type Config struct {
	Kind        Kind    `json:"kind"`
	Variance    float64 `json:"variance"`
	Lengthscale float64 `json:"lengthscale"`
}

// DefaultConfig returns an exponentiated quadratic with unit variance and
// lengthscale.
func DefaultConfig() Config {
	return Config{Kind: EQ, Variance: 1, Lengthscale: 1}
}

// Validate checks the configuration without building the kernel.
func (c Config) Validate() error {
	_, err := New(c)
	return err
}

// New builds the kernel described by cfg.
func New(cfg Config) (Kernel, error) {
	switch cfg.Kind {
	case EQ:
		k, err := NewExponentiatedQuadratic(cfg.Variance, cfg.Lengthscale)
		if err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, errors.NewValidationError("kind", "unknown kernel", cfg.Kind)
	}
}
