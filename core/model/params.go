package model

import (
	"encoding/json"
	"fmt"
)

// Model type names used in Params.ModelType.
const (
	TypeLM  = "LM"
	TypeBLM = "BLM"
	TypeGP  = "GP"
)

// Params is a copy of a model's identity, hyper-parameters and fitted
// values. It is what labelling and plotting code reads; mutating it has no
// effect on the model.
type Params struct {
	// ModelType is one of TypeLM, TypeBLM, TypeGP.
	ModelType string `json:"model_type"`

	// Basis names the basis family for LM/BLM.
	Basis string `json:"basis,omitempty"`

	// NumBasis is the number of basis functions for LM/BLM.
	NumBasis int `json:"num_basis,omitempty"`

	// DataLimits are the basis domain bounds for LM/BLM.
	DataLimits []float64 `json:"data_limits,omitempty"`

	// Kernel names the covariance function for GP.
	Kernel string `json:"kernel,omitempty"`

	// KernelParams holds the covariance hyper-parameters for GP.
	KernelParams map[string]float64 `json:"kernel_params,omitempty"`

	NumData int `json:"num_data"`

	// Weights is w_star for LM and mu_w for BLM. Empty until fitted.
	Weights []float64 `json:"weights,omitempty"`

	Sigma2 float64 `json:"sigma2"`

	// Alpha is the prior scale for BLM.
	Alpha float64 `json:"alpha,omitempty"`

	IsFitted bool `json:"is_fitted"`
}

// ToJSON serialises the snapshot.
func (p *Params) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// FromJSON restores a snapshot written by ToJSON.
func (p *Params) FromJSON(data []byte) error {
	return json.Unmarshal(data, p)
}

// Validate checks that the snapshot is self-consistent.
func (p *Params) Validate() error {
	switch p.ModelType {
	case TypeLM, TypeBLM:
		if p.NumBasis < 1 {
			return fmt.Errorf("num_basis must be positive for %s", p.ModelType)
		}
		if p.IsFitted && len(p.Weights) != p.NumBasis {
			return fmt.Errorf("fitted %s must have %d weights, got %d", p.ModelType, p.NumBasis, len(p.Weights))
		}
		if !p.IsFitted && len(p.Weights) > 0 {
			return fmt.Errorf("unfitted model should not have weights")
		}
	case TypeGP:
		if p.Kernel == "" {
			return fmt.Errorf("kernel is required for GP")
		}
	case "":
		return fmt.Errorf("model_type is required")
	default:
		return fmt.Errorf("unknown model_type %q", p.ModelType)
	}
	if p.NumData < 1 {
		return fmt.Errorf("num_data must be positive")
	}
	return nil
}

// Clone returns a deep copy.
func (p *Params) Clone() *Params {
	clone := *p
	if p.DataLimits != nil {
		clone.DataLimits = append([]float64(nil), p.DataLimits...)
	}
	if p.Weights != nil {
		clone.Weights = append([]float64(nil), p.Weights...)
	}
	if p.KernelParams != nil {
		clone.KernelParams = make(map[string]float64, len(p.KernelParams))
		for k, v := range p.KernelParams {
			clone.KernelParams[k] = v
		}
	}
	return &clone
}
