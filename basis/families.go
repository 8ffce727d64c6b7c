package basis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NewPolynomial returns the polynomial basis. Column i is z^i where
// z = (x - centre) / half_span maps the data limits onto [-1, 1].
func NewPolynomial(numBasis int, limits [2]float64) (Basis, error) {
	f, err := newFamily(string(Polynomial), numBasis, limits)
	if err != nil {
		return nil, err
	}
	centre := limits[0]/2 + limits[1]/2
	halfSpan := (limits[1] - limits[0]) / 2
	f.column = func(x float64, i int) float64 {
		return math.Pow((x-centre)/halfSpan, float64(i))
	}
	return f, nil
}

// NewRadial returns a Gaussian radial basis with centres spread evenly over
// the data limits. The width is half the spacing between neighbouring
// centres. A single function sits at the midpoint with width half the span.
func NewRadial(numBasis int, limits [2]float64) (Basis, error) {
	f, err := newFamily(string(Radial), numBasis, limits)
	if err != nil {
		return nil, err
	}

	var centres []float64
	var width float64
	if numBasis > 1 {
		centres = floats.Span(make([]float64, numBasis), limits[0], limits[1])
		width = (centres[1] - centres[0]) / 2
	} else {
		centres = []float64{limits[0]/2 + limits[1]/2}
		width = (limits[1] - limits[0]) / 2
	}

	f.column = func(x float64, i int) float64 {
		d := (x - centres[i]) / width
		return math.Exp(-0.5 * d * d)
	}
	return f, nil
}

// NewFourier returns a Fourier basis. Column 0 is constant; after that
// columns alternate sine and cosine with frequency floor((i+1)/2)/span.
func NewFourier(numBasis int, limits [2]float64) (Basis, error) {
	f, err := newFamily(string(Fourier), numBasis, limits)
	if err != nil {
		return nil, err
	}
	span := limits[1] - limits[0]
	f.column = func(x float64, i int) float64 {
		frequency := float64((i+1)/2) / span
		arg := 2 * math.Pi * frequency * x
		if i%2 == 1 {
			return math.Sin(arg)
		}
		return math.Cos(arg)
	}
	return f, nil
}
