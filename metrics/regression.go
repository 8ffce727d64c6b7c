// Package metrics provides regression scores over gonum vectors and the
// Gaussian log likelihood shared by the basis-function models.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/bayesreg/pkg/errors"
)

const log2Pi = 1.8378770664093453 // log(2π)

func checkPair(op string, yTrue, yPred mat.Vector) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// SumSquares returns Σ(yTrue_i - yPred_i)².
func SumSquares(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("SumSquares", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum, nil
}

// MSE returns the mean squared error.
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	ss, err := SumSquares(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return ss / float64(yTrue.Len()), nil
}

// RMSE returns the root mean squared error.
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE returns the mean absolute error.
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score returns the coefficient of determination 1 - RSS/TSS. It fails
// when yTrue is constant.
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var mean float64
	for i := 0; i < n; i++ {
		mean += yTrue.AtVec(i)
	}
	mean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yt := yTrue.AtVec(i)
		yp := yPred.AtVec(i)
		tss += (yt - mean) * (yt - mean)
		rss += (yt - yp) * (yt - yp)
	}

	if tss == 0 {
		return 0, errors.NewValidationError("y_true", "total sum of squares is zero", tss)
	}
	return 1 - rss/tss, nil
}

// GaussianLogLikelihood returns the log likelihood of n residuals with sum of
// squares ss under i.i.d. zero-mean Gaussian noise of variance sigma2:
//
//	-n/2·log(2π) - n/2·log(sigma2) - ss/(2·sigma2)
//
// sigma2 must be finite and positive.
func GaussianLogLikelihood(n int, ss, sigma2 float64) (float64, error) {
	if err := errors.CheckPositive("GaussianLogLikelihood", "sigma2", sigma2); err != nil {
		return 0, err
	}
	fn := float64(n)
	ll := -fn/2*log2Pi - fn/2*math.Log(sigma2) - ss/(2*sigma2)
	if err := errors.CheckScalar("GaussianLogLikelihood", ll); err != nil {
		return 0, err
	}
	return ll, nil
}
