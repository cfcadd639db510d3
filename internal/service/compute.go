package service

import (
	"math/big"

	apperrors "github.com/stasstaf/shopcart/pkg/errors"
)

// ComputeService implements the stateless arithmetic endpoints. No store,
// no locks; every method is a pure function of its arguments.
type ComputeService struct{}

// NewComputeService creates a new compute service.
func NewComputeService() *ComputeService {
	return &ComputeService{}
}

// Factorial returns n! for non-negative n.
func (s *ComputeService) Factorial(n int64) (*big.Int, error) {
	if n < 0 {
		return nil, apperrors.InvalidInput("parameter 'n' must be a non-negative integer")
	}
	return new(big.Int).MulRange(1, n), nil
}

// Fibonacci returns the n-th Fibonacci number for non-negative n,
// with F(0)=0 and F(1)=1.
func (s *ComputeService) Fibonacci(n int64) (*big.Int, error) {
	if n < 0 {
		return nil, apperrors.InvalidInput("parameter 'n' must be a non-negative integer")
	}

	a, b := big.NewInt(0), big.NewInt(1)
	for i := int64(0); i < n; i++ {
		a.Add(a, b)
		a, b = b, a
	}
	return a, nil
}

// Mean returns the arithmetic mean of a non-empty slice.
func (s *ComputeService) Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, apperrors.InvalidInput("array must not be empty")
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}
