package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stasstaf/shopcart/pkg/errors"
)

func TestComputeService_Factorial(t *testing.T) {
	svc := NewComputeService()

	cases := []struct {
		n    int64
		want string
	}{
		{0, "1"},
		{1, "1"},
		{5, "120"},
		{10, "3628800"},
		{25, "15511210043330985984000000"},
	}
	for _, tc := range cases {
		result, err := svc.Factorial(tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.want, result.String(), "n=%d", tc.n)
	}

	_, err := svc.Factorial(-1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestComputeService_Fibonacci(t *testing.T) {
	svc := NewComputeService()

	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{2, "1"},
		{10, "55"},
		{50, "12586269025"},
		{100, "354224848179261915075"},
	}
	for _, tc := range cases {
		result, err := svc.Fibonacci(tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.want, result.String(), "n=%d", tc.n)
	}

	_, err := svc.Fibonacci(-5)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestComputeService_Mean(t *testing.T) {
	svc := NewComputeService()

	t.Run("averages values", func(t *testing.T) {
		result, err := svc.Mean([]float64{1, 2, 3, 4})
		require.NoError(t, err)
		assert.Equal(t, 2.5, result)
	})

	t.Run("single element", func(t *testing.T) {
		result, err := svc.Mean([]float64{7.5})
		require.NoError(t, err)
		assert.Equal(t, 7.5, result)
	})

	t.Run("negative values are fine", func(t *testing.T) {
		result, err := svc.Mean([]float64{-2, 2})
		require.NoError(t, err)
		assert.Zero(t, result)
	})

	t.Run("empty array is rejected", func(t *testing.T) {
		_, err := svc.Mean([]float64{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
