package mathutil

import (
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		val      float64
		expected float64
	}{
		{
			name:     "Round down",
			val:      1.234,
			expected: 1.23,
		},
		{
			name:     "Round up",
			val:      1.235,
			expected: 1.24,
		},
		{
			name:     "Already two decimals",
			val:      100.50,
			expected: 100.50,
		},
		{
			name:     "Negative value",
			val:      -1.236,
			expected: -1.24,
		},
		{
			name:     "Machine error near zero",
			val:      0.0000001,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.val)
			if result != tt.expected {
				t.Errorf("Round(%f) = %f, expected %f", tt.val, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(0.005) {
		t.Errorf("IsZero(0.005) = false, expected true")
	}
	if IsZero(0.02) {
		t.Errorf("IsZero(0.02) = true, expected false")
	}
	if !IsZero(-0.009) {
		t.Errorf("IsZero(-0.009) = false, expected true")
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(100.00, 100.05, 0.1) {
		t.Errorf("WithinTolerance(100.00, 100.05, 0.1) = false, expected true")
	}
	if WithinTolerance(100.00, 100.25, 0.1) {
		t.Errorf("WithinTolerance(100.00, 100.25, 0.1) = true, expected false")
	}
}

func TestMinMax(t *testing.T) {
	if Min(1.5, 2.5) != 1.5 {
		t.Errorf("Min(1.5, 2.5) = %f, expected 1.5", Min(1.5, 2.5))
	}
	if Max(1.5, 2.5) != 2.5 {
		t.Errorf("Max(1.5, 2.5) = %f, expected 2.5", Max(1.5, 2.5))
	}
}
