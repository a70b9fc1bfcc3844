package core

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in  float64
		out float64
	}{
		{0, 0},
		{1.005, 1.01}, // binary 1.005 is just below the half; epsilon restores the tie
		{1.004, 1.0},
		{2.675, 2.68},
		{0.1 + 0.2, 0.3},
		{-1.005, -1.0},
		{-2.559, -2.56},
		{59.999999999, 60.0},
		{12345.678, 12345.68},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); !almostEqual(got, tc.out) {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.out)
		}
	}
}

func TestRound2Idempotent(t *testing.T) {
	values := []float64{0, 0.005, 1.2345, -987.654, 30, 0.009999, 1e6 + 0.555}
	for _, v := range values {
		once := Round2(v)
		twice := Round2(once)
		if once != twice {
			t.Fatalf("Round2 not idempotent for %v: %v != %v", v, once, twice)
		}
	}
}

func TestIsZero(t *testing.T) {
	cases := []struct {
		in   float64
		want bool
	}{
		{0, true},
		{0.004, true},
		{-0.004, true},
		{0.005, false},
		{-0.005, false},
		{0.01, false},
		{1, false},
	}
	for _, tc := range cases {
		if got := IsZero(tc.in); got != tc.want {
			t.Fatalf("IsZero(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
