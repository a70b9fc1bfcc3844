// Package core implements the monthly balance-reconciliation engine:
// category aggregation, per-participant netting of group expenses and the
// greedy settlement matching that clears the resulting balances.
//
// Everything in this package is pure and synchronous. Inputs are never
// mutated, so concurrent report builds over separate expense windows are
// safe without locking.
package core

import "math"

const (
	// epsilon counteracts binary floating-point representation error
	// before rounding (0.1+0.2 style drift). Applied inside Round2.
	epsilon = 1e-9

	// zeroTolerance is the half-cent band treated as zero. Balances
	// within it are considered settled.
	zeroTolerance = 0.005

	// settledRemainder is the residue below which a debtor or creditor
	// is considered exhausted during settlement matching.
	settledRemainder = 0.01
)

// Round2 rounds x to two decimal places, half away from zero, after
// nudging the value by epsilon. Idempotent: Round2(Round2(x)) == Round2(x).
func Round2(x float64) float64 {
	return math.Round((x+epsilon)*100) / 100
}

// IsZero reports whether x is within half a cent of zero. All monetary
// decision branches in this package use this instead of float equality.
func IsZero(x float64) bool {
	return math.Abs(x) < zeroTolerance
}
