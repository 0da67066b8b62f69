// SPDX-License-Identifier: MIT
// Package kernel: exponentially scaled modified Bessel functions.
//
// All helpers return e^(-|y|)·I_n(y) directly, so large variances do not
// overflow the way an unscaled I_n(y)·e^(-y) product would. The polynomial
// approximations are the classic Abramowitz & Stegun 9.8.1–9.8.4 fits
// (|relative error| < 2e-7); orders ≥ 2 use Miller's downward recurrence
// normalized against I_0.

package kernel

import "math"

// besselAccuracy controls the starting order of Miller's recurrence.
const besselAccuracy = 40

// besselRescale bounds the recurrence values to avoid overflow.
const besselRescale = 1e10

// besselI0e returns e^(-|y|)·I_0(y).
func besselI0e(y float64) float64 {
	d := math.Abs(y)
	if d < 3.75 {
		m := (y / 3.75) * (y / 3.75)
		acc := 1.0 + m*(3.5156229+m*(3.0899424+m*(1.2067492+m*(0.2659732+m*(0.360768e-1+m*0.45813e-2)))))

		return acc * math.Exp(-d)
	}
	m := 3.75 / d
	acc := 0.39894228 + m*(0.1328592e-1+m*(0.225319e-2+m*(-0.157565e-2+m*(0.916281e-2+
		m*(-0.2057706e-1+m*(0.2635537e-1+m*(-0.1647633e-1+m*0.392377e-2)))))))

	return acc / math.Sqrt(d)
}

// besselI1e returns e^(-|y|)·I_1(y).
func besselI1e(y float64) float64 {
	d := math.Abs(y)
	var acc float64
	if d < 3.75 {
		m := (y / 3.75) * (y / 3.75)
		acc = d * (0.5 + m*(0.87890594+m*(0.51498869+m*(0.15084934+m*(0.2658733e-1+m*(0.301532e-2+m*0.32411e-3))))))
		acc *= math.Exp(-d)
	} else {
		m := 3.75 / d
		acc = 0.2282967e-1 + m*(-0.2895312e-1+m*(0.1787654e-1-m*0.420059e-2))
		acc = 0.39894228 + m*(-0.3988024e-1+m*(-0.362018e-2+m*(0.163801e-2+m*(-0.1031555e-1+m*acc))))
		acc /= math.Sqrt(d)
	}
	if y < 0 {
		return -acc
	}

	return acc
}

// besselIne returns e^(-|y|)·I_n(y) for n ≥ 2.
// Complexity: O(n + sqrt(besselAccuracy·n)).
func besselIne(n int, y float64) float64 {
	if y == 0 {
		return 0
	}
	toy := 2.0 / math.Abs(y)
	var acc, qip float64
	qi := 1.0
	for j := 2 * (n + int(math.Sqrt(float64(besselAccuracy*n)))); j > 0; j-- {
		qim := qip + float64(j)*toy*qi
		qip = qi
		qi = qim
		if math.Abs(qi) > besselRescale {
			acc /= besselRescale
			qi /= besselRescale
			qip /= besselRescale
		}
		if j == n {
			acc = qip
		}
	}
	acc *= besselI0e(y) / qi
	if y < 0 && n&1 == 1 {
		return -acc
	}

	return acc
}
