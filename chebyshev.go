// ./chebyshev.go
package spkeph

/*
This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

// maxChebyshevOrder bounds the number of coefficients per component.
// 32 comfortably covers every published DE/SPK planetary series (the
// Moon peaks at 13, Mercury at 14).
const maxChebyshevOrder = 32

// evaluateRecord interpolates a coefficient record at et, which the
// caller guarantees lies inside the record's window. Position comes from
// the Chebyshev series evaluated at the normalized epoch; velocity from
// the companion coefficient set when the record carries one, otherwise
// from the analytic derivative of the position basis. Both are rescaled
// to the engine units (km, km/day), so position and velocity are always
// mutually consistent to floating-point evaluation error.
func evaluateRecord(rec *CoefficientRecord, et float64) StateVector {
	// Normalize to the Chebyshev domain [-1, 1] over the window.
	tc := (et - rec.Mid) / rec.Radius
	if tc < -1 {
		tc = -1
	} else if tc > 1 {
		tc = 1
	}

	ncf := len(rec.Pos[0])

	// Chebyshev polynomials T_i(tc) by the three-term recurrence
	// T_{n+1} = 2*tc*T_n - T_{n-1}; repeated-powers evaluation loses
	// precision for high-degree records and is deliberately avoided.
	var tp [maxChebyshevOrder]float64
	twot := tc + tc
	tp[0] = 1
	tp[1] = tc
	for i := 2; i < ncf; i++ {
		tp[i] = twot*tp[i-1] - tp[i-2]
	}

	var st StateVector
	pos := [3]*float64{&st.Position.X, &st.Position.Y, &st.Position.Z}
	vel := [3]*float64{&st.Velocity.X, &st.Velocity.Y, &st.Velocity.Z}

	for c := 0; c < 3; c++ {
		sum := 0.0
		for j := ncf - 1; j >= 0; j-- {
			sum += tp[j] * rec.Pos[c][j]
		}
		*pos[c] = sum
	}

	if rec.hasVelocitySet() {
		// Companion set is km/s; rescale to km/day.
		for c := 0; c < 3; c++ {
			sum := 0.0
			for j := ncf - 1; j >= 0; j-- {
				sum += tp[j] * rec.Vel[c][j]
			}
			*vel[c] = sum * secondsPerDay
		}
		return st
	}

	// Derivatives T'_i(tc) by the recurrence
	// T'_{n+1} = 2*tc*T'_n + 2*T_n - T'_{n-1}.
	var dp [maxChebyshevOrder]float64
	dp[0] = 0
	dp[1] = 1
	for i := 2; i < ncf; i++ {
		dp[i] = twot*dp[i-1] + 2*tp[i-1] - dp[i-2]
	}
	// d(tc)/d(et) = 1/Radius, then seconds to days.
	vfac := secondsPerDay / rec.Radius
	for c := 0; c < 3; c++ {
		sum := 0.0
		for j := ncf - 1; j >= 1; j-- {
			sum += dp[j] * rec.Pos[c][j]
		}
		*vel[c] = sum * vfac
	}
	return st
}
