// ./frame.go
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

import "math"

// obliquityJ2000 is the mean obliquity of the ecliptic at J2000.0
// (IAU 1976: 84381.448 arcseconds) in radians. Both supported frames
// share the J2000 reference epoch, so the rotation between them is a
// single constant matrix; time-dependent precession and nutation belong
// to the frame-transform layer above this engine.
var obliquityJ2000 = 84381.448 / 3600 * math.Pi / 180

// rotateToFrame converts a state from the native inertial frame (ICRF)
// into the requested output frame. The same rotation applies to position
// and velocity, so their mutual consistency and the vector magnitudes
// are preserved.
func rotateToFrame(st StateVector, f Frame) StateVector {
	if f == FrameICRF {
		return st
	}
	sinE, cosE := math.Sin(obliquityJ2000), math.Cos(obliquityJ2000)
	rotate := func(v Vector3) Vector3 {
		return Vector3{
			X: v.X,
			Y: cosE*v.Y + sinE*v.Z,
			Z: -sinE*v.Y + cosE*v.Z,
		}
	}
	return StateVector{
		Position: rotate(st.Position),
		Velocity: rotate(st.Velocity),
	}
}
