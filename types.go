// ./types.go
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

import (
	"fmt"
	"math"
	"strings"
)

// j2000JD is the Julian date of the J2000.0 reference epoch. Kernel
// segments index time as TDB seconds past this epoch; the public API
// speaks Julian dates.
const j2000JD = 2451545.0

// secondsPerDay converts between the kernel time unit (seconds) and the
// engine time unit (days).
const secondsPerDay = 86400.0

// Vector3 is a 3-component Cartesian vector.
type Vector3 struct {
	// X is the X component.
	X float64
	// Y is the Y component.
	Y float64
	// Z is the Z component.
	Z float64
}

// Add returns the componentwise sum v + w.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns the componentwise difference v - w.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v multiplied by the scalar s.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Norm returns the Euclidean length of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// StateVector is the position and velocity of a body relative to some
// reference body, expressed in a fixed inertial frame. Position is in
// kilometers, velocity in kilometers per day. StateVector is an immutable
// value type.
type StateVector struct {
	// Position is the position vector in km.
	Position Vector3
	// Velocity is the velocity vector in km/day.
	Velocity Vector3
}

// Add returns the hop-wise sum of two states. Translations compose
// additively in a non-rotating frame, for position and velocity alike.
func (s StateVector) Add(o StateVector) StateVector {
	return StateVector{
		Position: s.Position.Add(o.Position),
		Velocity: s.Velocity.Add(o.Velocity),
	}
}

// Sub returns the componentwise difference of two states.
func (s StateVector) Sub(o StateVector) StateVector {
	return StateVector{
		Position: s.Position.Sub(o.Position),
		Velocity: s.Velocity.Sub(o.Velocity),
	}
}

// Frame identifies one of the closed set of output reference frames.
type Frame int

const (
	// FrameICRF is the native inertial frame of the kernel data
	// (the International Celestial Reference Frame, J2000 equatorial).
	FrameICRF Frame = iota
	// FrameEclipticJ2000 is the J2000 mean ecliptic frame, reached from
	// ICRF by one fixed rotation about the X axis by the J2000 mean
	// obliquity.
	FrameEclipticJ2000
)

// String returns the conventional name of the frame.
func (f Frame) String() string {
	switch f {
	case FrameICRF:
		return "ICRF"
	case FrameEclipticJ2000:
		return "ECLIPJ2000"
	default:
		return fmt.Sprintf("frame(%d)", int(f))
	}
}

// valid reports whether f is a member of the closed frame set.
func (f Frame) valid() bool {
	return f == FrameICRF || f == FrameEclipticJ2000
}

// ParseFrame resolves a frame from its conventional name,
// case-insensitively. "icrf", "j2000", "ecliptic" and "eclipj2000" are
// accepted.
func ParseFrame(s string) (Frame, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "icrf", "j2000", "":
		return FrameICRF, nil
	case "ecliptic", "eclipj2000":
		return FrameEclipticJ2000, nil
	default:
		return 0, fmt.Errorf("%w: unknown frame %q", ErrInvalidQuery, s)
	}
}

// Query asks for the state of Target as seen from Observer at Epoch,
// expressed in Frame. Epoch is a Julian date in the caller's time scale;
// the engine's Timescale handle maps it to TDB before resolution.
// Observer may be SolarSystemBarycenter to request the absolute state.
type Query struct {
	// Target is the body whose state is requested.
	Target Body
	// Observer is the body the state is expressed relative to.
	Observer Body
	// Frame is the output reference frame.
	Frame Frame
	// Epoch is the Julian date of the request.
	Epoch float64
}

// BatchResult carries one element of a QueryBatch response. Exactly one
// of State and Err is meaningful: Err is nil on success.
type BatchResult struct {
	// State is the resolved state vector when Err is nil.
	State StateVector
	// Err is the per-query failure, if any.
	Err error
}

// QueryStats reports how a single query's hop lookups were served.
type QueryStats struct {
	// CacheHits counts hops served from the evaluation cache.
	CacheHits int
	// CacheMisses counts hops computed from kernel coefficients.
	CacheMisses int
}
