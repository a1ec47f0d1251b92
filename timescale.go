// ./timescale.go
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

// Timescale maps caller epochs onto the dynamical time scale kernel
// coefficients are indexed in. It is an already-parsed handle supplied
// at construction: the engine never reads a leap-second kernel's own
// text format, it only applies the mapping to query epochs and exposes
// the handle so collaborators can do their own time arithmetic
// consistently with the engine.
type Timescale interface {
	// ToTDB converts a Julian date in the caller's time scale to a TDB
	// Julian date.
	ToTDB(jd float64) float64
	// Name identifies the handle for diagnostics.
	Name() string
}

// tdbTimescale is the identity handle used when the configuration
// supplies none: epochs are taken to be TDB Julian dates already.
type tdbTimescale struct{}

func (tdbTimescale) ToTDB(jd float64) float64 { return jd }
func (tdbTimescale) Name() string             { return "TDB" }

// FixedOffsetTimescale shifts epochs by a constant number of seconds.
// It covers the common "TT with a fixed delta-T" arrangement where the
// caller's scale differs from TDB by an amount that is constant over the
// queried span.
type FixedOffsetTimescale struct {
	// OffsetSeconds is added to each epoch.
	OffsetSeconds float64
	// Label names the source scale, e.g. "UTC+ΔT(2025)".
	Label string
}

// ToTDB implements Timescale.
func (t FixedOffsetTimescale) ToTDB(jd float64) float64 {
	return jd + t.OffsetSeconds/secondsPerDay
}

// Name implements Timescale.
func (t FixedOffsetTimescale) Name() string {
	if t.Label == "" {
		return "fixed-offset"
	}
	return t.Label
}
