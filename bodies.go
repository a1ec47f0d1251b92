// ./bodies.go
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
	"strings"
)

// Body identifies a celestial object using the NAIF integer convention
// shared by SPK kernel files and the chain resolver: 0 is the solar-system
// barycenter (the inertial origin), 1-9 are planet barycenters, 10 is the
// Sun, x99 is a planet center, 301 is the Moon. The set is closed; kernel
// segments naming an id outside it are rejected at load time.
type Body int

const (
	// SolarSystemBarycenter is the inertial origin of the body forest.
	SolarSystemBarycenter Body = 0
	// MercuryBarycenter represents the Mercury system barycenter.
	MercuryBarycenter Body = 1
	// VenusBarycenter represents the Venus system barycenter.
	VenusBarycenter Body = 2
	// EarthMoonBarycenter represents the Earth-Moon barycenter.
	EarthMoonBarycenter Body = 3
	// MarsBarycenter represents the Mars system barycenter.
	MarsBarycenter Body = 4
	// JupiterBarycenter represents the Jupiter system barycenter.
	JupiterBarycenter Body = 5
	// SaturnBarycenter represents the Saturn system barycenter.
	SaturnBarycenter Body = 6
	// UranusBarycenter represents the Uranus system barycenter.
	UranusBarycenter Body = 7
	// NeptuneBarycenter represents the Neptune system barycenter.
	NeptuneBarycenter Body = 8
	// PlutoBarycenter represents the Pluto system barycenter.
	PlutoBarycenter Body = 9
	// Sun represents the Sun.
	Sun Body = 10
	// Mercury represents the planet Mercury.
	Mercury Body = 199
	// Venus represents the planet Venus.
	Venus Body = 299
	// Moon represents the Earth's Moon.
	Moon Body = 301
	// Earth represents the planet Earth.
	Earth Body = 399
	// Mars represents the planet Mars.
	Mars Body = 499
	// Jupiter represents the planet Jupiter.
	Jupiter Body = 599
	// Saturn represents the planet Saturn.
	Saturn Body = 699
	// Uranus represents the planet Uranus.
	Uranus Body = 799
	// Neptune represents the planet Neptune.
	Neptune Body = 899
	// Pluto represents the dwarf planet Pluto.
	Pluto Body = 999
)

// bodyParents is the fixed parent forest over the closed body set. Every
// body except the solar-system barycenter has exactly one parent for
// ephemeris purposes; chain resolution walks these links to the origin.
var bodyParents = map[Body]Body{
	MercuryBarycenter:   SolarSystemBarycenter,
	VenusBarycenter:     SolarSystemBarycenter,
	EarthMoonBarycenter: SolarSystemBarycenter,
	MarsBarycenter:      SolarSystemBarycenter,
	JupiterBarycenter:   SolarSystemBarycenter,
	SaturnBarycenter:    SolarSystemBarycenter,
	UranusBarycenter:    SolarSystemBarycenter,
	NeptuneBarycenter:   SolarSystemBarycenter,
	PlutoBarycenter:     SolarSystemBarycenter,
	Sun:                 SolarSystemBarycenter,
	Mercury:             MercuryBarycenter,
	Venus:               VenusBarycenter,
	Moon:                EarthMoonBarycenter,
	Earth:               EarthMoonBarycenter,
	Mars:                MarsBarycenter,
	Jupiter:             JupiterBarycenter,
	Saturn:              SaturnBarycenter,
	Uranus:              UranusBarycenter,
	Neptune:             NeptuneBarycenter,
	Pluto:               PlutoBarycenter,
}

var bodyNames = map[Body]string{
	SolarSystemBarycenter: "solar-system barycenter",
	MercuryBarycenter:     "mercury barycenter",
	VenusBarycenter:       "venus barycenter",
	EarthMoonBarycenter:   "earth-moon barycenter",
	MarsBarycenter:        "mars barycenter",
	JupiterBarycenter:     "jupiter barycenter",
	SaturnBarycenter:      "saturn barycenter",
	UranusBarycenter:      "uranus barycenter",
	NeptuneBarycenter:     "neptune barycenter",
	PlutoBarycenter:       "pluto barycenter",
	Sun:                   "sun",
	Mercury:               "mercury",
	Venus:                 "venus",
	Moon:                  "moon",
	Earth:                 "earth",
	Mars:                  "mars",
	Jupiter:               "jupiter",
	Saturn:                "saturn",
	Uranus:                "uranus",
	Neptune:               "neptune",
	Pluto:                 "pluto",
}

// Parent returns the declared parent of b in the body forest. The second
// return value is false for the solar-system barycenter, which has no
// parent, and for ids outside the closed body set.
func (b Body) Parent() (Body, bool) {
	parent, ok := bodyParents[b]
	return parent, ok
}

// Valid reports whether b is a member of the closed body set.
func (b Body) Valid() bool {
	if b == SolarSystemBarycenter {
		return true
	}
	_, ok := bodyParents[b]
	return ok
}

// String returns a human-readable name for the body, or its numeric id
// for values outside the closed set.
func (b Body) String() string {
	if name, ok := bodyNames[b]; ok {
		return name
	}
	return fmt.Sprintf("body(%d)", int(b))
}

// ParseBody resolves a body from a case-insensitive name as printed by
// String (spaces and dashes are interchangeable), or from its numeric
// NAIF id.
func ParseBody(s string) (Body, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", " ")
	norm = strings.ReplaceAll(norm, "-", " ")
	for b, name := range bodyNames {
		if strings.ReplaceAll(name, "-", " ") == norm {
			return b, nil
		}
	}
	var id int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &id); err == nil {
		if b := Body(id); b.Valid() {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown body %q", ErrInvalidQuery, s)
}
