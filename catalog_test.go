// ./catalog_test.go
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
	"testing"

	"github.com/stretchr/testify/require"
)

func loadFixtureKernel(t *testing.T, fix spkFixture) *Kernel {
	t.Helper()
	k, err := LoadKernel(writeSPK(t, fix), true, discardLogger())
	require.NoError(t, err)
	return k
}

func TestCatalogLastLoadedWins(t *testing.T) {
	older := defaultSPKFixture()
	newer := defaultSPKFixture()
	// Same hops, same coverage, visibly different positions.
	for i := range newer.hops {
		newer.hops[i].p0 = newer.hops[i].p0.Scale(2)
	}

	cat := newCatalog()
	cat.add(loadFixtureKernel(t, older))
	cat.add(loadFixtureKernel(t, newer))

	rec, ok := cat.findRecord(EarthMoonBarycenter, SolarSystemBarycenter, 0)
	require.True(t, ok)
	st := evaluateRecord(rec, 0)
	want := hopState(newer.hops[0], newer.start, 0)
	requireStateNear(t, want, st, 1e-10)
}

func TestCatalogFallsBackAcrossCoverage(t *testing.T) {
	early := defaultSPKFixture()
	late := defaultSPKFixture()
	late.start = early.end
	late.end = early.end + 64*secondsPerDay

	cat := newCatalog()
	cat.add(loadFixtureKernel(t, early))
	cat.add(loadFixtureKernel(t, late))

	// The late kernel wins where it covers; outside its coverage the
	// earlier kernel still answers.
	et := early.start + secondsPerDay
	rec, ok := cat.findRecord(Moon, EarthMoonBarycenter, et)
	require.True(t, ok)
	require.LessOrEqual(t, rec.Start, et)

	_, ok = cat.findRecord(Moon, EarthMoonBarycenter, late.end+secondsPerDay)
	require.False(t, ok, "beyond both kernels")

	start, end, ok := cat.coverage(Moon, EarthMoonBarycenter)
	require.True(t, ok)
	require.Equal(t, early.start, start)
	require.Equal(t, late.end, end)
}

func TestCatalogUnknownPair(t *testing.T) {
	cat := newCatalog()
	cat.add(loadFixtureKernel(t, defaultSPKFixture()))

	_, ok := cat.findRecord(Jupiter, JupiterBarycenter, 0)
	require.False(t, ok)
	_, _, ok = cat.coverage(Jupiter, JupiterBarycenter)
	require.False(t, ok)
}

func TestCatalogDuplicateKernel(t *testing.T) {
	fix := defaultSPKFixture()
	path := writeSPK(t, fix)
	k1, err := LoadKernel(path, true, discardLogger())
	require.NoError(t, err)
	k2, err := LoadKernel(path, true, discardLogger())
	require.NoError(t, err)

	single := newCatalog()
	single.add(k1)
	double := newCatalog()
	double.add(k1)
	double.add(k2)

	require.Len(t, double.Kernels(), 2)

	r1, ok := single.findRecord(Sun, SolarSystemBarycenter, 0)
	require.True(t, ok)
	r2, ok := double.findRecord(Sun, SolarSystemBarycenter, 0)
	require.True(t, ok)
	require.Equal(t, evaluateRecord(r1, 0), evaluateRecord(r2, 0))
}
