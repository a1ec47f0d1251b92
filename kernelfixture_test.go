// ./kernelfixture_test.go
package spkeph

/*
Test fixtures: synthetic SPK and DE kernel files.

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

// The builders write real binary kernel layouts to disk, not mocks: the
// reader tests exercise the same byte-level parsing paths a production
// DE440/DE440s file would. Every synthetic body moves linearly,
//
//	p(t) = p0 + v*(t - segment start)
//
// which a degree-1 Chebyshev series represents exactly, so the expected
// query results are exact up to rounding in the evaluation itself.

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testHop describes the linear motion of one (target, center) hop:
// position p0 in km at the segment start epoch, constant velocity v in
// km/s.
type testHop struct {
	target Body
	center Body
	p0     Vector3
	v      Vector3
}

// standardTestHops is the full forest slice used by the engine tests:
// every hop needed to resolve Sun, Mars, Earth and Moon queries.
func standardTestHops() []testHop {
	return []testHop{
		{EarthMoonBarycenter, SolarSystemBarycenter,
			Vector3{X: 1.4709e8, Y: 2.1e6, Z: 9.1e5}, Vector3{X: -3.2, Y: 28.7, Z: 12.4}},
		{Earth, EarthMoonBarycenter,
			Vector3{X: -4.6e3, Y: 1.1e3, Z: 4.8e2}, Vector3{X: -0.011, Y: -0.0092, Z: -0.004}},
		{Moon, EarthMoonBarycenter,
			Vector3{X: 3.74e5, Y: -8.9e4, Z: -3.9e4}, Vector3{X: 0.894, Y: 0.748, Z: 0.325}},
		{MarsBarycenter, SolarSystemBarycenter,
			Vector3{X: -2.279e8, Y: 9.1e6, Z: 6.2e6}, Vector3{X: -1.1, Y: -20.1, Z: -9.1}},
		{Mars, MarsBarycenter,
			Vector3{X: 12.0, Y: -5.0, Z: 2.0}, Vector3{X: 1e-6, Y: 2e-6, Z: -1e-6}},
		{Sun, SolarSystemBarycenter,
			Vector3{X: -1.068e6, Y: -4.177e5, Z: -1.58e5}, Vector3{X: 0.0093, Y: -0.0097, Z: -0.0042}},
	}
}

// hopState evaluates a testHop's exact state at et seconds, in engine
// units.
func hopState(h testHop, segStart, et float64) StateVector {
	dt := et - segStart
	return StateVector{
		Position: h.p0.Add(h.v.Scale(dt)),
		Velocity: h.v.Scale(secondsPerDay),
	}
}

// chainState resolves a body to the origin through the testHop table.
func chainState(t *testing.T, hops []testHop, body Body, segStart, et float64) StateVector {
	t.Helper()
	var total StateVector
	for body != SolarSystemBarycenter {
		parent, ok := body.Parent()
		require.True(t, ok, "body %v has no parent", body)
		found := false
		for _, h := range hops {
			if h.target == body && h.center == parent {
				total = total.Add(hopState(h, segStart, et))
				found = true
				break
			}
		}
		require.True(t, found, "no test hop for %v/%v", body, parent)
		body = parent
	}
	return total
}

// relativeState is the exact expectation for target seen from observer.
func relativeState(t *testing.T, hops []testHop, target, observer Body, segStart, et float64) StateVector {
	t.Helper()
	st := chainState(t, hops, target, segStart, et)
	if observer == SolarSystemBarycenter {
		return st
	}
	return st.Sub(chainState(t, hops, observer, segStart, et))
}

// spkFixture controls the synthetic SPK builder.
type spkFixture struct {
	start   float64 // TDB seconds past J2000
	end     float64
	windows int // coefficient windows per segment
	hops    []testHop
	// corrupt, when non-nil, patches the file bytes before writing.
	corrupt func([]byte)
	// segType is the declared segment type; 0 means type 2.
	segType int
}

const spkTestWindows = 4

// defaultSPKFixture covers 64 days centered near J2000.
func defaultSPKFixture() spkFixture {
	return spkFixture{
		start:   -32 * secondsPerDay,
		end:     32 * secondsPerDay,
		windows: spkTestWindows,
		hops:    standardTestHops(),
	}
}

// writeSPK writes a complete little-endian DAF/SPK file and returns the
// path.
func writeSPK(t *testing.T, fix spkFixture) string {
	t.Helper()
	const ncoeff = 2
	segType := fix.segType
	if segType == 0 {
		segType = spkTypeChebyshevPosition
	}
	rsize := 2 + 3*ncoeff
	if segType == spkTypeChebyshevPosVel {
		rsize = 2 + 6*ncoeff
	}
	wordsPerSeg := fix.windows*rsize + 4
	intlen := (fix.end - fix.start) / float64(fix.windows)

	// Records 1-3: file record, summary record, name record. Elements
	// start at word address 385 (record 4).
	firstElem := 3*dafRecordSize/8 + 1
	totalWords := firstElem - 1 + len(fix.hops)*wordsPerSeg
	size := totalWords * 8
	if rem := size % dafRecordSize; rem != 0 {
		size += dafRecordSize - rem
	}
	data := make([]byte, size)

	putU32 := func(off int, v uint32) { binary.LittleEndian.PutUint32(data[off:], v) }
	putF64 := func(off int, v float64) {
		binary.LittleEndian.PutUint64(data[off:], math.Float64bits(v))
	}
	putWord := func(addr int, v float64) { putF64((addr-1)*8, v) } // 1-based word address

	// File record.
	copy(data[0:], "DAF/SPK ")
	putU32(8, 2)  // ND
	putU32(12, 6) // NI
	copy(data[16:], "spkeph synthetic kernel")
	putU32(76, 2) // FWARD
	putU32(80, 2) // BWARD
	putU32(84, uint32(firstElem+len(fix.hops)*wordsPerSeg)) // FREE
	copy(data[88:], "LTL-IEEE")
	copy(data[699:], "FTPSTR:\r:\n:\r\n:\r\x00:\x81:\x10\xce:ENDFTP")

	// Summary record.
	sumBase := dafRecordSize
	putF64(sumBase, 0)                       // NEXT
	putF64(sumBase+8, 0)                     // PREV
	putF64(sumBase+16, float64(len(fix.hops))) // NSUM
	for j, h := range fix.hops {
		off := sumBase + (3+j*5)*8
		first := firstElem + j*wordsPerSeg
		last := first + wordsPerSeg - 1
		putF64(off, fix.start)
		putF64(off+8, fix.end)
		putU32(off+16, uint32(h.target))
		putU32(off+20, uint32(h.center))
		putU32(off+24, 1) // frame: J2000
		putU32(off+28, uint32(segType))
		putU32(off+32, uint32(first))
		putU32(off+36, uint32(last))

		// Name record entry, 40 chars per segment.
		copy(data[2*dafRecordSize+j*40:], "SPKEPH TEST SEGMENT")

		// Coefficient windows.
		for i := 0; i < fix.windows; i++ {
			base := first + i*rsize
			winStart := fix.start + float64(i)*intlen
			mid := winStart + intlen/2
			radius := intlen / 2
			putWord(base, mid)
			putWord(base+1, radius)
			axes := [3]float64{h.p0.X, h.p0.Y, h.p0.Z}
			vels := [3]float64{h.v.X, h.v.Y, h.v.Z}
			for c := 0; c < 3; c++ {
				// Degree-1 series: value at midpoint, slope over the
				// half-window.
				putWord(base+2+c*ncoeff, axes[c]+vels[c]*(mid-fix.start))
				putWord(base+2+c*ncoeff+1, vels[c]*radius)
			}
			if segType == spkTypeChebyshevPosVel {
				for c := 0; c < 3; c++ {
					putWord(base+2+(3+c)*ncoeff, vels[c])
					putWord(base+2+(3+c)*ncoeff+1, 0)
				}
			}
		}
		// Trailer.
		putWord(last-3, fix.start)
		putWord(last-2, intlen)
		putWord(last-1, float64(rsize))
		putWord(last, float64(fix.windows))
	}

	if fix.corrupt != nil {
		fix.corrupt(data)
	}
	path := filepath.Join(t.TempDir(), "test.bsp")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// DE fixture geometry: 11 series rows, 11 coefficients, 2 granules per
// record, matching the header arithmetic of a real DE file.
const (
	deTestNCF    = 11
	deTestNA     = 2
	deTestNCoeff = 2 + deTestNCF*deTestNA*3*11 // 728 doubles per record
	deTestStart  = 2451536.5                   // JD, 8.5 days before J2000
	deTestStep   = 16.0                        // days per record
	deTestNRecs  = 4
	deTestEMRat  = 81.30056
	deTestAU     = 149597870.7
)

// deTestMotions returns the linear motion of each DE series row 0-10
// (rows 0-8 planet barycenters, row 9 geocentric Moon, row 10 Sun).
func deTestMotions() [11]testHop {
	var rows [11]testHop
	for i := 0; i < 9; i++ {
		rows[i] = testHop{
			p0: Vector3{X: 5e7 * float64(i+1), Y: -2e6 * float64(i+1), Z: 1e6 * float64(i+2)},
			v:  Vector3{X: -2.0 + 0.3*float64(i), Y: 24.0 - 1.5*float64(i), Z: 10.0 - float64(i)},
		}
	}
	// Geocentric Moon.
	rows[9] = testHop{
		p0: Vector3{X: 3.84e5, Y: -7.7e4, Z: -3.4e4},
		v:  Vector3{X: 0.9, Y: 0.82, Z: 0.35},
	}
	// Sun.
	rows[10] = testHop{
		p0: Vector3{X: -1.07e6, Y: -4.2e5, Z: -1.6e5},
		v:  Vector3{X: 0.009, Y: -0.01, Z: -0.004},
	}
	return rows
}

// deTestStartSec is the fixture coverage start in TDB seconds past J2000.
func deTestStartSec() float64 {
	return (deTestStart - j2000JD) * secondsPerDay
}

// writeDE writes a complete little-endian legacy DE binary file and
// returns the path. corrupt, when non-nil, patches the bytes first.
func writeDE(t *testing.T, corrupt func([]byte)) string {
	t.Helper()
	recsize := deTestNCoeff * 8
	data := make([]byte, (deTestNRecs+2)*recsize)

	putU32 := func(off int, v uint32) { binary.LittleEndian.PutUint32(data[off:], v) }
	putF64 := func(off int, v float64) {
		binary.LittleEndian.PutUint64(data[off:], math.Float64bits(v))
	}
	padCopy := func(off int, s string, width int) {
		for i := 0; i < width; i++ {
			data[off+i] = ' '
		}
		copy(data[off:], s)
	}

	// Three title lines; the version digits must sit at column 26.
	padCopy(0, "JPL Planetary Ephemeris DE440", deTitleSize)
	padCopy(deTitleSize, "Start Epoch: JED = 2451536.5", deTitleSize)
	padCopy(2*deTitleSize, "Final Epoch: JED = 2451600.5", deTitleSize)

	// Constant names and values. Names sit between the title lines and
	// the numeric header; values open the second file record.
	padCopy(deTitleSize*3, "DENUM", deConstNameSize)
	padCopy(deTitleSize*3+deConstNameSize, "EMRAT", deConstNameSize)
	putF64(recsize, 440)
	putF64(recsize+8, deTestEMRat)

	// Numeric header.
	endJD := deTestStart + deTestStep*deTestNRecs
	putF64(deNumericHeader, deTestStart)
	putF64(deNumericHeader+8, endJD)
	putF64(deNumericHeader+16, deTestStep)
	putU32(deNumericHeader+24, 2) // ncon
	putF64(deNumericHeader+28, deTestAU)
	putF64(deNumericHeader+36, deTestEMRat)
	for row := 0; row < 11; row++ {
		off := deNumericHeader + 44 + row*3*4
		putU32(off, uint32(3+row*deTestNCF*deTestNA*3)) // 1-based offset
		putU32(off+4, deTestNCF)
		putU32(off+8, deTestNA)
	}
	// Rows 11-14 stay zero: no nutation/libration/TT-TDB series.

	// Data records.
	rows := deTestMotions()
	granJD := deTestStep / float64(deTestNA)
	for nr := 0; nr < deTestNRecs; nr++ {
		recOff := (nr + 2) * recsize
		recStartJD := deTestStart + float64(nr)*deTestStep
		putF64(recOff, recStartJD)
		putF64(recOff+8, recStartJD+deTestStep)
		for row := 0; row < 11; row++ {
			for g := 0; g < deTestNA; g++ {
				midJD := recStartJD + (float64(g)+0.5)*granJD
				midSec := (midJD - j2000JD) * secondsPerDay
				radiusSec := granJD / 2 * secondsPerDay
				h := rows[row]
				axes := [3]float64{h.p0.X, h.p0.Y, h.p0.Z}
				vels := [3]float64{h.v.X, h.v.Y, h.v.Z}
				for c := 0; c < 3; c++ {
					coeffOff := recOff + (2+row*deTestNCF*deTestNA*3+(g*3+c)*deTestNCF)*8
					putF64(coeffOff, axes[c]+vels[c]*(midSec-deTestStartSec()))
					putF64(coeffOff+8, vels[c]*radiusSec)
					// Coefficients 2..10 stay zero: motion is linear.
				}
			}
		}
	}

	if corrupt != nil {
		corrupt(data)
	}
	path := filepath.Join(t.TempDir(), "de440.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// requireStateNear asserts two states agree to a relative tolerance.
func requireStateNear(t *testing.T, want, got StateVector, tol float64) {
	t.Helper()
	scale := math.Max(want.Position.Norm(), 1)
	require.InDelta(t, want.Position.X, got.Position.X, scale*tol, "position X")
	require.InDelta(t, want.Position.Y, got.Position.Y, scale*tol, "position Y")
	require.InDelta(t, want.Position.Z, got.Position.Z, scale*tol, "position Z")
	vscale := math.Max(want.Velocity.Norm(), 1)
	require.InDelta(t, want.Velocity.X, got.Velocity.X, vscale*tol, "velocity X")
	require.InDelta(t, want.Velocity.Y, got.Velocity.Y, vscale*tol, "velocity Y")
	require.InDelta(t, want.Velocity.Z, got.Velocity.Z, vscale*tol, "velocity Z")
}
