// ./de.go
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

// Legacy JPL DE binary kernels.
//
// A DE file is a fixed-step record array rather than a segment directory:
// every record spans ephemStep days and interleaves the Chebyshev series
// of all bodies, located by the 15x3 interpolation parameter table (ipt):
// per series a 1-based double offset into the record, a coefficient count
// and a granule count. The loader expands each series granule into a
// CoefficientRecord so the rest of the engine sees the same model as for
// SPK kernels.
//
// Only the Moon series is geocentric; the file carries no separate Earth
// series. Both Earth-Moon barycenter hops are derived from it with the
// mass-ratio split
//
//	earth = emb - moon_geo/(1+emrat)
//	moon  = emb + moon_geo*emrat/(1+emrat)
//
// which, being linear, applies directly to the Chebyshev coefficients.

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// DE header byte offsets, following the layout notes shipped with every
// DE release: three 84-byte title lines, 400 six-byte constant names,
// then the numeric header.
const (
	deTitleSize      = 84
	deConstNameSize  = 6
	deMaxInlineNames = 400
	// deNumericHeader is the first numeric header byte, 2652: the
	// start/end/step epochs, ncon, AU, emrat and the ipt table follow
	// the inline constant names.
	deNumericHeader   = deTitleSize*3 + deMaxInlineNames*deConstNameSize
	deExtraNamesStart = deNumericHeader + 5*8 + 41*4
)

// deRowBodies maps ipt series rows 0-10 onto hop targets. Rows 0-8 are
// the planet-system barycenters relative to the solar-system barycenter,
// row 9 is the geocentric Moon (split at load), row 10 the Sun.
var deRowBodies = [11]Body{
	MercuryBarycenter, VenusBarycenter, EarthMoonBarycenter,
	MarsBarycenter, JupiterBarycenter, SaturnBarycenter,
	UranusBarycenter, NeptuneBarycenter, PlutoBarycenter,
	Moon, Sun,
}

const deMoonRow = 9

// deHeader carries the parsed numeric header of a DE file.
type deHeader struct {
	startJD float64
	endJD   float64
	stepJD  float64
	ncon    uint32
	au      float64
	emrat   float64
	ipt     [15][3]uint32
	version int64
	name    string
	order   binary.ByteOrder
	ncoeff  int // doubles per record
	recsize int // bytes per record
}

// deSeriesDim returns the component count of ipt series row i: nutations
// carry 2 angles, TT-TDB one scalar, everything else 3 coordinates.
func deSeriesDim(i int) int {
	switch i {
	case 11:
		return 2
	case 14:
		return 1
	default:
		return 3
	}
}

// parseDEHeader decodes the title lines and the numeric header,
// detecting byte order by the heuristic that a sane constant count
// never exceeds 65536.
func parseDEHeader(data []byte) (*deHeader, error) {
	if len(data) < deExtraNamesStart+24 {
		return nil, fmt.Errorf("header truncated: %d bytes", len(data))
	}
	h := &deHeader{order: binary.LittleEndian}
	if h.ncon = h.order.Uint32(data[deNumericHeader+24 : deNumericHeader+28]); h.ncon > 65536 {
		h.order = binary.BigEndian // wrong guess, file is byte-swapped
		h.ncon = h.order.Uint32(data[deNumericHeader+24 : deNumericHeader+28])
	}
	f64 := func(off int) float64 {
		return math.Float64frombits(h.order.Uint64(data[off : off+8]))
	}
	h.startJD = f64(deNumericHeader)
	h.endJD = f64(deNumericHeader + 8)
	h.stepJD = f64(deNumericHeader + 16)
	h.au = f64(deNumericHeader + 28)
	h.emrat = f64(deNumericHeader + 36)

	// 40 table entries live in the main header; the shifted libration
	// row is a historical quirk of the format.
	for i := 0; i < 40; i++ {
		off := deNumericHeader + 44 + i*4
		h.ipt[i/3][i%3] = h.order.Uint32(data[off : off+4])
	}
	h.ipt[12][0] = h.ipt[12][1]
	h.ipt[12][1] = h.ipt[12][2]
	h.ipt[12][2] = h.ipt[13][0]

	// Ephemeris series and version from the first title line.
	title := data[:deTitleSize]
	verStr := strings.TrimLeft(string(title[26:54]), " ")
	i := 0
	for ; i < len(verStr); i++ {
		if verStr[i] < '0' || verStr[i] > '9' {
			break
		}
	}
	ver, err := strconv.ParseInt(verStr[:i], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse DE version from title %q: %v", string(title), err)
	}
	h.version = ver
	nameBytes := title[24:54]
	if nullIdx := bytes.IndexByte(nameBytes, 0); nullIdx != -1 {
		nameBytes = nameBytes[:nullIdx]
	}
	if parts := strings.Fields(strings.TrimSpace(string(nameBytes))); len(parts) > 0 {
		h.name = parts[0]
	}

	// TT-TDB series rows exist from DE430 on, stored after the constant
	// names; a failed cross-check means the slots hold garbage.
	if h.version >= 430 && h.ncon != deMaxInlineNames {
		off := deExtraNamesStart
		if h.ncon > deMaxInlineNames {
			off += int(h.ncon-deMaxInlineNames) * deConstNameSize
		}
		if off+24 > len(data) {
			return nil, fmt.Errorf("extended ipt rows truncated")
		}
		for i := 0; i < 6; i++ {
			v := h.order.Uint32(data[off+i*4 : off+i*4+4])
			if i < 3 {
				h.ipt[13][i] = v
			} else {
				h.ipt[14][i-3] = v
			}
		}
	} else {
		h.ipt[13][0] = 0
	}
	if h.ipt[13][0] != h.ipt[12][0]+h.ipt[12][1]*h.ipt[12][2]*3 ||
		h.ipt[14][0] != h.ipt[13][0]+h.ipt[13][1]*h.ipt[13][2]*3 {
		for i := 13; i < 15; i++ {
			for j := 0; j < 3; j++ {
				h.ipt[i][j] = 0
			}
		}
	}

	// An emrat outside this window has meant a corrupt file in every DE
	// release to date.
	if h.emrat > 81.3008 || h.emrat < 81.30055 {
		return nil, fmt.Errorf("file corrupt: Earth-Moon ratio %f out of range", h.emrat)
	}
	if h.endJD <= h.startJD || h.stepJD <= 0 {
		return nil, fmt.Errorf("file corrupt: coverage [%f, %f] step %f", h.startJD, h.endJD, h.stepJD)
	}

	// Record geometry from the series table.
	h.ncoeff = 2
	for i := 0; i < 15; i++ {
		h.ncoeff += int(h.ipt[i][1]) * int(h.ipt[i][2]) * deSeriesDim(i)
	}
	h.recsize = h.ncoeff * 8
	if h.recsize < deExtraNamesStart {
		return nil, fmt.Errorf("file corrupt: record size %d smaller than header", h.recsize)
	}
	return h, nil
}

// loadDE parses a legacy DE binary kernel into the segment/record model.
func loadDE(path string, data []byte, strict bool, logger *slog.Logger) (*Kernel, error) {
	h, err := parseDEHeader(data)
	if err != nil {
		return nil, err
	}

	nrecs := int((h.endJD-h.startJD)/h.stepJD + 0.5)
	if nrecs <= 0 {
		return nil, fmt.Errorf("file corrupt: no data records")
	}
	need := (nrecs + 2) * h.recsize
	if len(data) < need {
		if strict {
			return nil, fmt.Errorf("file truncated: %d bytes, need %d for %d records", len(data), need, nrecs)
		}
		avail := len(data)/h.recsize - 2
		logger.Warn("kernel shorter than header coverage, clamping",
			"path", path, "records", avail, "declared", nrecs)
		if avail <= 0 {
			return nil, fmt.Errorf("file truncated: no complete data records")
		}
		nrecs = avail
	}

	// Decode every data record up front; nothing touches the file after
	// load.
	coeffs := make([]float64, nrecs*h.ncoeff)
	base := 2 * h.recsize
	for i := range coeffs {
		off := base + i*8
		coeffs[i] = math.Float64frombits(h.order.Uint64(data[off : off+8]))
	}

	endJD := h.startJD + float64(nrecs)*h.stepJD
	k := &Kernel{
		Path:      path,
		Format:    FormatDE,
		Name:      h.name,
		Start:     (h.startJD - j2000JD) * secondsPerDay,
		End:       (endJD - j2000JD) * secondsPerDay,
		AU:        h.au,
		EMRat:     h.emrat,
		Constants: readDEConstants(data, h),
	}

	moonScale := h.emrat / (1 + h.emrat)
	earthScale := -1 / (1 + h.emrat)

	for row := 0; row < len(deRowBodies); row++ {
		ncf := int(h.ipt[row][1])
		na := int(h.ipt[row][2])
		offset := int(h.ipt[row][0])
		if ncf == 0 || na == 0 {
			continue
		}
		if ncf < 2 || ncf > maxChebyshevOrder || offset < 3 || offset-1+ncf*na*3 > h.ncoeff {
			if strict {
				return nil, fmt.Errorf("series row %d has implausible table entry %v", row, h.ipt[row])
			}
			logger.Warn("skipping malformed kernel series", "path", path, "row", row, "ipt", h.ipt[row])
			continue
		}

		if row == deMoonRow {
			// Geocentric Moon splits into the two EMB hops.
			moon := buildDESegment(h, coeffs, nrecs, row, Moon, EarthMoonBarycenter, moonScale)
			earth := buildDESegment(h, coeffs, nrecs, row, Earth, EarthMoonBarycenter, earthScale)
			k.Segments = append(k.Segments, moon, earth)
			continue
		}
		seg := buildDESegment(h, coeffs, nrecs, row, deRowBodies[row], SolarSystemBarycenter, 1)
		k.Segments = append(k.Segments, seg)
	}
	if len(k.Segments) == 0 {
		return nil, fmt.Errorf("kernel has no usable series")
	}
	return k, nil
}

// buildDESegment expands one series row into granule-sized coefficient
// windows, scaling the series by factor (1 for the directly-stored hops,
// the mass-ratio split factors for Earth and Moon).
func buildDESegment(h *deHeader, coeffs []float64, nrecs, row int, target, center Body, factor float64) *Segment {
	ncf := int(h.ipt[row][1])
	na := int(h.ipt[row][2])
	offset := int(h.ipt[row][0]) - 1 // to 0-based doubles

	startSec := (h.startJD - j2000JD) * secondsPerDay
	stepSec := h.stepJD * secondsPerDay
	granSec := stepSec / float64(na)

	seg := &Segment{
		Target:  target,
		Center:  center,
		FrameID: 1,
		Type:    spkTypeChebyshevPosition,
		Start:   startSec,
		End:     startSec + float64(nrecs)*stepSec,
		Records: make([]CoefficientRecord, 0, nrecs*na),
	}
	for nr := 0; nr < nrecs; nr++ {
		record := coeffs[nr*h.ncoeff : (nr+1)*h.ncoeff]
		for g := 0; g < na; g++ {
			winStart := startSec + float64(nr)*stepSec + float64(g)*granSec
			rec := CoefficientRecord{
				Target: target,
				Center: center,
				Start:  winStart,
				End:    winStart + granSec,
				Mid:    winStart + granSec/2,
				Radius: granSec / 2,
			}
			for c := 0; c < 3; c++ {
				src := record[offset+(g*3+c)*ncf : offset+(g*3+c+1)*ncf]
				if factor == 1 {
					rec.Pos[c] = src
				} else {
					scaled := make([]float64, ncf)
					for j, v := range src {
						scaled[j] = v * factor
					}
					rec.Pos[c] = scaled
				}
			}
			seg.Records = append(seg.Records, rec)
		}
	}
	return seg
}

// readDEConstants collects the header constants into a name/value map.
// Constant names beyond the 400 inline slots follow the numeric header.
func readDEConstants(data []byte, h *deHeader) map[string]float64 {
	ncon := int(h.ncon)
	out := make(map[string]float64, ncon)
	for i := 0; i < ncon; i++ {
		var nameOff int
		if i < deMaxInlineNames {
			nameOff = deTitleSize*3 + i*deConstNameSize
		} else {
			nameOff = deExtraNamesStart + (i-deMaxInlineNames)*deConstNameSize
		}
		valOff := h.recsize + i*8
		if nameOff+deConstNameSize > len(data) || valOff+8 > len(data) {
			break
		}
		name := strings.TrimSpace(string(bytes.TrimRight(data[nameOff:nameOff+deConstNameSize], "\x00")))
		if name == "" {
			continue
		}
		out[name] = math.Float64frombits(h.order.Uint64(data[valOff : valOff+8]))
	}
	return out
}
