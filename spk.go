// ./spk.go
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
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"
)

// errUnsupportedSegmentType marks a segment the engine has no evaluator
// for. Unlike malformed-but-plausible records this is never tolerated:
// there is no defensible reading of the data.
var errUnsupportedSegmentType = errors.New("unsupported segment type")

// SPK segment data types supported by the evaluator.
const (
	// spkTypeChebyshevPosition stores Chebyshev position coefficients;
	// velocity comes from the analytic derivative of the same basis.
	spkTypeChebyshevPosition = 2
	// spkTypeChebyshevPosVel stores companion position and velocity
	// coefficient sets.
	spkTypeChebyshevPosVel = 3
)

// KernelFormat names the on-disk layout a kernel was loaded from.
type KernelFormat string

const (
	// FormatSPK is the NAIF DAF/SPK segmented interchange format.
	FormatSPK KernelFormat = "SPK"
	// FormatDE is the legacy JPL DE binary ephemeris format.
	FormatDE KernelFormat = "DE"
)

// CoefficientRecord is one time-window's worth of Chebyshev coefficients
// for a (target, center) hop. Records are created at kernel load time and
// immutable thereafter. Epochs are TDB seconds past J2000; the half-open
// coverage interval is [Start, End).
type CoefficientRecord struct {
	// Target is the body the coefficients describe.
	Target Body
	// Center is the body the state is expressed relative to.
	Center Body
	// Start is the window start in TDB seconds past J2000.
	Start float64
	// End is the window end in TDB seconds past J2000.
	End float64
	// Mid is the Chebyshev normalization midpoint in seconds.
	Mid float64
	// Radius is the Chebyshev normalization half-width in seconds.
	Radius float64
	// Pos holds the per-axis position coefficient sets, in km.
	Pos [3][]float64
	// Vel holds companion velocity coefficient sets in km/s, or nil
	// slices when velocity is obtained by differentiation.
	Vel [3][]float64
}

// hasVelocitySet reports whether the record carries companion velocity
// coefficients.
func (r *CoefficientRecord) hasVelocitySet() bool {
	return r.Vel[0] != nil
}

// Segment is an ordered, binary-searchable list of coefficient windows
// for one (target, center) pair over one contiguous interval.
type Segment struct {
	// Target is the segment's body.
	Target Body
	// Center is the segment's reference body.
	Center Body
	// FrameID is the kernel's reference frame tag (1 = J2000/ICRF).
	FrameID int
	// Type is the segment's evaluation-method tag.
	Type int
	// Start is the segment coverage start in TDB seconds past J2000.
	Start float64
	// End is the segment coverage end in TDB seconds past J2000.
	End float64
	// Records are the segment's windows in ascending time order.
	Records []CoefficientRecord
}

// recordAt binary-searches the window covering et (TDB seconds). The
// last window additionally accepts et == End so a kernel's stated end
// epoch remains queryable.
func (s *Segment) recordAt(et float64) (*CoefficientRecord, bool) {
	if et < s.Start || et > s.End || len(s.Records) == 0 {
		return nil, false
	}
	i := sort.Search(len(s.Records), func(i int) bool { return et < s.Records[i].End })
	if i == len(s.Records) {
		i-- // et == End maps to the last window
	}
	rec := &s.Records[i]
	if et < rec.Start || et > rec.End {
		return nil, false
	}
	return rec, true
}

// Kernel is one loaded ephemeris file: its segments plus file-level
// metadata. Kernels are owned by the Catalog and immutable after load.
type Kernel struct {
	// Path is the file path the kernel was loaded from.
	Path string
	// Format is the detected on-disk layout.
	Format KernelFormat
	// Name is the kernel's self-declared name (internal file name for
	// SPK, title series such as DE440 for legacy files).
	Name string
	// Start is the earliest coverage of any segment, TDB seconds.
	Start float64
	// End is the latest coverage of any segment, TDB seconds.
	End float64
	// Segments are the kernel's segment directory in file order.
	Segments []*Segment
	// Constants holds the header constants of a legacy DE kernel
	// (empty for SPK kernels).
	Constants map[string]float64
	// AU is km per astronomical unit as stated by a DE kernel header.
	AU float64
	// EMRat is the Earth/Moon mass ratio stated by a DE kernel header.
	EMRat float64
}

// StartJD returns the kernel coverage start as a TDB Julian date.
func (k *Kernel) StartJD() float64 { return j2000JD + k.Start/secondsPerDay }

// EndJD returns the kernel coverage end as a TDB Julian date.
func (k *Kernel) EndJD() float64 { return j2000JD + k.End/secondsPerDay }

// LoadKernel reads and indexes one ephemeris file. The format is sniffed
// from the leading bytes: a DAF id word selects the SPK reader, a JPL
// title line the legacy DE reader. The whole file is buffered so no I/O
// remains after load. strict controls whether malformed-but-plausible
// segments abort the load or are skipped with a warning.
func LoadKernel(path string, strict bool, logger *slog.Logger) (*Kernel, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrKernelLoad, path, err)
	}
	switch {
	case len(data) >= 4 && string(data[0:4]) == "DAF/":
		k, err := loadSPK(path, data, strict, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrKernelLoad, path, err)
		}
		return k, nil
	case len(data) >= 84 && strings.HasPrefix(string(data[0:24]), "JPL Planetary Ephemeris"):
		k, err := loadDE(path, data, strict, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrKernelLoad, path, err)
		}
		return k, nil
	default:
		return nil, fmt.Errorf("%w: %s: unrecognized kernel format", ErrKernelLoad, path)
	}
}

// loadSPK parses a DAF/SPK kernel into the segment/record model.
func loadSPK(path string, data []byte, strict bool, logger *slog.Logger) (*Kernel, error) {
	daf, err := parseDAF(data)
	if err != nil {
		return nil, err
	}
	sums, err := daf.summaries()
	if err != nil {
		return nil, err
	}
	if len(sums) == 0 {
		return nil, fmt.Errorf("kernel declares no segments")
	}

	k := &Kernel{
		Path:   path,
		Format: FormatSPK,
		Name:   daf.ifname,
		Start:  math.Inf(1),
		End:    math.Inf(-1),
	}
	for i, sum := range sums {
		seg, err := buildSPKSegment(daf, sum)
		if err != nil {
			if strict || errors.Is(err, errUnsupportedSegmentType) {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			logger.Warn("skipping malformed kernel segment",
				"path", path, "segment", i, "err", err)
			continue
		}
		k.Segments = append(k.Segments, seg)
		if seg.Start < k.Start {
			k.Start = seg.Start
		}
		if seg.End > k.End {
			k.End = seg.End
		}
	}
	if len(k.Segments) == 0 {
		return nil, fmt.Errorf("kernel has no usable segments")
	}
	return k, nil
}

// buildSPKSegment decodes one segment descriptor and its coefficient
// block into indexed windows.
func buildSPKSegment(daf *dafFile, sum dafSummary) (*Segment, error) {
	target := Body(sum.ic[0])
	center := Body(sum.ic[1])
	frameID := int(sum.ic[2])
	segType := int(sum.ic[3])
	first := int(sum.ic[4])
	last := int(sum.ic[5])
	start, end := sum.dc[0], sum.dc[1]

	var components int
	switch segType {
	case spkTypeChebyshevPosition:
		components = 3
	case spkTypeChebyshevPosVel:
		components = 6
	default:
		return nil, fmt.Errorf("%w: %d for %v/%v", errUnsupportedSegmentType, segType, target, center)
	}
	if !target.Valid() || !center.Valid() {
		return nil, fmt.Errorf("segment names body outside the supported set: %d/%d", sum.ic[0], sum.ic[1])
	}
	if end <= start {
		return nil, fmt.Errorf("segment interval is empty: [%f, %f)", start, end)
	}

	elems, err := daf.f64Range(first, last)
	if err != nil {
		return nil, err
	}
	if len(elems) < 4 {
		return nil, fmt.Errorf("coefficient block too small: %d words", len(elems))
	}

	// Trailer: INIT, INTLEN, RSIZE, N.
	n := int(elems[len(elems)-1])
	rsize := int(elems[len(elems)-2])
	intlen := elems[len(elems)-3]
	init := elems[len(elems)-4]
	if n <= 0 || rsize <= 2 || intlen <= 0 {
		return nil, fmt.Errorf("implausible trailer INIT=%f INTLEN=%f RSIZE=%d N=%d", init, intlen, rsize, n)
	}
	if n*rsize+4 != len(elems) {
		return nil, fmt.Errorf("coefficient block holds %d words, trailer promises %d", len(elems), n*rsize+4)
	}
	if (rsize-2)%components != 0 {
		return nil, fmt.Errorf("record size %d does not divide into %d components", rsize, components)
	}
	ncoeff := (rsize - 2) / components
	if ncoeff < 2 || ncoeff > maxChebyshevOrder {
		return nil, fmt.Errorf("coefficient count %d out of supported range", ncoeff)
	}
	// The window grid must agree with the descriptor interval.
	if math.Abs(init-start) > 1e-6 || math.Abs(init+float64(n)*intlen-end) > 1e-6 {
		return nil, fmt.Errorf("window grid [%f +%d*%f] disagrees with descriptor [%f, %f)",
			init, n, intlen, start, end)
	}

	seg := &Segment{
		Target:  target,
		Center:  center,
		FrameID: frameID,
		Type:    segType,
		Start:   start,
		End:     end,
		Records: make([]CoefficientRecord, 0, n),
	}
	for i := 0; i < n; i++ {
		recWords := elems[i*rsize : (i+1)*rsize]
		rec := CoefficientRecord{
			Target: target,
			Center: center,
			Start:  init + float64(i)*intlen,
			End:    init + float64(i+1)*intlen,
			Mid:    recWords[0],
			Radius: recWords[1],
		}
		for c := 0; c < 3; c++ {
			rec.Pos[c] = recWords[2+c*ncoeff : 2+(c+1)*ncoeff]
		}
		if segType == spkTypeChebyshevPosVel {
			for c := 0; c < 3; c++ {
				rec.Vel[c] = recWords[2+(3+c)*ncoeff : 2+(4+c)*ncoeff]
			}
		}
		if rec.Radius <= 0 {
			return nil, fmt.Errorf("record %d has non-positive radius %f", i, rec.Radius)
		}
		// The record's own midpoint/radius must describe the same
		// window the grid assigns it.
		if math.Abs(rec.Mid-rec.Radius-rec.Start) > 1e-3 {
			return nil, fmt.Errorf("record %d midpoint %f disagrees with window start %f", i, rec.Mid, rec.Start)
		}
		seg.Records = append(seg.Records, rec)
	}
	return seg, nil
}
