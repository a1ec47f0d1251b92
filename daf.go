// ./daf.go
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

// DAF container parsing.
//
// SPK kernels are Double precision Array Files: a sequence of 1024-byte
// records. Record 1 is the file record (format identification, array
// shape, summary-chain pointers, binary format tag). Summary records and
// their companion name records form a doubly-linked list; each summary
// packs ND doubles and NI 32-bit integers per array. Array elements are
// addressed as 1-based double-precision word numbers: address a lives at
// byte offset (a-1)*8.

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// dafRecordSize is the fixed size of one DAF record in bytes.
const dafRecordSize = 1024

// dafMagic is the prefix of the file record's format word for SPK files.
const dafMagic = "DAF/SPK"

// dafFile is a fully-buffered DAF container with its detected byte order.
type dafFile struct {
	data   []byte           // entire file contents
	order  binary.ByteOrder // from the LOCFMT tag
	nd     int              // doubles per summary
	ni     int              // 32-bit integers per summary
	fward  int              // record number of the first summary record
	bward  int              // record number of the last summary record
	ifname string           // internal file name
}

// dafSummary is one array summary: ND doubles followed by NI integers.
type dafSummary struct {
	dc []float64
	ic []int32
}

// parseDAF validates the file record and extracts the container shape.
func parseDAF(data []byte) (*dafFile, error) {
	if len(data) < dafRecordSize {
		return nil, fmt.Errorf("file record truncated: %d bytes", len(data))
	}
	idWord := string(bytes.TrimRight(data[0:8], " \x00"))
	if idWord != dafMagic {
		return nil, fmt.Errorf("not an SPK kernel: id word %q", idWord)
	}

	// The LOCFMT tag at byte 88 names the byte order the file was
	// written in; unlike the legacy DE format there is no need for a
	// value-plausibility heuristic.
	var order binary.ByteOrder
	switch fmtTag := string(bytes.TrimRight(data[88:96], " \x00")); fmtTag {
	case "LTL-IEEE":
		order = binary.LittleEndian
	case "BIG-IEEE":
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("unsupported binary format tag %q", fmtTag)
	}

	d := &dafFile{
		data:   data,
		order:  order,
		nd:     int(int32(order.Uint32(data[8:12]))),
		ni:     int(int32(order.Uint32(data[12:16]))),
		ifname: string(bytes.TrimRight(data[16:76], " \x00")),
		fward:  int(int32(order.Uint32(data[76:80]))),
		bward:  int(int32(order.Uint32(data[80:84]))),
	}
	if d.nd != 2 || d.ni != 6 {
		return nil, fmt.Errorf("unexpected summary shape ND=%d NI=%d (want 2/6)", d.nd, d.ni)
	}
	if d.fward < 2 || d.bward < d.fward {
		return nil, fmt.Errorf("corrupt summary chain pointers FWARD=%d BWARD=%d", d.fward, d.bward)
	}
	return d, nil
}

// f64 returns the double at the 1-based word address a.
func (d *dafFile) f64(a int) (float64, error) {
	off := (a - 1) * 8
	if a < 1 || off+8 > len(d.data) {
		return 0, fmt.Errorf("word address %d outside file", a)
	}
	return math.Float64frombits(d.order.Uint64(d.data[off : off+8])), nil
}

// f64Range decodes words [first, last] (1-based, inclusive) into a fresh
// float64 slice.
func (d *dafFile) f64Range(first, last int) ([]float64, error) {
	if first < 1 || last < first {
		return nil, fmt.Errorf("bad word range %d..%d", first, last)
	}
	off := (first - 1) * 8
	end := last * 8
	if end > len(d.data) {
		return nil, fmt.Errorf("word range %d..%d outside file", first, last)
	}
	out := make([]float64, last-first+1)
	for i := range out {
		out[i] = math.Float64frombits(d.order.Uint64(d.data[off+i*8 : off+i*8+8]))
	}
	return out, nil
}

// summaries walks the summary-record chain from FWARD and collects every
// array summary in file order.
func (d *dafFile) summaries() ([]dafSummary, error) {
	// Summaries are packed ND doubles plus NI ints, the ints occupying
	// ceil(NI/2) double-sized slots.
	summarySize := d.nd + (d.ni+1)/2

	var out []dafSummary
	rec := d.fward
	for rec != 0 {
		base := (rec - 1) * dafRecordSize
		if rec < 1 || base+dafRecordSize > len(d.data) {
			return nil, fmt.Errorf("summary record %d outside file", rec)
		}
		buf := d.data[base : base+dafRecordSize]
		next := int(math.Float64frombits(d.order.Uint64(buf[0:8])))
		nsum := int(math.Float64frombits(d.order.Uint64(buf[16:24])))
		if nsum < 0 || 3+nsum*summarySize > dafRecordSize/8 {
			return nil, fmt.Errorf("summary record %d holds implausible count %d", rec, nsum)
		}
		for i := 0; i < nsum; i++ {
			s := buf[(3+i*summarySize)*8:]
			sum := dafSummary{
				dc: make([]float64, d.nd),
				ic: make([]int32, d.ni),
			}
			for j := 0; j < d.nd; j++ {
				sum.dc[j] = math.Float64frombits(d.order.Uint64(s[j*8 : j*8+8]))
			}
			for j := 0; j < d.ni; j++ {
				off := d.nd*8 + j*4
				sum.ic[j] = int32(d.order.Uint32(s[off : off+4]))
			}
			out = append(out, sum)
		}
		if next == rec {
			return nil, fmt.Errorf("summary record %d links to itself", rec)
		}
		rec = next
	}
	return out, nil
}
