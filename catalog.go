// ./catalog.go
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

// Catalog aggregates the loaded kernels and answers "which coefficient
// record covers this (target, center, epoch)". It is populated during
// engine construction and read-only afterwards, so lookups need no
// synchronization.
type Catalog struct {
	kernels []*Kernel
	// bySegment groups each kernel's segments per hop pair, newest
	// kernel last, preserving in-kernel order.
	bySegment map[hopPair][]segmentRef
}

type hopPair struct {
	target Body
	center Body
}

// segmentRef remembers which load slot a segment came from so precedence
// can be decided without rescanning kernels.
type segmentRef struct {
	loadOrder int
	seg       *Segment
}

// newCatalog builds an empty catalog.
func newCatalog() *Catalog {
	return &Catalog{bySegment: make(map[hopPair][]segmentRef)}
}

// add appends a loaded kernel. Later kernels take precedence over
// earlier ones wherever coverage overlaps; adding the identical kernel
// twice duplicates its records but cannot change lookup results.
func (c *Catalog) add(k *Kernel) {
	order := len(c.kernels)
	c.kernels = append(c.kernels, k)
	for _, seg := range k.Segments {
		pair := hopPair{seg.Target, seg.Center}
		c.bySegment[pair] = append(c.bySegment[pair], segmentRef{order, seg})
	}
}

// Kernels returns the loaded kernels in load order.
func (c *Catalog) Kernels() []*Kernel {
	return c.kernels
}

// findRecord locates the coefficient record covering the hop from target
// to center at et (TDB seconds past J2000). Among overlapping segments
// the one from the most recently loaded kernel wins.
func (c *Catalog) findRecord(target, center Body, et float64) (*CoefficientRecord, bool) {
	refs := c.bySegment[hopPair{target, center}]
	for i := len(refs) - 1; i >= 0; i-- {
		if rec, ok := refs[i].seg.recordAt(et); ok {
			return rec, true
		}
	}
	return nil, false
}

// coverage returns the union coverage interval for a hop pair across all
// loaded kernels, or ok=false if no kernel carries the pair at all.
func (c *Catalog) coverage(target, center Body) (start, end float64, ok bool) {
	refs := c.bySegment[hopPair{target, center}]
	for _, ref := range refs {
		if !ok || ref.seg.Start < start {
			start = ref.seg.Start
		}
		if !ok || ref.seg.End > end {
			end = ref.seg.End
		}
		ok = true
	}
	return start, end, ok
}
