// ./resolver.go
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

// Chain resolution.
//
// Bodies form a fixed forest rooted at the solar-system barycenter.
// Both query sides are resolved all the way to that root and subtracted;
// no lowest-common-ancestor search is attempted. Correctness only needs
// a shared reference point, and full resolution maximizes cache reuse
// across unrelated queries that pass through the same upper hops (every
// Moon query and every Mars query shares, say, the EMB-to-origin hop
// with any other query at the same epoch).

// hop returns the memoized state of body relative to center at et,
// evaluating kernel coefficients on a cache miss.
func (e *Engine) hop(body, center Body, et float64, qs *QueryStats) (StateVector, error) {
	st, hit, err := e.cache.getOrCompute(hopKey{body, center, et}, func() (StateVector, error) {
		rec, ok := e.catalog.findRecord(body, center, et)
		if !ok {
			return StateVector{}, &CoverageError{
				Body:   body,
				Center: center,
				Epoch:  j2000JD + et/secondsPerDay,
			}
		}
		return evaluateRecord(rec, et), nil
	})
	if err != nil {
		return StateVector{}, err
	}
	if qs != nil {
		if hit {
			qs.CacheHits++
		} else {
			qs.CacheMisses++
		}
	}
	return st, nil
}

// resolveToOrigin walks parent links from body up to the solar-system
// barycenter, summing hop states. The cache is consulted at every hop,
// including the topmost one, so sibling queries share the upper forest.
func (e *Engine) resolveToOrigin(body Body, et float64, qs *QueryStats) (StateVector, error) {
	var total StateVector
	for body != SolarSystemBarycenter {
		parent, ok := body.Parent()
		if !ok {
			// Unreachable after query validation; kept as a guard for
			// internal callers.
			return StateVector{}, &CoverageError{Body: body, Center: body, Epoch: j2000JD + et/secondsPerDay}
		}
		st, err := e.hop(body, parent, et, qs)
		if err != nil {
			return StateVector{}, err
		}
		total = total.Add(st)
		body = parent
	}
	return total, nil
}

// resolveQuery produces the target state as seen from the observer in
// the native inertial frame.
func (e *Engine) resolveQuery(target, observer Body, et float64, qs *QueryStats) (StateVector, error) {
	targetState, err := e.resolveToOrigin(target, et, qs)
	if err != nil {
		return StateVector{}, err
	}
	if observer == SolarSystemBarycenter {
		return targetState, nil
	}
	observerState, err := e.resolveToOrigin(observer, et, qs)
	if err != nil {
		return StateVector{}, err
	}
	return targetState.Sub(observerState), nil
}
