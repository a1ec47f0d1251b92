// ./engine.go

/*
Package spkeph answers "where is body X relative to observer Y, in frame
F, at epoch T" by evaluating precomputed Chebyshev ephemeris kernels.

It reads NAIF SPK kernels (types 2 and 3) as well as legacy JPL DE
binary ephemerides, indexes their time-segmented coefficient records at
load, and resolves body chains through the fixed parent forest up to the
solar-system barycenter, memoizing shared hops in a bounded cache.

Usage:

 1. Construct an engine from one or more kernels:
    ```go
    eng, err := spkeph.New(spkeph.Config{
        KernelPaths: []string{"de440s.bsp"},
    })
    if err != nil {
        log.Fatal(err)
    }
    ```

 2. Query a state vector:
    ```go
    st, err := eng.Query(spkeph.Query{
        Target:   spkeph.Moon,
        Observer: spkeph.Earth,
        Frame:    spkeph.FrameEclipticJ2000,
        Epoch:    2451545.0, // J2000.0
    })
    ```

Positions are kilometers, velocities kilometers per day, both expressed
in the requested frame. An engine is safe for concurrent use from many
goroutines; queries are synchronous and independent.

License:
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
package spkeph

import (
	"fmt"
	"log/slog"
	"math"
)

// Config is the construction-time configuration of an Engine. It is
// consulted only during New; changing it afterwards has no effect.
type Config struct {
	// KernelPaths lists the ephemeris kernels to load, in precedence
	// order: where coverage overlaps, later entries win.
	KernelPaths []string
	// Timescale is the already-parsed time-scale handle applied to
	// query epochs. Nil means epochs are TDB Julian dates already.
	Timescale Timescale
	// CacheCapacity bounds the hop evaluation cache entry count;
	// non-positive selects the default.
	CacheCapacity int
	// Strict rejects malformed-but-plausible kernel records at load
	// instead of skipping them with a warning.
	Strict bool
	// Logger receives load-time diagnostics. Nil selects slog.Default.
	// The query path never logs.
	Logger *slog.Logger
}

// Engine is the ephemeris query facade. Its catalog and configuration
// are immutable after New; the evaluation cache is the only internally
// mutable part and is safe under concurrent queries.
type Engine struct {
	catalog *Catalog
	cache   *hopCache
	ts      Timescale
}

// New loads every configured kernel eagerly and returns a ready engine.
// Any load failure aborts construction: there is no partially-usable
// engine. At least one kernel path is required.
func New(cfg Config) (*Engine, error) {
	if len(cfg.KernelPaths) == 0 {
		return nil, fmt.Errorf("%w: no kernel paths configured", ErrKernelLoad)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ts := cfg.Timescale
	if ts == nil {
		ts = tdbTimescale{}
	}

	cache, err := newHopCache(cfg.CacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("%w: cache: %v", ErrKernelLoad, err)
	}

	catalog := newCatalog()
	for _, path := range cfg.KernelPaths {
		k, err := LoadKernel(path, cfg.Strict, logger)
		if err != nil {
			return nil, err
		}
		catalog.add(k)
		logger.Info("kernel loaded",
			"path", path,
			"format", string(k.Format),
			"name", k.Name,
			"segments", len(k.Segments),
			"startJD", k.StartJD(),
			"endJD", k.EndJD(),
		)
	}
	return &Engine{catalog: catalog, cache: cache, ts: ts}, nil
}

// validate checks a query before any resolution work. Input defects are
// InvalidQuery; a well-formed request the engine refuses by policy is
// UnsupportedQuery.
func (e *Engine) validate(q Query) error {
	if math.IsNaN(q.Epoch) || math.IsInf(q.Epoch, 0) {
		return fmt.Errorf("%w: epoch must be finite, got %v", ErrInvalidQuery, q.Epoch)
	}
	if !q.Frame.valid() {
		return fmt.Errorf("%w: unknown frame %v", ErrInvalidQuery, q.Frame)
	}
	if !q.Target.Valid() {
		return fmt.Errorf("%w: unknown target body %d", ErrInvalidQuery, int(q.Target))
	}
	if !q.Observer.Valid() {
		return fmt.Errorf("%w: unknown observer body %d", ErrInvalidQuery, int(q.Observer))
	}
	if q.Target == q.Observer {
		return fmt.Errorf("%w: target and observer are both %v", ErrUnsupportedQuery, q.Target)
	}
	return nil
}

// query runs one validated-or-not query, accumulating hop cache stats
// into qs when non-nil.
func (e *Engine) query(q Query, qs *QueryStats) (StateVector, error) {
	if err := e.validate(q); err != nil {
		return StateVector{}, err
	}
	et := (e.ts.ToTDB(q.Epoch) - j2000JD) * secondsPerDay
	st, err := e.resolveQuery(q.Target, q.Observer, et, qs)
	if err != nil {
		return StateVector{}, err
	}
	return rotateToFrame(st, q.Frame), nil
}

// Query resolves one state vector. Identical inputs against the same
// loaded kernel set produce bit-identical outputs, across repeated calls
// and across concurrent callers.
func (e *Engine) Query(q Query) (StateVector, error) {
	return e.query(q, nil)
}

// QueryWithStats is Query plus a report of how many hop lookups this
// call served from cache versus computed fresh.
func (e *Engine) QueryWithStats(q Query) (StateVector, QueryStats, error) {
	var qs QueryStats
	st, err := e.query(q, &qs)
	return st, qs, err
}

// QueryBatch resolves queries in input order, sharing the cache so
// repeated sub-chains within the batch are computed once. One query's
// failure does not affect its siblings. An empty input yields an empty,
// non-nil output.
func (e *Engine) QueryBatch(qs []Query) []BatchResult {
	out := make([]BatchResult, len(qs))
	for i, q := range qs {
		out[i].State, out[i].Err = e.query(q, nil)
	}
	return out
}

// QueryDerived resolves q and hands the state, together with the
// original query, to derive. It is the engine's extension point for
// downstream layers that compute derived quantities (elongations,
// angular coordinates, period classifications) without the engine
// depending on them. The derivation runs only when the query succeeds.
func QueryDerived[T any](e *Engine, q Query, derive func(Query, StateVector) T) (T, error) {
	st, err := e.Query(q)
	if err != nil {
		var zero T
		return zero, err
	}
	return derive(q, st), nil
}

// Kernels returns the loaded kernels in load order. The slice and the
// kernels are shared and must not be modified.
func (e *Engine) Kernels() []*Kernel {
	return e.catalog.Kernels()
}

// Timescale returns the engine's time-scale handle, for collaborators
// that need to perform their own epoch arithmetic consistently with the
// engine.
func (e *Engine) Timescale() Timescale {
	return e.ts
}

// CacheStats reports the engine-lifetime hop cache counters and the
// current entry count.
type CacheStats struct {
	// Hits counts hops served from cache since construction.
	Hits uint64
	// Misses counts hops computed from kernel coefficients.
	Misses uint64
	// Entries is the current number of cached hops.
	Entries int
}

// CacheStats returns the engine-lifetime cache counters.
func (e *Engine) CacheStats() CacheStats {
	hits, misses := e.cache.stats()
	return CacheStats{Hits: hits, Misses: misses, Entries: e.cache.len()}
}

// Coverage reports the union coverage of the loaded kernels for the hop
// from body to its declared parent, as TDB Julian dates. ok is false
// when no kernel carries that hop, or body is the inertial origin.
func (e *Engine) Coverage(body Body) (startJD, endJD float64, ok bool) {
	parent, has := body.Parent()
	if !has {
		return 0, 0, false
	}
	start, end, ok := e.catalog.coverage(body, parent)
	if !ok {
		return 0, 0, false
	}
	return j2000JD + start/secondsPerDay, j2000JD + end/secondsPerDay, true
}
