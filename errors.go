// ./errors.go
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
)

// ErrKernelLoad is returned by New when a configured kernel file is
// missing, unreadable, or structurally malformed. Load errors are fatal
// to engine construction; there is no partially-usable engine.
var ErrKernelLoad = errors.New("kernel load failed")

// ErrInvalidQuery is returned when a query is malformed independent of
// kernel contents: a non-finite epoch, an unknown body id, or an unknown
// frame. Detected before resolution begins.
var ErrInvalidQuery = errors.New("invalid query")

// ErrUnsupportedQuery is returned for a structurally valid request the
// engine cannot answer by policy, notably target and observer denoting
// the same body.
var ErrUnsupportedQuery = errors.New("unsupported query")

// ErrOutOfCoverage is returned when the requested epoch falls outside
// every loaded kernel's coverage for a hop required by the query.
// Retrying without changing inputs or loaded kernels fails identically.
var ErrOutOfCoverage = errors.New("epoch outside kernel coverage")

// CoverageError reports the specific hop that could not be resolved.
// It wraps ErrOutOfCoverage so callers can test with errors.Is.
type CoverageError struct {
	// Body is the hop's target body.
	Body Body
	// Center is the hop's parent body.
	Center Body
	// Epoch is the requested time as a TDB Julian date.
	Epoch float64
}

// Error implements the error interface.
func (e *CoverageError) Error() string {
	return fmt.Sprintf("%v: no segment covers %v relative to %v at JD %.6f",
		ErrOutOfCoverage, e.Body, e.Center, e.Epoch)
}

// Unwrap makes CoverageError match ErrOutOfCoverage under errors.Is.
func (e *CoverageError) Unwrap() error {
	return ErrOutOfCoverage
}
