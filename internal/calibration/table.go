// Package calibration builds and serves the dipstick calibration table: the
// static mapping from an integer gauge reading in centimetres to the litres
// held by the tank at that height.
//
// The table is decoded once from a literal matrix (see seed.go) and is
// immutable and safe for concurrent reads afterwards. The package is
// intentionally dependency-free: decode problems are reported to the caller
// in a BuildReport instead of being logged here, so the boundary decides how
// loud to be about bad seed data.
//
// Error contract:
//   - ErrOutOfRange: the reading is outside [0, MaxCm]. A caller/input
//     problem, reported before any table access.
//   - ErrGap: the reading is in range but the seed data has no value for it.
//     A data-completeness defect, deliberately distinct from ErrOutOfRange so
//     the transport can answer 404 instead of 400.
package calibration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FullSentinel marks the matrix cell meaning "tank completely full"; it is
// decoded to the configured tank capacity rather than a literal number.
const FullSentinel = "full"

var (
	// ErrOutOfRange is returned by Lookup for readings below zero or above
	// the table's maximum centimetre.
	ErrOutOfRange = errors.New("reading outside calibrated range")

	// ErrGap is returned by Lookup for in-range readings with no seeded
	// value. It signals a hole in the calibration data, not a user error.
	ErrGap = errors.New("no calibration entry for reading")
)

// Matrix is the raw dipstick chart as transcribed from the tank vendor's
// sheet: row i covers readings [i*10, i*10+9] and cell j holds the cumulative
// litres at height i*10+j. Cells contain decimal strings or FullSentinel; an
// empty cell is a gap.
type Matrix [][]string

// Point is one decoded (cm, litres) calibration pair.
type Point struct {
	Cm     int
	Litres float64
}

// BuildReport collects non-fatal decode findings. Gaps lists every in-range
// centimetre with no usable cell; NonMonotonic lists centimetres whose litres
// decreased relative to the previous known point.
type BuildReport struct {
	Gaps         []int
	NonMonotonic []int
}

// Table is the immutable in-memory lookup structure. One slot per integer
// centimetre in [0, MaxCm].
type Table struct {
	maxCm  int
	litres []float64
	known  []bool
}

// Build decodes a matrix into a Table covering [0, maxCm]. capacityL is the
// value substituted for FullSentinel cells.
//
// Decode rules:
//   - cells beyond maxCm are ignored;
//   - empty or unparseable cells become gaps (reported, not fatal);
//   - negative litres are treated as transcription errors and become gaps;
//   - monotonicity violations are reported but the cell is kept, matching
//     the chart-as-written.
//
// Build fails outright only on structurally unusable input: a nil matrix,
// maxCm < 1, or capacityL <= 0.
func Build(m Matrix, maxCm int, capacityL float64) (*Table, BuildReport, error) {
	var rep BuildReport
	if maxCm < 1 {
		return nil, rep, fmt.Errorf("calibration: maxCm must be >= 1, got %d", maxCm)
	}
	if capacityL <= 0 {
		return nil, rep, fmt.Errorf("calibration: capacityL must be > 0, got %v", capacityL)
	}
	if len(m) == 0 {
		return nil, rep, errors.New("calibration: empty matrix")
	}

	t := &Table{
		maxCm:  maxCm,
		litres: make([]float64, maxCm+1),
		known:  make([]bool, maxCm+1),
	}

	for ri, row := range m {
		for ci, cell := range row {
			cm := ri*10 + ci
			if cm > maxCm {
				continue
			}
			v, ok := parseCell(cell, capacityL)
			if !ok {
				continue // gap, collected below
			}
			t.litres[cm] = v
			t.known[cm] = true
		}
	}

	prev := -1.0
	for cm := 0; cm <= maxCm; cm++ {
		if !t.known[cm] {
			rep.Gaps = append(rep.Gaps, cm)
			continue
		}
		if prev >= 0 && t.litres[cm] < prev {
			rep.NonMonotonic = append(rep.NonMonotonic, cm)
		}
		prev = t.litres[cm]
	}

	if len(rep.Gaps) == maxCm+1 {
		return nil, rep, errors.New("calibration: matrix decoded to zero usable points")
	}
	return t, rep, nil
}

// parseCell decodes one matrix cell. The second return is false for gaps.
func parseCell(cell string, capacityL float64) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if strings.EqualFold(s, FullSentinel) {
		return capacityL, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Lookup resolves a reading to litres. Range violations and seed gaps are
// reported through distinct sentinel errors; see the package comment.
func (t *Table) Lookup(cm int) (float64, error) {
	if cm < 0 || cm > t.maxCm {
		return 0, ErrOutOfRange
	}
	if !t.known[cm] {
		return 0, ErrGap
	}
	return t.litres[cm], nil
}

// MaxCm returns the inclusive upper bound of the calibrated range.
func (t *Table) MaxCm() int { return t.maxCm }

// Points returns every known (cm, litres) pair in ascending cm order.
// Used to seed the persisted copy of the table.
func (t *Table) Points() []Point {
	out := make([]Point, 0, t.maxCm+1)
	for cm := 0; cm <= t.maxCm; cm++ {
		if t.known[cm] {
			out = append(out, Point{Cm: cm, Litres: t.litres[cm]})
		}
	}
	return out
}
