// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probe

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/maximerenault/LUPA/circuit"
	"github.com/maximerenault/LUPA/geom"
	"github.com/maximerenault/LUPA/sim"
)

func term(x, y float64) geom.Terminal {
	return geom.Terminal{Pos: geom.Point{X: x, Y: y}}
}

// sourceTerms builds a Ground/PSource's terminal pair: terminal 0 attaches
// to the circuit, terminal 1 is the element's own isolated reference point.
func sourceTerms(ax, ay, tx, ty float64) [2]geom.Terminal {
	return [2]geom.Terminal{term(ax, ay), term(tx, ty)}
}

// TestWriteCSVNegativeProbeSign guards against re-applying a probe's sign on
// top of sim.Solve's already-sign-corrected res.Solution: a ProbedFlow: -1
// probe on a resistor drawn in its path's traversal direction (the single
// path is walked from the Ground side, (1,0) towards (0,0)) gets sign -1,
// and must come out of WriteCSV exactly as recorded in res.Solution, not
// doubled back to +1.
func TestWriteCSVNegativeProbeSign(tst *testing.T) {
	chk.PrintTitle("probe csv negative probe sign")

	els := []*circuit.Element{
		{Kind: circuit.KindPSource, RawValue: "1", Terminals: sourceTerms(0, 0, 0, -1)},
		{
			Kind: circuit.KindResistor, RawValue: "1",
			Terminals:     [2]geom.Terminal{term(1, 0), term(0, 0)},
			ProbedFlow:    -1,
			FlowProbeName: "I",
		},
		{Kind: circuit.KindGround, Terminals: sourceTerms(1, 0, 1, -1)},
	}

	res, err := sim.Solve(context.Background(), els, sim.Config{Dt: 0.1, MaxTime: 0.3})
	if err != nil {
		tst.Fatalf("Solve: %v", err)
	}
	if len(res.Signs) != 1 || res.Signs[0] != -1 {
		tst.Fatalf("expected a single sign -1 probe, got %v", res.Signs)
	}
	row := res.ProbeRows[0]

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res, ProbedOnly); err != nil {
		tst.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) < 2 {
		tst.Fatalf("expected a header and at least one data row, got %d lines", len(lines))
	}
	if lines[0] != "Time\tI" {
		tst.Errorf("header = %q, want %q", lines[0], "Time\tI")
	}

	_, nbCols := res.Solution.Dims()
	if len(lines) != nbCols+1 {
		tst.Fatalf("got %d data rows, want %d", len(lines)-1, nbCols)
	}
	for col := 0; col < nbCols; col++ {
		fields := strings.Split(lines[col+1], "\t")
		if len(fields) != 2 {
			tst.Fatalf("row %d: got %d fields, want 2", col, len(fields))
		}
		got, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			tst.Fatalf("row %d: parse %q: %v", col, fields[1], err)
		}
		// the value WriteCSV emits must be res.Solution's value unchanged:
		// re-multiplying by res.Signs here would flip a -1 probe back to +1.
		want := res.Solution.At(row, col)
		chk.Scalar(tst, "I", 1e-9, got, want)
	}
}

// TestWriteCSVFullModeCarriesProbeSign checks that Full mode, which re-derives
// its own names for unprobed rows, still reads every row -- probed or not --
// straight from res.Solution with no sign re-application.
func TestWriteCSVFullModeCarriesProbeSign(tst *testing.T) {
	chk.PrintTitle("probe csv full mode carries probe sign")

	els := []*circuit.Element{
		{Kind: circuit.KindPSource, RawValue: "1", Terminals: sourceTerms(0, 0, 0, -1)},
		{
			Kind: circuit.KindResistor, RawValue: "1",
			Terminals:     [2]geom.Terminal{term(0, 0), term(1, 0)},
			ProbedFlow:    -1,
			FlowProbeName: "I",
		},
		{Kind: circuit.KindGround, Terminals: sourceTerms(1, 0, 1, -1)},
	}

	res, err := sim.Solve(context.Background(), els, sim.Config{Dt: 0.1, MaxTime: 0.3})
	if err != nil {
		tst.Fatalf("Solve: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res, Full); err != nil {
		tst.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	header := strings.Split(lines[0], "\t")
	flowCol := -1
	for i, name := range header {
		if name == "I" {
			flowCol = i
		}
	}
	if flowCol < 0 {
		tst.Fatalf("header %v has no I column", header)
	}

	row := res.ProbeRows[0]
	_, nbCols := res.Solution.Dims()
	for col := 0; col < nbCols; col++ {
		fields := strings.Split(lines[col+1], "\t")
		got, err := strconv.ParseFloat(fields[flowCol], 64)
		if err != nil {
			tst.Fatalf("row %d: parse %q: %v", col, fields[flowCol], err)
		}
		want := res.Solution.At(row, col)
		chk.Scalar(tst, "I", 1e-9, got, want)
	}
}
