// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package probe exports a solved circuit's time series to CSV, following
// circuitsolver.py's save_to_csv / export_full_solution /
// export_probed_solution. The wire format deliberately does not match the
// source's: tab-delimited with a fixed %.11g float format, rather than the
// source's Python str()-formatted comma-separated columns.
package probe

import (
	"bufio"
	stdio "io"
	"strings"

	gslio "github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"

	"github.com/maximerenault/LUPA/sim"
)

// Mode selects which columns WriteCSV emits.
type Mode int

// export modes
const (
	// Full emits every pressure and flow row, probed or not.
	Full Mode = iota
	// ProbedOnly emits only the rows the circuit flagged with a probe,
	// in probe-map iteration order (node index ascending, then path
	// index ascending), matching export_probed_solution.
	ProbedOnly
)

// WriteCSV writes res's time series to w: a header line "Time <name> ...",
// then one tab-delimited row per time step formatted with %.11g, following
// circuitsolver.py's save_to_csv/export_full_solution/export_probed_solution.
func WriteCSV(w stdio.Writer, res *sim.Result, mode Mode) error {
	bw := bufio.NewWriter(w)

	var rows []int
	var names []string
	switch mode {
	case ProbedOnly:
		rows, names = res.ProbeRows, res.ProbeNames
	case Full:
		n := res.NbP + res.NbQ
		rows = utl.IntRange(n)
		names = make([]string, n)
		for i := 0; i < n; i++ {
			if i < res.NbP {
				names[i] = gslio.Sf("P%d", i)
			} else {
				names[i] = gslio.Sf("Q%d", i-res.NbP)
			}
			if j, ok := indexOf(res.ProbeRows, i); ok {
				names[i] = res.ProbeNames[j]
			}
		}
	}

	header := append([]string{"Time"}, names...)
	if _, err := bw.WriteString(strings.Join(header, "\t") + "\n"); err != nil {
		return err
	}

	// res.Solution already carries the probe sign correction (see
	// sim.Solve), matching circuitsolver.py applying self.signs once
	// inside solve() and save_to_csv/export_*_solution reading
	// self.solution straight through afterward with no further
	// sign multiplication.
	_, nbCols := res.Solution.Dims()
	times := utl.LinSpace(0, float64(nbCols-1)*res.Dt, nbCols)
	line := make([]string, len(rows)+1)
	for col := 0; col < nbCols; col++ {
		line[0] = gslio.Sf("%.11g", times[col])
		for k, row := range rows {
			line[k+1] = gslio.Sf("%.11g", res.Solution.At(row, col))
		}
		if _, err := bw.WriteString(strings.Join(line, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func indexOf(rows []int, row int) (int, bool) {
	for i, r := range rows {
		if r == row {
			return i, true
		}
	}
	return 0, false
}
