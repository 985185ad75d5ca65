// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/maximerenault/LUPA/assembler"
	"github.com/maximerenault/LUPA/calc"
	"github.com/maximerenault/LUPA/circuit"
	"github.com/maximerenault/LUPA/graph"
	"github.com/maximerenault/LUPA/integrate"
	"github.com/maximerenault/LUPA/internal/logx"
)

// Result is everything a caller needs to plot or export a solved circuit,
// matching the source's SolveResult: the state-vector layout, the dense
// solution, and the probe map in iteration order.
type Result struct {
	NbP, NbQ int
	Solution *mat.Dense

	// ProbeRows, ProbeNames and Signs are parallel slices, one entry per
	// probed row, in ascending row order (node probes first, then flow
	// probes in path order) -- matching circuitsolver.py's set_probes
	// insertion order.
	ProbeRows  []int
	ProbeNames []string
	Signs      []float64

	Dt      float64
	MaxTime float64
}

// Solve parses every element's value expression, builds the circuit graph
// and the assembled linear DAE, runs the time integrator, and applies the
// probe sign convention to the result, following circuitsolver.py's
// CircuitSolver.__init__/solve.
func Solve(ctx context.Context, elements []*circuit.Element, cfg Config) (*Result, error) {
	cfg.SetDefault()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scheme, err := integrate.ParseScheme(cfg.Scheme)
	if err != nil {
		return nil, err
	}

	calcCtx := calc.NewContext()
	for _, e := range elements {
		if err := e.ParseValue(calcCtx); err != nil {
			return nil, err
		}
	}

	g := graph.Build(elements)

	sys, err := assembler.Build(g)
	if err != nil {
		return nil, err
	}

	log := logx.New(cfg.Verbose)
	solution, err := integrate.Run(ctx, sys, scheme, cfg.Dt, cfg.MaxTime, cfg.DiodeResistorSubstitute, log)
	if err != nil && solution == nil {
		return nil, err
	}

	rows, names, signs := probeMap(g, elements)
	for k, row := range rows {
		for col := 0; col < solutionCols(solution); col++ {
			solution.Set(row, col, signs[k]*solution.At(row, col))
		}
	}

	res := &Result{
		NbP: sys.NbP, NbQ: sys.NbQ,
		Solution:   solution,
		ProbeRows:  rows,
		ProbeNames: names,
		Signs:      signs,
		Dt:         cfg.Dt,
		MaxTime:    cfg.MaxTime,
	}
	return res, err
}

func solutionCols(m *mat.Dense) int {
	if m == nil {
		return 0
	}
	_, cols := m.Dims()
	return cols
}

// probeMap walks the built graph's nodes and paths exactly as
// circuitsolver.py's set_probes does: pressure-probed nodes in index
// order, then flow-probed path edges in path order, each carrying the
// sign the path traversal direction and the element's own probe
// orientation combine to.
func probeMap(g *graph.Graph, elements []*circuit.Element) ([]int, []string, []float64) {
	type entry struct {
		row  int
		name string
		sign float64
	}
	var entries []entry

	for i, n := range g.Nodes {
		if n.Probed {
			entries = append(entries, entry{row: i, name: n.ProbeName, sign: 1})
		}
	}

	nbP := g.NbP()
	for i, path := range g.Paths {
		idP0 := g.StartEnds[i][0]
		for _, edge := range path {
			var idP1 int
			var sign float64
			if idP0 == edge.Start {
				idP1 = edge.End
				sign = 1
			} else {
				idP1 = edge.Start
				sign = -1
			}
			if edge.Elem.Kind.IsSource() {
				idP1 = edge.Start
			}
			if edge.Elem.ProbedFlow != 0 {
				entries = append(entries, entry{
					row:  nbP + i,
					name: edge.Elem.FlowProbeName,
					sign: sign * float64(edge.Elem.ProbedFlow),
				})
			}
			idP0 = idP1
		}
	}

	sort.SliceStable(entries, func(a, b int) bool { return entries[a].row < entries[b].row })

	rows := make([]int, len(entries))
	names := make([]string, len(entries))
	signs := make([]float64, len(entries))
	for k, e := range entries {
		rows[k] = e.row
		names[k] = e.name
		signs[k] = e.sign
	}
	return rows, names, signs
}
