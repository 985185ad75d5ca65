// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lupasim reads a solve-request JSON file describing a circuit's
// elements and solver configuration, runs the solve, and writes the
// resulting time series as CSV, following main.go's flag-driven
// single-simulation-file entry point. Unlike the finite-element driver it
// imitates, there is no MPI rank to gate on and no profiling hook: the
// solver is single-threaded and synchronous end to end (spec.md §5), so
// those concerns from the teacher's main.go have no home here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/maximerenault/LUPA/circuit"
	"github.com/maximerenault/LUPA/geom"
	"github.com/maximerenault/LUPA/probe"
	"github.com/maximerenault/LUPA/sim"
)

// elementDTO is one element record of the solve-request file: two
// terminal positions, a kind name, a value literal or calculator
// expression, and optional probe tags, matching spec.md §6's
// language-neutral element record.
//
// For ground/psource/qsource elements, terminal 0 is the point where the
// element attaches to the rest of the circuit, and terminal 1 is the
// element's own reference point -- it must not coincide with terminal 0
// or with any other element's terminal, or the graph builder will merge
// it into a real circuit node instead of treating it as the element's
// private tip.
type elementDTO struct {
	Kind  string  `json:"kind"`
	Name  string  `json:"name"`
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	Value string  `json:"value"`

	Probe0 string `json:"probe0"` // pressure-probe name at terminal 0, empty if unprobed
	Probe1 string `json:"probe1"` // pressure-probe name at terminal 1, empty if unprobed

	FlowProbe string `json:"flow_probe"` // flow-probe name, empty if unprobed
	FlowSign  int    `json:"flow_sign"`  // +1 or -1, the probe's reference direction
}

// request is the full solve-request file: solver configuration, the
// element list, and what to export.
type request struct {
	Config   sim.Config   `json:"config"`
	Elements []elementDTO `json:"elements"`
	Export   string       `json:"export"` // "full" (default) or "probed"
}

var kindNames = map[string]circuit.Kind{
	"wire":      circuit.KindWire,
	"resistor":  circuit.KindResistor,
	"capacitor": circuit.KindCapacitor,
	"inductor":  circuit.KindInductor,
	"diode":     circuit.KindDiode,
	"ground":    circuit.KindGround,
	"psource":   circuit.KindPSource,
	"qsource":   circuit.KindQSource,
}

func (d elementDTO) toElement() (*circuit.Element, error) {
	kind, ok := kindNames[d.Kind]
	if !ok {
		return nil, chk.Err("unknown element kind %q", d.Kind)
	}
	return &circuit.Element{
		Kind: kind,
		Name: d.Name,
		Terminals: [2]geom.Terminal{
			{Pos: geom.Point{X: d.X0, Y: d.Y0}, Probed: d.Probe0 != "", ProbeName: d.Probe0},
			{Pos: geom.Point{X: d.X1, Y: d.Y1}, Probed: d.Probe1 != "", ProbeName: d.Probe1},
		},
		RawValue:      d.Value,
		ProbedFlow:    d.FlowSign,
		FlowProbeName: d.FlowProbe,
	}, nil
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		chk.Panic("Please, provide a solve-request filename. Ex.: circuit.json")
	}
	fnamepath := flag.Arg(0)
	if io.FnExt(fnamepath) == "" {
		fnamepath += ".json"
	}

	buf, err := os.ReadFile(fnamepath)
	if err != nil {
		chk.Panic("cannot read %s: %v", fnamepath, err)
	}

	var req request
	if err := json.Unmarshal(buf, &req); err != nil {
		chk.Panic("cannot parse %s: %v", fnamepath, err)
	}

	elements := make([]*circuit.Element, len(req.Elements))
	for i, d := range req.Elements {
		e, err := d.toElement()
		if err != nil {
			chk.Panic("element %d: %v", i, err)
		}
		elements[i] = e
	}

	res, err := sim.Solve(context.Background(), elements, req.Config)
	if err != nil {
		chk.Panic("solve failed: %v", err)
	}

	mode := probe.Full
	if req.Export == "probed" {
		mode = probe.ProbedOnly
	}
	if err := probe.WriteCSV(os.Stdout, res, mode); err != nil {
		chk.Panic("writing csv: %v", err)
	}
}
