// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph turns a flat list of circuit elements into the directional
// (in bookkeeping only — edges are walked in either direction) graph the
// assembler consumes: geometrically coincident terminals are merged into
// graph nodes, wires are collapsed away, and the resulting edges are
// grouped into maximal non-branching paths, one flow unknown per path.
//
// Grounded on circuitgraph.py's CircuitGraph. A Graph is built fresh by
// Build on every solve (spec.md §9 "Deep-copy of graph per solve"
// redesign): nothing here is mutated across solves, so there is nothing to
// defensively copy.
package graph

import (
	"sort"

	"github.com/maximerenault/LUPA/circuit"
	"github.com/maximerenault/LUPA/geom"
)

// NodeKind discriminates an ordinary junction from a node that pins a
// terminal to a reference value (the second terminal of a Ground, PSource
// or QSource), matching circuitgraph.py's GraphNodeType.
type NodeKind int

// node kinds
const (
	NodeKindDipole NodeKind = iota
	NodeKindSource
)

// Node is a graph junction: every coincident element terminal merges into
// one Node.
type Node struct {
	Kind      NodeKind
	Edges     []*Edge
	Probed    bool
	ProbeName string
}

// Edge connects two node indices through the element that realizes it.
// Start/End are node indices into Graph.Nodes, or -1 once the node they
// pointed to was a Source node removed by deleteSourceNodes.
type Edge struct {
	Start, End int
	Elem       *circuit.Element
}

// Graph is the built representation: nodes, their connecting edges, and
// the edges grouped into maximal non-branching paths (one flow unknown per
// path), with start/end node index pairs per path.
type Graph struct {
	Nodes     []*Node
	Edges     []*Edge
	Paths     [][]*Edge
	StartEnds [][2]int
}

// NbP is the number of pressure unknowns (graph nodes after source removal).
func (g *Graph) NbP() int { return len(g.Nodes) }

// NbQ is the number of flow unknowns (one per path).
func (g *Graph) NbQ() int { return len(g.Paths) }

type geoTerminal struct {
	pos       geom.Point
	elem      *circuit.Element
	term      int // 0 or 1, which terminal of elem this is
	probed    bool
	probeName string
}

type endpoints struct{ start, end int }

// Build constructs the graph from a flat element list, following
// circuitgraph.py's convert_circuit_to_graph (coincidence merge + wire
// collapse), graph_max_len_non_branching_paths and delete_node_sources.
func Build(elements []*circuit.Element) *Graph {
	cnodes := collectTerminals(elements)
	sort.Slice(cnodes, func(i, j int) bool { return cnodes[i].pos.Less(cnodes[j].pos) })

	epts := make(map[*circuit.Element]*endpoints)
	for _, e := range elements {
		if e.Kind != circuit.KindWire {
			epts[e] = &endpoints{-1, -1}
		}
	}

	var nodes []*Node
	for len(cnodes) > 0 {
		idend := 1
		for idend < len(cnodes) && cnodes[idend].pos.Equal(cnodes[0].pos) {
			idend++
		}
		sub := append([]*geoTerminal(nil), cnodes[:idend]...)
		cnodes = cnodes[idend:]

		gn := &Node{Kind: NodeKindDipole}
		nodes = append(nodes, gn)
		idnode := len(nodes) - 1

		for i := 0; i < len(sub); i++ {
			cn := sub[i]
			if cn.probed {
				gn.Probed = true
				gn.ProbeName = cn.probeName
			}
			if cn.elem.Kind == circuit.KindWire {
				sub, cnodes = collapseWire(cn, sub, cnodes, gn)
				continue
			}
			ep := epts[cn.elem]
			if cn.term == 0 {
				ep.start = idnode
			} else {
				ep.end = idnode
			}
			if cn.elem.Kind.IsSource() && cn.term == 1 {
				gn.Kind = NodeKindSource
			}
		}
	}

	var edges []*Edge
	for _, e := range elements {
		if e.Kind == circuit.KindWire {
			continue
		}
		ep := epts[e]
		edge := &Edge{Start: ep.start, End: ep.end, Elem: e}
		edges = append(edges, edge)
		nodes[ep.start].Edges = append(nodes[ep.start].Edges, edge)
		nodes[ep.end].Edges = append(nodes[ep.end].Edges, edge)
	}

	g := &Graph{Nodes: nodes, Edges: edges}
	g.Paths, g.StartEnds = g.findMaxNonBranchingPaths()
	g.deleteSourceNodes()
	return g
}

func collectTerminals(elements []*circuit.Element) []*geoTerminal {
	var cnodes []*geoTerminal
	for _, e := range elements {
		for t := 0; t < 2; t++ {
			term := e.Terminals[t]
			cnodes = append(cnodes, &geoTerminal{
				pos:       term.Pos,
				elem:      e,
				term:      t,
				probed:    term.Probed,
				probeName: term.ProbeName,
			})
		}
	}
	return cnodes
}

// collapseWire folds a wire's other terminal into the current coincidence
// group, so the wire contributes no graph node or edge of its own.
func collapseWire(cn *geoTerminal, sub []*geoTerminal, cnodes []*geoTerminal, gn *Node) ([]*geoTerminal, []*geoTerminal) {
	otherTerm := 1 - cn.term
	other := cn.elem.Terminals[otherTerm]
	if other.Probed {
		gn.Probed = true
	}
	lo := sort.Search(len(cnodes), func(k int) bool { return !cnodes[k].pos.Less(other.Pos) })
	hi := lo
	for hi < len(cnodes) && cnodes[hi].pos.Equal(other.Pos) {
		hi++
	}
	found := -1
	for k := lo; k < hi; k++ {
		if cnodes[k].elem == cn.elem && cnodes[k].term == otherTerm {
			found = k
			break
		}
	}
	if found < 0 {
		return sub, cnodes
	}
	cnodes = append(cnodes[:found], cnodes[found+1:]...)
	if found < hi {
		hi--
	}
	sub = append(sub, cnodes[lo:hi]...)
	cnodes = append(cnodes[:lo], cnodes[hi:]...)
	return sub, cnodes
}

// findMaxNonBranchingPaths implements the Rosalind BA3M-style maximal
// non-branching path enumeration from circuitgraph.py, adapted for a
// non-directional graph by removing the resulting reversed-duplicate
// paths afterwards.
func (g *Graph) findMaxNonBranchingPaths() ([][]*Edge, [][2]int) {
	var paths [][]*Edge
	var startEnds [][2]int

	for i, node := range g.Nodes {
		if len(node.Edges) == 2 {
			continue
		}
		for _, edge := range node.Edges {
			path := []*Edge{edge}
			var j int
			if edge.Start == i {
				j = edge.End
			} else {
				j = edge.Start
			}
			node1 := g.Nodes[j]
			prev := edge
			for len(node1.Edges) == 2 {
				var next *Edge
				for _, e := range node1.Edges {
					if e != prev {
						next = e
						break
					}
				}
				path = append(path, next)
				prev = next
				if prev.Start != j {
					j = prev.Start
				} else {
					j = prev.End
				}
				node1 = g.Nodes[j]
			}
			paths = append(paths, path)
			startEnds = append(startEnds, [2]int{i, j})
		}
	}

	// de-duplicate: two entries represent the same path if one is the
	// pointer-reversed sequence of the other (spec.md §9 Open Question 3:
	// identity of the underlying *Edge, not coordinates or indices).
	var rem []int
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if reversedEqual(paths[i], paths[j]) {
				rem = append(rem, i)
				break
			}
		}
	}
	for k := len(rem) - 1; k >= 0; k-- {
		i := rem[k]
		paths = append(paths[:i], paths[i+1:]...)
		startEnds = append(startEnds[:i], startEnds[i+1:]...)
	}
	return paths, startEnds
}

func reversedEqual(a, b []*Edge) bool {
	if len(a) != len(b) {
		return false
	}
	n := len(a)
	for i := 0; i < n; i++ {
		if a[i] != b[n-1-i] {
			return false
		}
	}
	return true
}

// deleteSourceNodes removes Source-kind nodes (Ground/PSource/QSource
// reference terminals) from the node list, setting any edge endpoint that
// pointed at a removed node to the -1 sentinel and shifting remaining
// indices down, following circuitgraph.py's delete_node_sources.
func (g *Graph) deleteSourceNodes() {
	var rem []int
	for i, n := range g.Nodes {
		if n.Kind == NodeKindSource {
			rem = append(rem, i)
		}
	}
	for k := len(rem) - 1; k >= 0; k-- {
		i := rem[k]
		g.Nodes = append(g.Nodes[:i], g.Nodes[i+1:]...)
		for _, path := range g.Paths {
			for _, edge := range path {
				shiftEndpoint(&edge.Start, i)
				shiftEndpoint(&edge.End, i)
			}
		}
		for j := range g.StartEnds {
			shiftEndpoint(&g.StartEnds[j][0], i)
			shiftEndpoint(&g.StartEnds[j][1], i)
		}
	}
}

func shiftEndpoint(idx *int, removed int) {
	switch {
	case *idx == removed:
		*idx = -1
	case *idx > removed:
		*idx--
	}
}
