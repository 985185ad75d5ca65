// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package calc

// nodeKind discriminates the small tagged expression tree produced by the
// parser. A tree of nodes replaces the source's closures (see SPEC_FULL.md
// §3 "Closure-carrying parse tree"): evaluation walks the tree against a
// positional slice of bindings instead of invoking nested Python lambdas.
type nodeKind int

const (
	nodeConst nodeKind = iota
	nodeVarRef
	nodeUnaryNeg
	nodeBinary
	nodeCall
)

// node is one element of the parsed expression tree.
type node struct {
	kind  nodeKind
	value float64                    // nodeConst
	index int                        // nodeVarRef: position into the bindings slice
	fn    func(float64) float64      // nodeCall: resolved at parse time
	op    func(a, b float64) float64 // nodeBinary: resolved at parse time
	left  *node                      // nodeBinary
	right *node                      // nodeBinary
	child *node                      // nodeUnaryNeg, nodeCall
}

// eval evaluates the node against the given ordered variable bindings.
func (n *node) eval(args []float64) float64 {
	switch n.kind {
	case nodeConst:
		return n.value
	case nodeVarRef:
		return args[n.index]
	case nodeUnaryNeg:
		return -n.child.eval(args)
	case nodeBinary:
		return n.op(n.left.eval(args), n.right.eval(args))
	case nodeCall:
		return n.fn(n.child.eval(args))
	}
	panic("calc: unreachable node kind")
}
